package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/clientbook/internal/db"
	"github.com/andy/clientbook/internal/domain"
	sqlite3 "github.com/mutecomm/go-sqlcipher/v4"
	"github.com/shopspring/decimal"
)

// ClientRepo is a SQLite implementation of ClientRepository
type ClientRepo struct {
	db *db.DB
}

// NewClientRepo creates a new ClientRepo
func NewClientRepo(database *db.DB) *ClientRepo {
	return &ClientRepo{db: database}
}

// Create inserts a client and everything it owns in a single transaction
func (r *ClientRepo) Create(ctx context.Context, client *domain.Client) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO clients (name, address, phone, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		client.Name(),
		client.Address(),
		client.Phone(),
		client.Email(),
		client.CreatedAt.Format(timeLayout),
		client.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateClient, client.Name())
		}
		return fmt.Errorf("failed to create client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get client ID: %w", err)
	}

	for _, tag := range client.Tags() {
		if _, err := tx.ExecContext(ctx, "INSERT INTO client_tags (client_id, tag) VALUES (?, ?)", id, tag); err != nil {
			return fmt.Errorf("failed to save tag %s: %w", tag, err)
		}
	}

	position := 0
	for poc := range client.PocList().All() {
		if err := insertPoc(ctx, tx, id, position, poc); err != nil {
			return err
		}
		position++
	}

	for t := range client.Transactions() {
		if err := insertTransaction(ctx, tx, id, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit client: %w", err)
	}

	client.ID = id
	return nil
}

// GetByID retrieves a client by ID
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := `
		SELECT id, name, address, phone, email, created_at, updated_at
		FROM clients
		WHERE id = ?
	`
	return r.getOne(ctx, query, id)
}

// GetByName retrieves a client by name
func (r *ClientRepo) GetByName(ctx context.Context, name domain.Name) (*domain.Client, error) {
	query := `
		SELECT id, name, address, phone, email, created_at, updated_at
		FROM clients
		WHERE name = ?
	`
	return r.getOne(ctx, query, name)
}

func (r *ClientRepo) getOne(ctx context.Context, query string, arg any) (*domain.Client, error) {
	row, err := scanClientRow(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return r.hydrate(ctx, row)
}

// List retrieves all clients ordered by name
func (r *ClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	query := `
		SELECT id, name, address, phone, email, created_at, updated_at
		FROM clients
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	// Drain the cursor before loading relations: the pool holds one connection.
	var clientRows []clientRow
	for rows.Next() {
		row, err := scanClientRow(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clientRows = append(clientRows, row)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}
	rows.Close()

	clients := make([]*domain.Client, 0, len(clientRows))
	for _, row := range clientRows {
		client, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	return clients, nil
}

// AddPoc appends a poc to the client's list
func (r *ClientRepo) AddPoc(ctx context.Context, clientID int64, poc domain.Poc) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM pocs WHERE client_id = ?", clientID,
	).Scan(&position)
	if err != nil {
		return fmt.Errorf("failed to get poc position: %w", err)
	}

	if err := insertPoc(ctx, tx, clientID, position, poc); err != nil {
		return err
	}
	if err := touchClient(ctx, tx, clientID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit poc: %w", err)
	}
	return nil
}

// AddTransaction appends a transaction to the client's log
func (r *ClientRepo) AddTransaction(ctx context.Context, clientID int64, t domain.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertTransaction(ctx, tx, clientID, t); err != nil {
		return err
	}
	if err := touchClient(ctx, tx, clientID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a client; tags, pocs and transactions cascade
func (r *ClientRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrClientNotFound
	}

	return nil
}

type clientRow struct {
	id        int64
	name      string
	address   string
	phone     string
	email     string
	createdAt string
	updatedAt string
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClientRow(s rowScanner) (clientRow, error) {
	var row clientRow
	err := s.Scan(
		&row.id,
		&row.name,
		&row.address,
		&row.phone,
		&row.email,
		&row.createdAt,
		&row.updatedAt,
	)
	return row, err
}

// hydrate loads tags, pocs and transactions and rebuilds the aggregate
// through the domain constructor.
func (r *ClientRepo) hydrate(ctx context.Context, row clientRow) (*domain.Client, error) {
	tags, err := loadTags(ctx, r.db, row.id)
	if err != nil {
		return nil, err
	}
	pocs, err := loadPocs(ctx, r.db, row.id)
	if err != nil {
		return nil, err
	}
	log, err := loadTransactions(ctx, r.db, row.id)
	if err != nil {
		return nil, err
	}

	client, err := domain.NewClientWithRelations(
		domain.Name(row.name),
		domain.Address(row.address),
		domain.Phone(row.phone),
		domain.Email(row.email),
		tags,
		pocs,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("stored client %d is invalid: %w", row.id, err)
	}

	client.ID = row.id
	if client.CreatedAt, err = parseTime(row.createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if client.UpdatedAt, err = parseTime(row.updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return client, nil
}

func loadTags(ctx context.Context, q querier, clientID int64) ([]domain.Tag, error) {
	rows, err := q.QueryContext(ctx, "SELECT tag FROM client_tags WHERE client_id = ? ORDER BY tag", clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, domain.Tag(tag))
	}
	return tags, rows.Err()
}

func loadPocs(ctx context.Context, q querier, clientID int64) (*domain.UniquePocList, error) {
	query := `
		SELECT name, phone, email, tags
		FROM pocs
		WHERE client_id = ?
		ORDER BY position
	`

	rows, err := q.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pocs: %w", err)
	}
	defer rows.Close()

	var pocs []domain.Poc
	for rows.Next() {
		var name, phone, email, tags string
		if err := rows.Scan(&name, &phone, &email, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan poc: %w", err)
		}
		pocs = append(pocs, domain.Poc{
			Name:  domain.Name(name),
			Phone: domain.Phone(phone),
			Email: domain.Email(email),
			Tags:  splitTags(tags),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pocs: %w", err)
	}

	return domain.NewUniquePocList(pocs...)
}

func loadTransactions(ctx context.Context, q querier, clientID int64) (*domain.TransactionLog, error) {
	query := `
		SELECT kind, goods, price, quantity, date
		FROM transactions
		WHERE client_id = ?
		ORDER BY id
	`

	rows, err := q.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()

	log := domain.NewTransactionLog()
	for rows.Next() {
		var kind, goods, price, date string
		var qty int
		if err := rows.Scan(&kind, &goods, &price, &qty, &date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		t := domain.Transaction{Goods: domain.Goods(goods), Quantity: domain.Quantity(qty)}
		if t.Kind, err = domain.ParseTransactionKind(kind); err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price %q: %w", price, err)
		}
		if t.Price, err = domain.PriceOf(amount); err != nil {
			return nil, err
		}
		if t.Date, err = domain.ParseDate(date); err != nil {
			return nil, err
		}
		log.Add(t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return log, nil
}

func insertPoc(ctx context.Context, q querier, clientID int64, position int, poc domain.Poc) error {
	query := `
		INSERT INTO pocs (client_id, position, name, phone, email, tags)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := q.ExecContext(ctx, query,
		clientID,
		position,
		poc.Name,
		poc.Phone,
		poc.Email,
		joinTags(poc.Tags),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicatePoc, poc.Name)
		}
		return fmt.Errorf("failed to save poc: %w", err)
	}
	return nil
}

func insertTransaction(ctx context.Context, q querier, clientID int64, t domain.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	query := `
		INSERT INTO transactions (client_id, kind, goods, price, quantity, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.ExecContext(ctx, query,
		clientID,
		string(t.Kind),
		string(t.Goods),
		t.Price.String(),
		int(t.Quantity),
		t.Date.Format(),
		formatTime(),
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func touchClient(ctx context.Context, q querier, clientID int64) error {
	result, err := q.ExecContext(ctx, "UPDATE clients SET updated_at = ? WHERE id = ?", formatTime(), clientID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrClientNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
