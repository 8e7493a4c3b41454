package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/andy/clientbook/internal/db"
	"github.com/andy/clientbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) *ClientRepo {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "clientbook.db"), "test-key")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.RunMigrations())
	return NewClientRepo(database)
}

func newClient(t *testing.T, name string) *domain.Client {
	t.Helper()
	c, err := domain.NewClient(domain.Name(name), "123 Street", "91234567", "a@x.com", []domain.Tag{"friend", "vip"})
	require.NoError(t, err)
	return c
}

func newTx(t *testing.T, kind domain.TransactionKind, price string, qty int) domain.Transaction {
	t.Helper()
	p, err := domain.NewPrice(price)
	require.NoError(t, err)
	return domain.Transaction{
		Kind:     kind,
		Goods:    "apple",
		Price:    p,
		Quantity: domain.Quantity(qty),
		Date:     domain.NewDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func TestClientRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	c := newClient(t, "Alice")
	require.NoError(t, c.AddPoc(domain.Poc{Name: "Bob", Phone: "98765432", Tags: []domain.Tag{"supplier"}}))
	require.NoError(t, c.AddPoc(domain.Poc{Name: "Carol"}))
	c.AddTransaction(newTx(t, domain.TransactionSell, "50", 1))
	c.AddTransaction(newTx(t, domain.TransactionBuy, "20", 1))

	require.NoError(t, repo.Create(ctx, c))
	require.NotZero(t, c.ID)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Equal(c))
	assert.Equal(t, []string{"Bob", "Carol"}, got.PocList().Names())
	assert.Equal(t, []domain.Tag{"supplier"}, got.PocList().At(0).Tags)
	assert.Equal(t, 2, got.TransactionCount())
	assert.Equal(t, "30.00", got.TotalTransacted().StringFixed(2))
	assert.Equal(t, c.String(), got.String())

	byName, err := repo.GetByName(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byName.ID)
}

func TestClientRepo_DuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	require.NoError(t, repo.Create(ctx, newClient(t, "Alice")))
	err := repo.Create(ctx, newClient(t, "Alice"))
	assert.ErrorIs(t, err, ErrDuplicateClient)
}

func TestClientRepo_AddPocAndTransaction(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	c := newClient(t, "Alice")
	require.NoError(t, repo.Create(ctx, c))

	require.NoError(t, repo.AddPoc(ctx, c.ID, domain.Poc{Name: "Bob"}))
	require.NoError(t, repo.AddPoc(ctx, c.ID, domain.Poc{Name: "Carol"}))
	err := repo.AddPoc(ctx, c.ID, domain.Poc{Name: "Bob"})
	assert.ErrorIs(t, err, domain.ErrDuplicatePoc)

	require.NoError(t, repo.AddTransaction(ctx, c.ID, newTx(t, domain.TransactionSell, "1.25", 4)))
	require.NoError(t, repo.AddTransaction(ctx, c.ID, newTx(t, domain.TransactionBuy, "0.50", 2)))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Carol"}, got.PocList().Names())
	assert.Equal(t, "4.00", got.TotalTransacted().StringFixed(2))

	var kinds []domain.TransactionKind
	for tx := range got.Transactions() {
		kinds = append(kinds, tx.Kind)
	}
	assert.Equal(t, []domain.TransactionKind{domain.TransactionSell, domain.TransactionBuy}, kinds)
}

func TestClientRepo_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	for _, name := range []string{"Charlie", "Alice", "Bob"} {
		require.NoError(t, repo.Create(ctx, newClient(t, name)))
	}

	clients, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 3)
	assert.Equal(t, domain.Name("Alice"), clients[0].Name())
	assert.Equal(t, domain.Name("Charlie"), clients[2].Name())

	require.NoError(t, repo.Delete(ctx, clients[0].ID))
	_, err = repo.GetByID(ctx, clients[0].ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, clients[0].ID), ErrClientNotFound)

	clients, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 2)
}
