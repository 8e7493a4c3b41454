package repository

import (
	"context"
	"errors"

	"github.com/andy/clientbook/internal/domain"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrDuplicateClient = errors.New("a client with this name already exists")
)

// ClientRepository persists Client aggregates together with their tags,
// pocs and transaction log.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByName(ctx context.Context, name domain.Name) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error) // ordered by name
	AddPoc(ctx context.Context, clientID int64, poc domain.Poc) error
	AddTransaction(ctx context.Context, clientID int64, tx domain.Transaction) error
	Delete(ctx context.Context, id int64) error
}
