package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/andy/clientbook/internal/domain"
	"github.com/andy/clientbook/internal/parser"
	"github.com/andy/clientbook/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrInvalidIndex    = errors.New("the client index provided is invalid")
	ErrUnsupportedCmd  = errors.New("unsupported command")
	ErrDuplicateClient = repository.ErrDuplicateClient
)

// Result describes the outcome of an executed command
type Result struct {
	Message string
	Client  *domain.Client
}

// ClientService runs client book operations against storage.
// Indexes are 1-based positions in ListClients order.
type ClientService interface {
	// AddClient stores a new client; names must be unique
	AddClient(ctx context.Context, client *domain.Client) error

	// ListClients returns every client ordered by name
	ListClients(ctx context.Context) ([]*domain.Client, error)

	// GetClient returns the client at index
	GetClient(ctx context.Context, index int) (*domain.Client, error)

	// AddPoc attaches a poc to the client at index
	AddPoc(ctx context.Context, index int, poc domain.Poc) (*domain.Client, error)

	// RecordTransaction appends a buy or sell to the client at index
	RecordTransaction(ctx context.Context, index int, tx domain.Transaction) (*domain.Client, error)

	// DeleteClient removes the client at index
	DeleteClient(ctx context.Context, index int) (*domain.Client, error)

	// Execute runs a parsed command
	Execute(ctx context.Context, cmd parser.Command) (*Result, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
	logger     *zap.Logger
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository, logger *zap.Logger) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		logger:     logger.Named("clients"),
	}
}

func (s *clientService) AddClient(ctx context.Context, client *domain.Client) error {
	if client == nil {
		return fmt.Errorf("%w: client", domain.ErrMissingField)
	}

	existing, err := s.clientRepo.GetByName(ctx, client.Name())
	if err != nil && !errors.Is(err, repository.ErrClientNotFound) {
		return err
	}
	if existing != nil && existing.SameClient(client) {
		return fmt.Errorf("%w: %s", ErrDuplicateClient, client.Name())
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return err
	}

	s.logger.Info("client added", zap.Int64("client_id", client.ID), zap.String("name", client.Name().String()))
	return nil
}

func (s *clientService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *clientService) GetClient(ctx context.Context, index int) (*domain.Client, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(clients) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	return clients[index-1], nil
}

func (s *clientService) AddPoc(ctx context.Context, index int, poc domain.Poc) (*domain.Client, error) {
	client, err := s.GetClient(ctx, index)
	if err != nil {
		return nil, err
	}

	// Apply to the aggregate first so its uniqueness rule decides
	if err := client.AddPoc(poc); err != nil {
		return nil, err
	}
	if err := s.clientRepo.AddPoc(ctx, client.ID, poc); err != nil {
		return nil, err
	}

	s.logger.Info("poc added",
		zap.Int64("client_id", client.ID),
		zap.String("poc", poc.Name.String()),
	)
	return client, nil
}

func (s *clientService) RecordTransaction(ctx context.Context, index int, tx domain.Transaction) (*domain.Client, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	client, err := s.GetClient(ctx, index)
	if err != nil {
		return nil, err
	}

	client.AddTransaction(tx)
	if err := s.clientRepo.AddTransaction(ctx, client.ID, tx); err != nil {
		return nil, err
	}

	s.logger.Info("transaction recorded",
		zap.Int64("client_id", client.ID),
		zap.String("kind", string(tx.Kind)),
		zap.String("goods", tx.Goods.String()),
		zap.Stringer("net_value", tx.NetValue()),
		zap.Stringer("total", client.TotalTransacted()),
	)
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, index int) (*domain.Client, error) {
	client, err := s.GetClient(ctx, index)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Delete(ctx, client.ID); err != nil {
		return nil, err
	}

	s.logger.Info("client deleted", zap.Int64("client_id", client.ID))
	return client, nil
}

func (s *clientService) Execute(ctx context.Context, cmd parser.Command) (*Result, error) {
	switch c := cmd.(type) {
	case parser.AddClientCommand:
		if err := s.AddClient(ctx, c.Client); err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("New client added: %s", c.Client), Client: c.Client}, nil

	case parser.AddPocCommand:
		client, err := s.AddPoc(ctx, c.Index, c.Poc)
		if err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("New POC added to %s: %s", client.Name(), c.Poc), Client: client}, nil

	case parser.TransactionCommand:
		client, err := s.RecordTransaction(ctx, c.Index, c.Transaction)
		if err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("Transaction recorded for %s: %s", client.Name(), c.Transaction), Client: client}, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedCmd, cmd)
}
