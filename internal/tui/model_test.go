package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/andy/clientbook/internal/app"
	"github.com/andy/clientbook/internal/config"
	"github.com/andy/clientbook/internal/domain"
	"github.com/andy/clientbook/internal/parser"
	"github.com/andy/clientbook/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// stubService keeps clients in a slice and executes commands against it
type stubService struct {
	clients []*domain.Client
}

func (s *stubService) AddClient(ctx context.Context, c *domain.Client) error {
	s.clients = append(s.clients, c)
	return nil
}
func (s *stubService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.clients, nil
}
func (s *stubService) GetClient(ctx context.Context, index int) (*domain.Client, error) {
	if index < 1 || index > len(s.clients) {
		return nil, service.ErrInvalidIndex
	}
	return s.clients[index-1], nil
}
func (s *stubService) AddPoc(ctx context.Context, index int, poc domain.Poc) (*domain.Client, error) {
	c, err := s.GetClient(ctx, index)
	if err != nil {
		return nil, err
	}
	return c, c.AddPoc(poc)
}
func (s *stubService) RecordTransaction(ctx context.Context, index int, tx domain.Transaction) (*domain.Client, error) {
	c, err := s.GetClient(ctx, index)
	if err != nil {
		return nil, err
	}
	c.AddTransaction(tx)
	return c, nil
}
func (s *stubService) DeleteClient(ctx context.Context, index int) (*domain.Client, error) {
	c, err := s.GetClient(ctx, index)
	if err != nil {
		return nil, err
	}
	s.clients = append(s.clients[:index-1], s.clients[index:]...)
	return c, nil
}
func (s *stubService) Execute(ctx context.Context, cmd parser.Command) (*service.Result, error) {
	switch c := cmd.(type) {
	case parser.TransactionCommand:
		client, err := s.RecordTransaction(ctx, c.Index, c.Transaction)
		if err != nil {
			return nil, err
		}
		return &service.Result{Message: "Transaction recorded for " + client.Name().String(), Client: client}, nil
	}
	return nil, service.ErrUnsupportedCmd
}

func newTestApp(t *testing.T, names ...string) (*app.App, *stubService) {
	t.Helper()
	svc := &stubService{}
	for _, n := range names {
		c, err := parser.ClientFromFields(n, "1 Main St", "", "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		svc.clients = append(svc.clients, c)
	}
	return &app.App{
		Config:        config.DefaultConfig(),
		ClientService: svc,
		Parser:        parser.New(),
	}, svc
}

// drain runs cmd and feeds its message back into the model
func drain(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if msg == nil {
		return m
	}
	m, _ = m.Update(msg)
	return m
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestClientsModel_LoadAndNavigate(t *testing.T) {
	a, _ := newTestApp(t, "Acme", "Globex")
	cm := NewClientsModel(a)
	cm = drain(t, cm, cm.Init())

	m := cm.(*ClientsModel)
	if len(m.clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(m.clients))
	}

	cm, _ = cm.Update(keys("j"))
	if got := m.selected().Name(); got != "Globex" {
		t.Fatalf("expected Globex selected, got %s", got)
	}

	cm, _ = cm.Update(keys("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor should stop at the last client, got %d", m.cursor)
	}
}

func TestClientsModel_DeleteNeedsConfirmation(t *testing.T) {
	a, svc := newTestApp(t, "Acme", "Globex")
	cm := NewClientsModel(a)
	cm = drain(t, cm, cm.Init())

	cm, _ = cm.Update(keys("d"))
	cm, cmd := cm.Update(keys("n"))
	if cmd != nil || len(svc.clients) != 2 {
		t.Fatalf("delete should be cancelled by any key but y")
	}

	cm, _ = cm.Update(keys("d"))
	cm, cmd = cm.Update(keys("y"))
	cm = drain(t, cm, cmd)
	if len(svc.clients) != 1 || svc.clients[0].Name() != "Globex" {
		t.Fatalf("expected Acme to be deleted")
	}
}

func TestModel_CommandBarRecordsTransaction(t *testing.T) {
	a, svc := newTestApp(t, "Acme", "Globex")
	var tm tea.Model = New(a)
	tm, _ = tm.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	tm = drain(t, tm, tm.(Model).clients.Init())

	tm, _ = tm.Update(keys(":"))
	for _, r := range "sell 2 q/4 g/widget p/12.50" {
		tm, _ = tm.Update(keys(string(r)))
	}
	tm, cmd := tm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected command to run")
	}

	// Result updates the status and asks the clients screen to reload
	tm, cmd = tm.Update(cmd())
	tm = drain(t, tm, cmd)

	if got := svc.clients[1].TotalTransacted().StringFixed(2); got != "50.00" {
		t.Fatalf("expected Globex total 50.00, got %s", got)
	}

	root := tm.(Model)
	if root.err != nil {
		t.Fatalf("unexpected error: %v", root.err)
	}
	if !strings.Contains(root.status, "Globex") {
		t.Fatalf("unexpected status %q", root.status)
	}
	if got := root.clients.(*ClientsModel).selected().Name(); got != "Globex" {
		t.Fatalf("expected Globex selected after command, got %s", got)
	}
	if !strings.Contains(root.View(), "$50.00") {
		t.Fatalf("expected formatted total in view")
	}
}

func TestModel_CommandBarShowsParseErrors(t *testing.T) {
	a, _ := newTestApp(t, "Acme")
	var tm tea.Model = New(a)

	tm, _ = tm.Update(keys(":"))
	for _, r := range "sell x" {
		tm, _ = tm.Update(keys(string(r)))
	}
	tm, cmd := tm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	tm, _ = tm.Update(cmd())

	if tm.(Model).err == nil {
		t.Fatalf("expected parse error to be shown")
	}
}
