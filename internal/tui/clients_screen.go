package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/clientbook/internal/app"
	"github.com/andy/clientbook/internal/domain"
	"github.com/andy/clientbook/internal/parser"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// clientMode represents the current screen mode
type clientMode int

const (
	clientModeList clientMode = iota
	clientModeNew
	clientModeConfirmDelete
)

// form field indices
const (
	fieldName = iota
	fieldAddress
	fieldPhone
	fieldEmail
	fieldTags
	fieldCount
)

// ClientsModel displays a navigable list of clients next to the selected
// client's details, with a form for new clients
type ClientsModel struct {
	app       *app.App
	clients   []*domain.Client
	cursor    int
	selectOn  domain.Name // client to select after the next load
	loading   bool
	err       error
	statusMsg string

	// Form state
	mode          clientMode
	fields        []textinput.Model
	fieldFocus    int
	autoNewClient bool // open new client form after data loads
}

type clientsDataMsg struct {
	clients []*domain.Client
	err     error
}

type clientSavedMsg struct {
	name domain.Name
	err  error
}

type clientDeletedMsg struct {
	name domain.Name
	err  error
}

// NewClientsModel creates a new clients screen model
func NewClientsModel(a *app.App) tea.Model {
	return &ClientsModel{
		app:     a,
		loading: true,
	}
}

// IsCapturingInput returns true when the form or delete prompt is active
func (m *ClientsModel) IsCapturingInput() bool {
	return m.mode != clientModeList
}

func (m *ClientsModel) Init() tea.Cmd {
	return m.loadClients()
}

func (m *ClientsModel) loadClients() tea.Cmd {
	svc := m.app.ClientService
	return func() tea.Msg {
		clients, err := svc.ListClients(context.Background())
		return clientsDataMsg{clients: clients, err: err}
	}
}

// selected returns the client under the cursor, or nil
func (m *ClientsModel) selected() *domain.Client {
	if m.cursor < 0 || m.cursor >= len(m.clients) {
		return nil
	}
	return m.clients[m.cursor]
}

func (m *ClientsModel) currency() string {
	return m.app.Config.Display.Currency
}

func (m *ClientsModel) initForm() {
	m.fields = make([]textinput.Model, fieldCount)

	m.fields[fieldName] = textinput.New()
	m.fields[fieldName].Placeholder = "Client name"
	m.fields[fieldName].CharLimit = 100
	m.fields[fieldName].Width = 40

	m.fields[fieldAddress] = textinput.New()
	m.fields[fieldAddress].Placeholder = "Street, city"
	m.fields[fieldAddress].CharLimit = 200
	m.fields[fieldAddress].Width = 50

	m.fields[fieldPhone] = textinput.New()
	m.fields[fieldPhone].Placeholder = "Optional, digits only"
	m.fields[fieldPhone].CharLimit = 20
	m.fields[fieldPhone].Width = 20

	m.fields[fieldEmail] = textinput.New()
	m.fields[fieldEmail].Placeholder = "email@example.com"
	m.fields[fieldEmail].CharLimit = 100
	m.fields[fieldEmail].Width = 40

	m.fields[fieldTags] = textinput.New()
	m.fields[fieldTags].Placeholder = "Comma separated, e.g. wholesale,vip"
	m.fields[fieldTags].CharLimit = 200
	m.fields[fieldTags].Width = 40

	m.fieldFocus = fieldName
	m.fields[fieldName].Focus()
}

func (m *ClientsModel) formTags() []string {
	var tags []string
	for _, t := range strings.Split(m.fields[fieldTags].Value(), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (m *ClientsModel) saveClient() tea.Cmd {
	svc := m.app.ClientService
	name := m.fields[fieldName].Value()
	address := m.fields[fieldAddress].Value()
	phone := m.fields[fieldPhone].Value()
	email := m.fields[fieldEmail].Value()
	tags := m.formTags()

	return func() tea.Msg {
		client, err := parser.ClientFromFields(name, address, phone, email, tags)
		if err != nil {
			return clientSavedMsg{err: err}
		}
		if err := svc.AddClient(context.Background(), client); err != nil {
			return clientSavedMsg{err: err}
		}
		return clientSavedMsg{name: client.Name()}
	}
}

func (m *ClientsModel) deleteClient() tea.Cmd {
	svc := m.app.ClientService
	index := m.cursor + 1
	return func() tea.Msg {
		client, err := svc.DeleteClient(context.Background(), index)
		if err != nil {
			return clientDeletedMsg{err: err}
		}
		return clientDeletedMsg{name: client.Name()}
	}
}

func (m *ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle OpenNewClientFormMsg at the top so it works regardless of mode
	if _, ok := msg.(OpenNewClientFormMsg); ok {
		if m.loading {
			// Data hasn't loaded yet; set flag to auto-open form when it does
			m.autoNewClient = true
			return m, nil
		}
		m.mode = clientModeNew
		m.initForm()
		return m, m.fields[fieldName].Focus()
	}

	if m.mode == clientModeNew {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		m.selectOn = msg.Select
		return m, m.loadClients()

	case clientsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.clients = msg.clients
			m.applySelection()
		}
		// Auto-open new client form on first run
		if m.autoNewClient {
			m.autoNewClient = false
			m.mode = clientModeNew
			m.initForm()
			return m, m.fields[fieldName].Focus()
		}
		return m, nil

	case clientDeletedMsg:
		m.mode = clientModeList
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Deleted: %s", msg.name)
		m.loading = true
		return m, m.loadClients()

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		if m.mode == clientModeConfirmDelete {
			m.mode = clientModeList
			if key.Matches(msg, DefaultKeyMap.Confirm) {
				return m, m.deleteClient()
			}
			m.statusMsg = "Delete cancelled"
			return m, nil
		}

		m.statusMsg = ""
		m.err = nil

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.clients)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.New):
			m.mode = clientModeNew
			m.initForm()
			return m, m.fields[fieldName].Focus()
		case key.Matches(msg, DefaultKeyMap.Delete):
			if m.selected() != nil {
				m.mode = clientModeConfirmDelete
			}
		}
	}

	return m, nil
}

// applySelection keeps the cursor in range and honours a pending selection
func (m *ClientsModel) applySelection() {
	if m.selectOn != "" {
		for i, c := range m.clients {
			if c.Name() == m.selectOn {
				m.cursor = i
				break
			}
		}
		m.selectOn = ""
	}
	if m.cursor >= len(m.clients) {
		m.cursor = max(0, len(m.clients)-1)
	}
}

func (m *ClientsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clientSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = clientModeList
		m.err = nil
		m.statusMsg = fmt.Sprintf("New client added: %s", msg.name)
		m.loading = true
		m.selectOn = msg.name
		return m, m.loadClients()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = clientModeList
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % fieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + fieldCount) % fieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == fieldCount-1 {
				return m, m.saveClient()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveClient()
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *ClientsModel) View() string {
	if m.mode == clientModeNew {
		return m.viewForm()
	}
	return m.viewList()
}

func (m *ClientsModel) viewForm() string {
	var s string

	if len(m.clients) == 0 {
		s += titleStyle.Render("Welcome to clientbook!") + "\n"
		s += subtitleStyle.Render("  Let's add your first client to get started.") + "\n\n"
	} else {
		s += titleStyle.Render("New Client") + "\n\n"
	}

	labels := []string{"Name:", "Address:", "Phone:", "Email:", "Tags:"}
	for i, label := range labels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")

	return s
}

func (m *ClientsModel) viewList() string {
	if m.loading {
		return "Loading clients..."
	}

	var s string
	s += titleStyle.Render(fmt.Sprintf("Clients (%d)", len(m.clients))) + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	if len(m.clients) == 0 {
		s += subtitleStyle.Render("  No clients yet. Press 'n' to add one.") + "\n"
		return s
	}

	var list []string
	for i, client := range m.clients {
		list = append(list, m.renderRow(i, client))
	}

	s += lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(40).Render(strings.Join(list, "\n")),
		boxStyle.Render(m.renderDetail(m.selected())),
	)

	if m.mode == clientModeConfirmDelete {
		s += "\n\n" + lipgloss.NewStyle().Foreground(warningColor).Render(
			fmt.Sprintf("  Delete %s with all POCs and transactions? [y/N]", m.selected().Name()))
		return s
	}

	s += "\n\n" + helpStyle.Render("  j/k: navigate  n: new  d: delete  :: command (poc, buy, sell)")
	return s
}

func (m *ClientsModel) renderRow(index int, client *domain.Client) string {
	indicator := "  "
	style := lipgloss.NewStyle()
	if index == m.cursor {
		indicator = "> "
		style = style.Bold(true).Foreground(primaryColor)
	}

	line := fmt.Sprintf("%s%d. %s", indicator, index+1, truncateStr(client.Name().String(), 28))
	return style.Render(line)
}

func (m *ClientsModel) renderDetail(client *domain.Client) string {
	if client == nil {
		return ""
	}
	cur := m.currency()

	var b strings.Builder
	b.WriteString(titleStyle.Render(client.Name().String()) + "\n")
	b.WriteString(subtitleStyle.Render(client.Address().String()) + "\n")
	if client.Phone() != "" {
		b.WriteString("Phone: " + client.Phone().String() + "\n")
	}
	if client.Email() != "" {
		b.WriteString("Email: " + client.Email().String() + "\n")
	}
	if tags := client.Tags(); len(tags) > 0 {
		b.WriteString(tagStyle.Render(formatTags(tags)) + "\n")
	}

	pocs := client.PocList()
	b.WriteString(fmt.Sprintf("\nPOCs (%d)\n", pocs.Len()))
	for poc := range pocs.All() {
		b.WriteString("  " + poc.String() + "\n")
	}

	b.WriteString(fmt.Sprintf("\nTransactions (%d)\n", client.TransactionCount()))
	for tx := range client.Transactions() {
		style := sellStyle
		if tx.Kind == domain.TransactionBuy {
			style = buyStyle
		}
		line := fmt.Sprintf("  %s %-4s %d x %s @ %s = %s",
			tx.Date.Format(), tx.Kind, tx.Quantity,
			truncateStr(tx.Goods.String(), 20),
			formatMoney(tx.Price.Decimal(), cur),
			formatMoney(tx.NetValue(), cur),
		)
		b.WriteString(style.Render(line) + "\n")
	}

	b.WriteString("\n" + totalStyle.Render("Net transacted: "+formatMoney(client.TotalTransacted(), cur)))
	return b.String()
}
