package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/clientbook/internal/app"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenClients Screen = iota
	ScreenSettings
	ScreenHelp
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenClients:
		return "Clients"
	case ScreenSettings:
		return "Settings"
	case ScreenHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models
	clients  tea.Model
	settings tea.Model
	help     tea.Model

	// Command bar
	command       textinput.Model
	commandActive bool
	running       bool

	// First-run state
	checkedFirstRun bool

	status string
	err    error
}

// New creates a new root model
func New(a *app.App) Model {
	command := textinput.New()
	command.Prompt = promptStyle.Render(": ")
	command.Placeholder = "sell 1 q/3 g/widgets p/12.50"
	command.CharLimit = 500
	command.Width = 60

	return Model{
		app:           a,
		currentScreen: ScreenClients,
		clients:       NewClientsModel(a),
		settings:      NewSettingsModel(a),
		help:          NewHelpModel(),
		command:       command,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkFirstRun(), m.clients.Init())
}

// checkFirstRun checks if any clients exist in the database
func (m *Model) checkFirstRun() tea.Cmd {
	svc := m.app.ClientService
	return func() tea.Msg {
		clients, err := svc.ListClients(context.Background())
		if err != nil {
			return firstRunCheckMsg{hasClients: true} // assume yes on error
		}
		return firstRunCheckMsg{hasClients: len(clients) > 0}
	}
}

// runCommand parses and executes one command bar line
func (m *Model) runCommand(line string) tea.Cmd {
	a := m.app
	return func() tea.Msg {
		res, err := a.Run(context.Background(), line)
		if err != nil {
			return commandResultMsg{err: err}
		}
		return commandResultMsg{message: res.Message, client: res.Client}
	}
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

func (m *Model) activeScreen() tea.Model {
	switch m.currentScreen {
	case ScreenSettings:
		return m.settings
	case ScreenHelp:
		return m.help
	}
	return m.clients
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.activeScreen().(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to the command bar or screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.commandActive {
			return m.updateCommand(msg)
		}

		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Help):
				m.currentScreen = ScreenHelp
				return m, nil

			case key.Matches(msg, DefaultKeyMap.Settings):
				m.currentScreen = ScreenSettings
				return m, nil

			case key.Matches(msg, DefaultKeyMap.Clients), key.Matches(msg, DefaultKeyMap.Back):
				m.currentScreen = ScreenClients
				return m, nil

			case key.Matches(msg, DefaultKeyMap.Command):
				m.commandActive = true
				m.status = ""
				m.err = nil
				m.command.SetValue("")
				return m, m.command.Focus()
			}
		}

	case commandResultMsg:
		m.running = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = msg.message
		m.currentScreen = ScreenClients
		refresh := RefreshDataMsg{}
		if msg.client != nil {
			refresh.Select = msg.client.Name()
		}
		var cmd tea.Cmd
		m.clients, cmd = m.clients.Update(refresh)
		return m, cmd

	case firstRunCheckMsg:
		if !m.checkedFirstRun && !msg.hasClients {
			m.checkedFirstRun = true
			m.currentScreen = ScreenClients
			openFormCmd := func() tea.Msg { return OpenNewClientFormMsg{} }
			return m, openFormCmd
		}
		m.checkedFirstRun = true
		return m, nil

	case SwitchScreenMsg:
		m.currentScreen = msg.Screen
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case settingsSavedMsg:
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		return m, cmd
	}

	// Keys go to the visible screen; everything else goes to the clients
	// screen, which owns all loaded data
	var cmd tea.Cmd
	if _, ok := msg.(tea.KeyMsg); ok {
		switch m.currentScreen {
		case ScreenSettings:
			m.settings, cmd = m.settings.Update(msg)
			return m, cmd
		case ScreenHelp:
			m.help, cmd = m.help.Update(msg)
			return m, cmd
		}
	}
	m.clients, cmd = m.clients.Update(msg)
	return m, cmd
}

func (m Model) updateCommand(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.commandActive = false
		m.command.Blur()
		return m, nil

	case tea.KeyEnter:
		line := strings.TrimSpace(m.command.Value())
		m.commandActive = false
		m.command.Blur()
		if line == "" || m.running {
			return m, nil
		}
		m.running = true
		return m, m.runCommand(line)
	}

	var cmd tea.Cmd
	m.command, cmd = m.command.Update(msg)
	return m, cmd
}

// View implements tea.Model - renders header + current screen + command bar + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("clientbook - %s", m.currentScreen))
	footer := footerStyle.Render("[C]lients  [:] Command  [,] Settings  [?] Help  [Q]uit")

	content := m.activeScreen().View()

	// Command bar, status, or error
	var bar string
	switch {
	case m.commandActive:
		bar = m.command.View()
	case m.running:
		bar = subtitleStyle.Render("Running...")
	case m.err != nil:
		bar = lipgloss.NewStyle().Foreground(errorColor).Render(fmt.Sprintf("Error: %s", m.err))
	case m.status != "":
		bar = lipgloss.NewStyle().Foreground(successColor).Render(m.status)
	}

	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n%s\n%s", header, divider, content, bar, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
