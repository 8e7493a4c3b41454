package tui

import (
	"strings"

	"github.com/andy/clientbook/internal/parser"
	tea "github.com/charmbracelet/bubbletea"
)

// HelpModel lists the command bar syntax
type HelpModel struct{}

func NewHelpModel() tea.Model {
	return HelpModel{}
}

func (m HelpModel) Init() tea.Cmd { return nil }

func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return m, nil }

func (m HelpModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Commands") + "\n\n")
	b.WriteString(subtitleStyle.Render("  Press ':' and type one of the following. INDEX is the number shown in the client list.") + "\n\n")

	for _, usage := range []string{parser.AddUsage, parser.PocUsage, parser.BuyUsage, parser.SellUsage} {
		b.WriteString("  " + usage + "\n")
	}

	b.WriteString("\n" + subtitleStyle.Render("  Examples:") + "\n")
	b.WriteString("  add n/Acme Corp a/1 Main St p/5551234 t/wholesale\n")
	b.WriteString("  poc 1 n/Jane Doe e/jane@acme.test\n")
	b.WriteString("  sell 1 q/3 g/widgets p/12.50\n")
	b.WriteString("  buy 1 q/10 g/bolts p/0.20 d/2024-05-17\n")

	b.WriteString("\n" + helpStyle.Render("  c: back to clients"))
	return b.String()
}
