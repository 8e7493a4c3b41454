package tui

import "github.com/andy/clientbook/internal/domain"

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh. A non-empty Select moves the
// cursor to the client with that name once data has loaded.
type RefreshDataMsg struct {
	Select domain.Name
}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// OpenNewClientFormMsg tells the clients screen to open the new client form
type OpenNewClientFormMsg struct{}

// commandResultMsg reports the outcome of a line typed in the command bar
type commandResultMsg struct {
	message string
	client  *domain.Client
	err     error
}

// firstRunCheckMsg reports whether the database has any clients
type firstRunCheckMsg struct {
	hasClients bool
}
