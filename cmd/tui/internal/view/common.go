package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/closing"
	"github.com/MrJamesThe3rd/fleetfuel/internal/export"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	"github.com/MrJamesThe3rd/fleetfuel/internal/importer"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
)

type CommonModel struct {
	Width  int
	Height int
}

// Services is what the screens operate on. Operator is recorded as the
// performer of every change made from the TUI.
type Services struct {
	Accounts   *account.Service
	Fleet      *fleet.Service
	Slips      *fuelslip.Service
	Closes     *closing.Service
	Statements *statement.Service
	Import     *importer.Service
	Export     *export.Service

	Operator  string
	ExportDir string
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
