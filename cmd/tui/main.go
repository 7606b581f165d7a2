package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fleetfuel/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	accountStore "github.com/MrJamesThe3rd/fleetfuel/internal/account/store"
	"github.com/MrJamesThe3rd/fleetfuel/internal/closing"
	closingStore "github.com/MrJamesThe3rd/fleetfuel/internal/closing/store"
	"github.com/MrJamesThe3rd/fleetfuel/internal/config"
	"github.com/MrJamesThe3rd/fleetfuel/internal/database"
	"github.com/MrJamesThe3rd/fleetfuel/internal/export"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
	fleetStore "github.com/MrJamesThe3rd/fleetfuel/internal/fleet/store"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	slipStore "github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip/store"
	"github.com/MrJamesThe3rd/fleetfuel/internal/importer"
	"github.com/MrJamesThe3rd/fleetfuel/internal/logging"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
	statementStore "github.com/MrJamesThe3rd/fleetfuel/internal/statement/store"
	"github.com/MrJamesThe3rd/fleetfuel/internal/store/memory"
)

type model struct {
	services view.Services

	currentView View

	importView view.ImportModel
	slipsView  view.SlipsModel
	closeView  view.CloseModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewImport View = 1
	ViewSlips  View = 2
	ViewClose  View = 3
	ViewExport View = 4
)

func newModel(svc view.Services) model {
	return model{
		services:    svc,
		currentView: ViewMenu,
		importView:  view.NewImportModel(svc),
		slipsView:   view.NewSlipsModel(svc),
		closeView:   view.NewCloseModel(svc),
		exportView:  view.NewExportModel(svc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.services)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewSlips
				m.slipsView = view.NewSlipsModel(m.services)

				return m, m.slipsView.Init()
			case "3":
				m.currentView = ViewClose
				m.closeView = view.NewCloseModel(m.services)

				return m, m.closeView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.services)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewSlips:
		var newModel tea.Model
		newModel, cmd = m.slipsView.Update(msg)
		m.slipsView = newModel.(view.SlipsModel)
	case ViewClose:
		var newModel tea.Model
		newModel, cmd = m.closeView.Update(msg)
		m.closeView = newModel.(view.CloseModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var body, help string

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"FleetFuel\n\n" +
				"1. Import Fuel Card Statement\n" +
				"2. Review Fuel Slips\n" +
				"3. Month Close\n" +
				"4. Export Statement\n\n" +
				"q. Quit",
		)
	case ViewImport:
		body, help = m.importView.View(), m.importView.ShortHelp()
	case ViewSlips:
		body, help = m.slipsView.View(), m.slipsView.ShortHelp()
	case ViewClose:
		body, help = m.closeView.View(), m.closeView.ShortHelp()
	case ViewExport:
		body, help = m.exportView.View(), m.exportView.ShortHelp()
	default:
		return "Unknown View"
	}

	return body + "\n" + lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(help)
}

func main() {
	demo := flag.Bool("demo", false, "run against a seeded in-memory ledger instead of Postgres")
	logFile := flag.String("log", "", "write logs to this file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the TUI, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()

		logOut = f
	}

	slog.SetDefault(logging.New(logOut, cfg.App.LogFormat))

	svc, cleanup, err := buildServices(cfg, *demo)
	if err != nil {
		slog.Error("failed to start", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer cleanup()

	p := tea.NewProgram(newModel(svc))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, demo bool) (view.Services, func(), error) {
	svc := view.Services{
		Import:    importer.NewService(),
		Operator:  cfg.App.Operator,
		ExportDir: cfg.Export.Dir,
	}

	if demo {
		store := memory.New()

		svc.Accounts = account.NewService(store)
		svc.Fleet = fleet.NewService(store)
		svc.Slips = fuelslip.NewService(store, svc.Accounts, svc.Fleet)
		svc.Closes = closing.NewService(store)
		svc.Statements = statement.NewService(store)
		svc.Export = export.NewService(svc.Statements, svc.Accounts)

		ctx, cancel := view.DbCtx()
		defer cancel()

		if err := seed(ctx, svc); err != nil {
			return svc, nil, fmt.Errorf("seeding demo ledger: %w", err)
		}

		return svc, func() {}, nil
	}

	db, err := database.New(cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return svc, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return svc, nil, err
	}

	svc.Accounts = account.NewService(accountStore.New(db))
	svc.Fleet = fleet.NewService(fleetStore.New(db))
	svc.Slips = fuelslip.NewService(slipStore.New(db), svc.Accounts, svc.Fleet)
	svc.Closes = closing.NewService(closingStore.New(db))
	svc.Statements = statement.NewService(statementStore.New(db))
	svc.Export = export.NewService(svc.Statements, svc.Accounts)

	return svc, func() { db.Close() }, nil
}
