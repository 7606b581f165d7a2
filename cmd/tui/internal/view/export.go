package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/export"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
)

const (
	exportTimeout    = 2 * time.Minute
	statementsToShow = 24
)

type exportState int

const (
	exportStateLoading exportState = iota
	exportStateAccount
	exportStateStatement
	exportStateExporting
	exportStateResult
)

type exportForm struct {
	accountID   uuid.UUID
	statementID uuid.UUID
	format      export.Format
	path        string
}

type ExportModel struct {
	CommonModel
	svc Services

	state   exportState
	err     error
	form    *huh.Form
	input   *exportForm
	spinner spinner.Model

	written string
	summary string
}

func NewExportModel(svc Services) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	dir := svc.ExportDir
	if dir == "" {
		dir = "./exports"
	}

	return ExportModel{
		svc:     svc,
		state:   exportStateLoading,
		input:   &exportForm{format: export.FormatZIP, path: dir},
		spinner: s,
	}
}

func (m ExportModel) Title() string { return "Export Statement" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return loadAccountsCmd(m.svc)
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		if m.state == exportStateStatement {
			return m.accountStep(nil)
		}

		if m.state != exportStateExporting {
			return m, Back
		}
	}

	switch msg := msg.(type) {
	case accountsMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}

		return m.accountStep(msg.accounts)

	case statementsMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}

		if len(msg.statements) == 0 {
			return m.fail(fmt.Errorf("no closed statements for this account"))
		}

		m.form = m.buildStatementForm(msg.statements)
		m.state = exportStateStatement

		return m, m.form.Init()

	case exportResultMsg:
		m.state = exportStateResult
		m.err = msg.err
		m.written = msg.path
		m.summary = msg.summary

		return m, nil
	}

	switch m.state {
	case exportStateAccount, exportStateStatement:
		return m.updateForm(msg)
	case exportStateExporting, exportStateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

// accountStep shows the account select. A nil slice reuses the last list.
func (m ExportModel) accountStep(accounts []*account.Account) (tea.Model, tea.Cmd) {
	if accounts == nil {
		m.state = exportStateLoading
		return m, loadAccountsCmd(m.svc)
	}

	m.form = huh.NewForm(huh.NewGroup(fuelAccountSelect(accounts, &m.input.accountID))).
		WithWidth(60).WithShowHelp(false)
	m.state = exportStateAccount

	return m, m.form.Init()
}

func (m ExportModel) buildStatementForm(statements []*statement.Statement) *huh.Form {
	opts := make([]huh.Option[uuid.UUID], 0, len(statements))
	for _, st := range statements {
		label := fmt.Sprintf("%s to %s  closing %s", FormatDate(st.PeriodStart), FormatDate(st.PeriodEnd), FormatMoney(st.ClosingBalance))
		opts = append(opts, huh.NewOption(label, st.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().
				Key("statement").
				Title("Statement").
				Options(opts...).
				Value(&m.input.statementID),

			huh.NewSelect[export.Format]().
				Key("format").
				Title("Format").
				Options(
					huh.NewOption("ZIP bundle (xlsx, pdf, summary)", export.FormatZIP),
					huh.NewOption("Excel workbook", export.FormatXLSX),
					huh.NewOption("PDF", export.FormatPDF),
				).
				Value(&m.input.format),

			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Value(&m.input.path),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == exportStateAccount {
		m.state = exportStateLoading
		return m, tea.Batch(m.spinner.Tick, m.loadStatementsCmd(m.input.accountID))
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(*m.input))
}

func (m ExportModel) fail(err error) (tea.Model, tea.Cmd) {
	m.state = exportStateResult
	m.err = err

	return m, nil
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateLoading:
		return lipgloss.NewStyle().Padding(1).Render(m.spinner.View() + " Loading...")

	case exportStateAccount, exportStateStatement:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Rendering statement...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			errorStyle.Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Written to "+m.written,
			"",
			m.summary,
		),
	)
}

// Messages

type accountsMsg struct {
	accounts []*account.Account
	err      error
}

type statementsMsg struct {
	statements []*statement.Statement
	err        error
}

type exportResultMsg struct {
	path    string
	summary string
	err     error
}

func loadAccountsCmd(svc Services) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := svc.Accounts.List(ctx)

		return accountsMsg{accounts: accounts, err: err}
	}
}

func (m ExportModel) loadStatementsCmd(accountID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		statements, err := m.svc.Statements.ListByAccount(ctx, accountID, statementsToShow)

		return statementsMsg{statements: statements, err: err}
	}
}

func (m ExportModel) runExportCmd(in exportForm) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		path, err := m.svc.Export.WriteFile(ctx, in.statementID, in.format, in.path)
		if err != nil {
			return exportResultMsg{err: err}
		}

		summary, err := m.svc.Export.Describe(ctx, in.statementID)
		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{path: path, summary: summary}
	}
}
