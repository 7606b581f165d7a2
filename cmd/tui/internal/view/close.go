package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/closing"
)

const closeTimeout = time.Minute

type closeState int

const (
	closeStateLoading closeState = iota
	closeStateAccount
	closeStatePeriod
	closeStateAmounts
	closeStateClosing
	closeStateResult
)

type closeForm struct {
	accountID uuid.UUID
	opening   string
	payments  string
	confirm   bool
}

type CloseModel struct {
	CommonModel
	svc Services

	state    closeState
	accounts []*account.Account
	picker   PeriodPicker
	form     *huh.Form
	input    *closeForm
	spinner  spinner.Model

	period Period

	result *closing.Result
	err    error
}

func NewCloseModel(svc Services) CloseModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return CloseModel{
		svc:     svc,
		state:   closeStateLoading,
		picker:  NewPeriodPicker(time.Now()),
		input:   &closeForm{payments: "0.00"},
		spinner: s,
	}
}

func (m CloseModel) Title() string { return "Month Close" }

func (m CloseModel) ShortHelp() string {
	switch m.state {
	case closeStateResult:
		return "Esc: back to menu"
	case closeStateClosing:
		return "Closing..."
	}

	return "Esc: back | Enter: confirm"
}

func (m CloseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadAccountsCmd(m.svc))
}

func (m CloseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case accountsMsg:
		if msg.err != nil {
			m.state = closeStateResult
			m.err = msg.err

			return m, nil
		}

		m.accounts = msg.accounts
		m.form = huh.NewForm(huh.NewGroup(fuelAccountSelect(msg.accounts, &m.input.accountID))).
			WithWidth(60).WithShowHelp(false)
		m.state = closeStateAccount

		return m, m.form.Init()

	case PeriodSelectedMsg:
		m.period = msg.Period
		m.form = m.buildAmountsForm()
		m.state = closeStateAmounts

		return m, m.form.Init()

	case closeResultMsg:
		m.state = closeStateResult
		m.result = msg.result
		m.err = msg.err

		return m, nil
	}

	switch m.state {
	case closeStateAccount:
		return m.updateAccount(msg)
	case closeStatePeriod:
		return m.updatePeriod(msg)
	case closeStateAmounts:
		return m.updateAmounts(msg)
	case closeStateLoading, closeStateClosing:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case closeStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m CloseModel) updateAccount(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if acc := m.selectedAccount(); acc != nil {
		m.input.opening = FormatMoney(acc.Balance)
	}

	m.picker.Reset()
	m.state = closeStatePeriod

	return m, m.picker.Init()
}

func (m CloseModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
		return m, Back
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m CloseModel) updateAmounts(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.picker.Reset()
		m.state = closeStatePeriod

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.input.confirm {
		return m, Back
	}

	params, err := closeParams(*m.input, m.period, m.svc.Operator)
	if err != nil {
		m.state = closeStateResult
		m.err = err

		return m, nil
	}

	m.state = closeStateClosing

	return m, tea.Batch(m.spinner.Tick, m.closeCmd(params))
}

func (m CloseModel) selectedAccount() *account.Account {
	for _, a := range m.accounts {
		if a.ID == m.input.accountID {
			return a
		}
	}

	return nil
}

func (m CloseModel) buildAmountsForm() *huh.Form {
	name := ""
	if acc := m.selectedAccount(); acc != nil {
		name = acc.Name
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("opening").
				Title("Opening Balance").
				Value(&m.input.opening).
				Validate(parseDecimal),

			huh.NewInput().
				Key("payments").
				Title("Payments Received").
				Description("Total paid against the card for the period").
				Value(&m.input.payments).
				Validate(parseDecimal),

			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Close %s for %s?", name, m.period.Label())).
				Description("Every draft slip in the period will be finalized.").
				Affirmative("Close").
				Negative("Cancel").
				Value(&m.input.confirm),
		),
	).WithWidth(60).WithShowHelp(false)
}

func closeParams(in closeForm, p Period, operator string) (closing.CloseParams, error) {
	if err := p.Validate(); err != nil {
		return closing.CloseParams{}, err
	}

	opening, err := decimal.NewFromString(strings.TrimSpace(in.opening))
	if err != nil {
		return closing.CloseParams{}, fmt.Errorf("opening balance: %w", err)
	}

	payments, err := decimal.NewFromString(strings.TrimSpace(in.payments))
	if err != nil {
		return closing.CloseParams{}, fmt.Errorf("payments: %w", err)
	}

	return closing.CloseParams{
		AccountID:      in.accountID,
		PeriodStart:    p.Start,
		PeriodEnd:      p.End,
		OpeningBalance: opening,
		PaymentsTotal:  payments,
		PerformedBy:    operator,
	}, nil
}

func (m CloseModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case closeStateLoading:
		return style.Render(m.spinner.View() + " Loading accounts...")
	case closeStateAccount, closeStateAmounts:
		return style.Render(m.form.View())
	case closeStatePeriod:
		return style.Render(m.picker.View())
	case closeStateClosing:
		return style.Render(m.spinner.View() + " Closing month...")
	case closeStateResult:
		return style.Render(m.viewResult())
	}

	return ""
}

func (m CloseModel) viewResult() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	st := m.result.Statement
	rec := m.result.Reconciliation

	label := lipgloss.NewStyle().Width(20).Foreground(lipgloss.Color("240"))
	line := func(k, v string) string {
		return label.Render(k) + v
	}

	variance := FormatMoney(rec.Variance)
	if !rec.Variance.IsZero() {
		variance = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(variance)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		successStyle.Bold(true).Render("Month Closed"),
		"",
		line("Period", Period{Start: st.PeriodStart, End: st.PeriodEnd}.Label()),
		line("Opening", FormatMoney(st.OpeningBalance)),
		line("Debits", FormatMoney(st.TotalDebits)),
		line("Credits", FormatMoney(st.TotalCredits)),
		line("Closing", FormatMoney(st.ClosingBalance)),
		"",
		line("Slips", FormatMoney(rec.SlipsTotal)),
		line("Payments", FormatMoney(rec.PaymentsTotal)),
		line("Variance", variance),
		"",
		fmt.Sprintf("%d slips finalized, %d postings", len(m.result.Finalized), len(m.result.Transactions)),
	)
}

type closeResultMsg struct {
	result *closing.Result
	err    error
}

func (m CloseModel) closeCmd(params closing.CloseParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()

		res, err := m.svc.Closes.CloseFuelMonth(ctx, params)

		return closeResultMsg{result: res, err: err}
	}
}
