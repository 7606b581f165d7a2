package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
)

type slipsState int

const (
	slipsStateBrowse slipsState = iota
	slipsStateEdit
	slipsStateDelete
)

var (
	slipStatusLabels = []string{"All", "Draft", "Finalized"}
	slipDateLabels   = []string{"All Time", "This Month", "Last Month"}
)

// slipForm holds the form bindings. It lives behind a pointer so the
// values huh writes survive the model being copied between updates.
type slipForm struct {
	station   string
	quantity  string
	unitPrice string
	confirm   bool
}

type SlipsModel struct {
	CommonModel
	svc Services

	state slipsState
	table table.Model
	slips []*fuelslip.FuelSlip
	form  *huh.Form
	input *slipForm

	statusFilterIdx int
	dateFilterIdx   int

	filter  fuelslip.ListFilter
	loading bool
	err     error
	status  string
}

func NewSlipsModel(svc Services) SlipsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Slip", Width: 12},
		{Title: "Station", Width: 24},
		{Title: "Quantity", Width: 10},
		{Title: "Unit Price", Width: 10},
		{Title: "Total", Width: 10},
		{Title: "Status", Width: 10},
		{Title: "Verified By", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return SlipsModel{
		svc:   svc,
		table: t,
		input: &slipForm{},
	}
}

func (m SlipsModel) Title() string { return "Fuel Slips" }

func (m SlipsModel) ShortHelp() string {
	if m.state != slipsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit | f: finalize | v: verify | x: delete | s: status filter | d: date filter | r: refresh"
}

func (m SlipsModel) Init() tea.Cmd {
	return m.loadSlipsCmd()
}

func (m SlipsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSlipsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.slips = msg.slips
		m.refreshTable()

		return m, nil

	case slipActionMsg:
		m.status = msg.done
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
		}

		m.state = slipsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadSlipsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == slipsStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m SlipsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadSlipsCmd()
		case "e":
			return m.enterEdit()
		case "x":
			return m.enterDelete()
		case "f":
			return m, m.finalizeCmd()
		case "v":
			return m, m.verifyCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(slipStatusLabels)
			m.applyFilter(time.Now())

			return m, m.loadSlipsCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(slipDateLabels)
			m.applyFilter(time.Now())

			return m, m.loadSlipsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SlipsModel) selected() *fuelslip.FuelSlip {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.slips) {
		return nil
	}

	return m.slips[idx]
}

func (m SlipsModel) enterEdit() (tea.Model, tea.Cmd) {
	slip := m.selected()
	if slip == nil {
		return m, nil
	}

	if slip.Finalized() {
		m.status = errorStyle.Render("Slip is finalized and can no longer be edited.")
		return m, nil
	}

	m.input = &slipForm{
		station:   slip.StationName,
		quantity:  slip.Quantity.String(),
		unitPrice: slip.UnitPrice.String(),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("station").
				Title("Station").
				Value(&m.input.station).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("station cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("quantity").
				Title("Quantity").
				Value(&m.input.quantity).
				Validate(parseDecimal),

			huh.NewInput().
				Key("unit_price").
				Title("Unit Price").
				Value(&m.input.unitPrice).
				Validate(parseDecimal),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = slipsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m SlipsModel) enterDelete() (tea.Model, tea.Cmd) {
	slip := m.selected()
	if slip == nil {
		return m, nil
	}

	m.input = &slipForm{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete slip %s?", slip.SlipNumber)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.input.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = slipsStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m SlipsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = slipsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == slipsStateDelete {
		if !m.input.confirm {
			m.state = slipsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}

		return m, m.deleteCmd()
	}

	return m, m.saveCmd()
}

func (m SlipsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading slips...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] Date: %s",
		activeStyle(slipStatusLabels[m.statusFilterIdx]),
		activeStyle(slipDateLabels[m.dateFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != slipsStateBrowse && m.form != nil {
		title := "Edit Slip"
		if m.state == slipsStateDelete {
			title = "Delete Slip"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *SlipsModel) applyFilter(now time.Time) {
	switch m.statusFilterIdx {
	case 1:
		m.filter.State = new(fuelslip.StateDraft)
	case 2:
		m.filter.State = new(fuelslip.StateFinalized)
	default:
		m.filter.State = nil
	}

	var p Period

	switch m.dateFilterIdx {
	case 1:
		p = MonthOf(now)
	case 2:
		p = MonthOf(now).Previous()
	default:
		m.filter.StartDate = nil
		m.filter.EndDate = nil

		return
	}

	start, end := p.Bounds()
	m.filter.StartDate = &start
	m.filter.EndDate = &end
}

func (m *SlipsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.slips))

	for _, s := range m.slips {
		verifiedBy := ""
		if s.Verification != nil {
			verifiedBy = s.Verification.By
		}

		rows = append(rows, table.Row{
			FormatDate(s.TransactionDate),
			s.SlipNumber,
			s.StationName,
			s.Quantity.String(),
			s.UnitPrice.String(),
			FormatMoney(s.Total),
			string(s.State),
			verifiedBy,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadSlipsMsg struct {
	slips []*fuelslip.FuelSlip
	err   error
}

type slipActionMsg struct {
	done string
	err  error
}

func (m SlipsModel) loadSlipsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		slips, err := m.svc.Slips.List(ctx, filter)

		return loadSlipsMsg{slips: slips, err: err}
	}
}

func (m SlipsModel) finalizeCmd() tea.Cmd {
	slip := m.selected()
	if slip == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.svc.Slips.Finalize(ctx, slip.ID, m.svc.Operator)

		return slipActionMsg{done: fmt.Sprintf("Finalized %s.", slip.SlipNumber), err: err}
	}
}

func (m SlipsModel) verifyCmd() tea.Cmd {
	slip := m.selected()
	if slip == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.svc.Slips.Verify(ctx, slip.ID, m.svc.Operator)

		return slipActionMsg{done: fmt.Sprintf("Verified %s.", slip.SlipNumber), err: err}
	}
}

func (m SlipsModel) deleteCmd() tea.Cmd {
	slip := m.selected()
	if slip == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.svc.Slips.Delete(ctx, slip.ID)

		return slipActionMsg{done: fmt.Sprintf("Deleted %s.", slip.SlipNumber), err: err}
	}
}

func (m SlipsModel) saveCmd() tea.Cmd {
	slip := m.selected()
	if slip == nil {
		return nil
	}

	input := *m.input

	return func() tea.Msg {
		params, err := editParams(input)
		if err != nil {
			return slipActionMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		_, err = m.svc.Slips.Update(ctx, slip.ID, params, m.svc.Operator)

		return slipActionMsg{done: fmt.Sprintf("Saved %s.", slip.SlipNumber), err: err}
	}
}

func editParams(in slipForm) (fuelslip.UpdateParams, error) {
	qty, err := decimal.NewFromString(strings.TrimSpace(in.quantity))
	if err != nil {
		return fuelslip.UpdateParams{}, fmt.Errorf("quantity: %w", err)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.unitPrice))
	if err != nil {
		return fuelslip.UpdateParams{}, fmt.Errorf("unit price: %w", err)
	}

	return fuelslip.UpdateParams{
		StationName: new(strings.TrimSpace(in.station)),
		Quantity:    &qty,
		UnitPrice:   &price,
	}, nil
}
