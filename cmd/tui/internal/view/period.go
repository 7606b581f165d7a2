package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// closedMonths is how many elapsed months the picker offers.
const closedMonths = 6

var errPeriodOrder = errors.New("period start is after period end")

// Period is an inclusive range of calendar days in UTC, the bounds a month
// close and the slip date filter work on.
type Period struct {
	Start time.Time
	End   time.Time
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, -1)}
}

// Previous returns the calendar month before the one p starts in.
func (p Period) Previous() Period {
	return MonthOf(p.Start.AddDate(0, 0, -1))
}

func (p Period) wholeMonth() bool {
	m := MonthOf(p.Start)
	return p.Start.Equal(m.Start) && p.End.Equal(m.End)
}

// Label names a whole month by name and anything else by its dates.
func (p Period) Label() string {
	if p.wholeMonth() {
		return p.Start.Format("January 2006")
	}

	return FormatDate(p.Start) + " to " + FormatDate(p.End)
}

func (p Period) Validate() error {
	if p.Start.After(p.End) {
		return fmt.Errorf("%w: %s > %s", errPeriodOrder, FormatDate(p.Start), FormatDate(p.End))
	}

	return nil
}

// Bounds widens the period to whole days for timestamp filters.
func (p Period) Bounds() (time.Time, time.Time) {
	return time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, time.UTC),
		time.Date(p.End.Year(), p.End.Month(), p.End.Day(), 23, 59, 59, 0, time.UTC)
}

// ClosedMonths lists the n most recent fully elapsed months, newest first.
func ClosedMonths(now time.Time, n int) []Period {
	out := make([]Period, 0, n)

	p := MonthOf(now).Previous()
	for range n {
		out = append(out, p)
		p = p.Previous()
	}

	return out
}

// ParsePeriod reads a custom period typed as two YYYY-MM-DD dates.
func ParsePeriod(start, end string) (Period, error) {
	s, err := time.Parse(time.DateOnly, strings.TrimSpace(start))
	if err != nil {
		return Period{}, errors.New("invalid start date (YYYY-MM-DD)")
	}

	e, err := time.Parse(time.DateOnly, strings.TrimSpace(end))
	if err != nil {
		return Period{}, errors.New("invalid end date (YYYY-MM-DD)")
	}

	p := Period{Start: s, End: e}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}

	return p, nil
}

// PeriodSelectedMsg is emitted once the user has chosen a valid period.
type PeriodSelectedMsg struct {
	Period Period
}

type pickerState int

const (
	pickerStateSelect pickerState = iota
	pickerStateCustom
)

// PeriodPicker offers the recently closed months plus a custom period.
// The cursor sits on the custom entry when it equals len(months).
type PeriodPicker struct {
	state  pickerState
	months []Period
	cursor int

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewPeriodPicker(now time.Time) PeriodPicker {
	si := textinput.New()
	si.Placeholder = "YYYY-MM-DD"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "Period Start: "

	ei := textinput.New()
	ei.Placeholder = "YYYY-MM-DD"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "Period End:   "

	return PeriodPicker{
		state:      pickerStateSelect,
		months:     ClosedMonths(now, closedMonths),
		startInput: si,
		endInput:   ei,
	}
}

func (m PeriodPicker) Init() tea.Cmd {
	return nil
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case pickerStateSelect:
			return m.updateSelect(keyMsg)
		case pickerStateCustom:
			if next, cmd, handled := m.updateCustom(keyMsg); handled {
				return next, cmd
			}
		}
	}

	if m.state == pickerStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m PeriodPicker) updateSelect(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.months) {
			m.cursor++
		}
	case tea.KeyEnter:
		if m.cursor == len(m.months) {
			m.state = pickerStateCustom
			m.focusIndex = 0
			m.startInput.Focus()

			return m, textinput.Blink
		}

		return m, selected(m.months[m.cursor])
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink, true

	case "enter":
		p, err := ParsePeriod(m.startInput.Value(), m.endInput.Value())
		if err != nil {
			m.err = err
			return m, nil, true
		}

		m.err = nil

		return m, selected(p), true

	case "esc":
		m.state = pickerStateSelect
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

func (m PeriodPicker) updateInputs(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	var cmds []tea.Cmd
	var c tea.Cmd

	m.startInput, c = m.startInput.Update(msg)
	cmds = append(cmds, c)
	m.endInput, c = m.endInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func selected(p Period) tea.Cmd {
	return func() tea.Msg {
		return PeriodSelectedMsg{Period: p}
	}
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == pickerStateCustom {
		return fmt.Sprintf(
			"Enter Custom Period:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	var b strings.Builder
	b.WriteString("Select Period to Close:\n\n")

	for i, p := range m.months {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		line := fmt.Sprintf("%s %s", cursor, p.Label())
		if i == 0 {
			line += hint.Render("  last month")
		}

		b.WriteString(line + "\n")
	}

	cursor := " "
	if m.cursor == len(m.months) {
		cursor = ">"
	}

	fmt.Fprintf(&b, "%s Custom Period\n", cursor)
	b.WriteString("\n(Enter to select, Esc to back)")

	return b.String() + errStr
}

// IsSelecting reports whether the picker is on the month list rather than
// the custom entry.
func (m PeriodPicker) IsSelecting() bool {
	return m.state == pickerStateSelect
}

// Reset returns the picker to the most recent closed month.
func (m *PeriodPicker) Reset() {
	m.state = pickerStateSelect
	m.cursor = 0
	m.err = nil
	m.startInput.SetValue("")
	m.endInput.SetValue("")
}
