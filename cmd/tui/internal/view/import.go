package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	"github.com/MrJamesThe3rd/fleetfuel/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateProviderSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateReview
	importStateResult
)

type ImportModel struct {
	CommonModel
	svc Services

	state            importState
	filePicker       filepicker.Model
	selectedProvider importer.Provider
	providerOptions  []importer.Provider
	providerCursor   int

	path       string
	params     []fuelslip.CreateParams
	result     *fuelslip.ImportResult
	reviewList list.Model

	status string
	err    error
}

func NewImportModel(svc Services) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		svc:             svc,
		filePicker:      fp,
		providerOptions: []importer.Provider{importer.ProviderFuelCard},
	}
}

func (m ImportModel) Title() string { return "Import Fuel Card Statement" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateReview {
		return "p: provision unknown vehicles/drivers and retry | Enter: import clean rows | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateProviderSelect {
			return m.updateProviderSelect(msg)
		}

		if m.state == importStateReview {
			return m.updateReview(msg)
		}

	case importResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.result.Conflicts) == 0 && len(msg.result.Unresolved) == 0 {
			m.state = importStateResult
			m.status = fmt.Sprintf("Imported %d fuel slips.", len(msg.result.Imported))

			return m, nil
		}

		m.params = msg.params
		m.result = msg.result
		m.state = importStateReview
		m.reviewList = newReviewList(msg.result)

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d fuel slips.", msg.count)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateProviderSelect
		return m, nil
	case importStateResult, importStateReview:
		m.state = importStateProviderSelect
		m.err = nil
		m.status = ""
		m.params = nil
		m.result = nil

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateProviderSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.providerCursor > 0 {
			m.providerCursor--
		}
	case tea.KeyDown:
		if m.providerCursor < len(m.providerOptions)-1 {
			m.providerCursor++
		}
	case tea.KeyEnter:
		m.selectedProvider = m.providerOptions[m.providerCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "p":
		m.state = importStateImporting
		m.status = "Provisioning placeholders and retrying..."

		return m, m.provisionAndRetryCmd()
	case "enter":
		rows := Confirmable(m.params, m.result)
		if len(rows) == 0 {
			m.state = importStateResult
			m.status = "Nothing to import."

			return m, nil
		}

		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing %d rows...", len(rows))

		return m, m.confirmCmd(rows)
	}

	var cmd tea.Cmd
	m.reviewList, cmd = m.reviewList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateProviderSelect:
		return m.viewProviderSelect()
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateReview:
		return lipgloss.NewStyle().Padding(1).Render(m.reviewList.View() + "\n" + m.ShortHelp())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewProviderSelect() string {
	s := "Select Card Provider Format:\n\n"

	for i, provider := range m.providerOptions {
		cursor := " "
		if i == m.providerCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, string(provider))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Select file to import (%s):\n\n%s", m.selectedProvider, m.filePicker.View()),
	)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle.Render(m.status) + "\n\n(Esc to go back)")
}

// Confirmable returns the parsed rows that can be created without conflict:
// rows that resolve and whose slip number is not already taken. Of rows that
// repeat a slip number within the file, the first is kept.
func Confirmable(params []fuelslip.CreateParams, result *fuelslip.ImportResult) []fuelslip.CreateParams {
	skipRow := make(map[int]bool, len(result.Unresolved))
	for _, u := range result.Unresolved {
		skipRow[u.Row] = true
	}

	taken := make(map[string]bool, len(result.Conflicts))
	for _, c := range result.Conflicts {
		if c.Existing != nil {
			taken[c.Incoming.SlipNumber] = true
		}
	}

	seen := make(map[string]bool, len(params))

	var out []fuelslip.CreateParams

	for i, p := range params {
		if skipRow[i+1] {
			continue
		}

		if p.SlipNumber != "" {
			if taken[p.SlipNumber] || seen[p.SlipNumber] {
				continue
			}

			seen[p.SlipNumber] = true
		}

		out = append(out, p)
	}

	return out
}

// Messages

type importResultMsg struct {
	params []fuelslip.CreateParams
	result *fuelslip.ImportResult
	err    error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	provider := m.selectedProvider

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		params, err := m.svc.Import.Import(ctx, provider, f, m.svc.Operator)
		if err != nil {
			return importResultMsg{err: err}
		}

		result, err := m.svc.Slips.ImportBatch(ctx, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{params: params, result: result}
	}
}

// provisionAndRetryCmd creates placeholder records for every unknown vehicle
// and driver named by an unresolved row, then runs the import again.
func (m ImportModel) provisionAndRetryCmd() tea.Cmd {
	params := m.params
	unresolved := m.result.Unresolved

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		for _, u := range unresolved {
			if !errors.Is(u.Err, apperr.ErrNotFound) {
				continue
			}

			var err error

			switch apperr.CodeOf(u.Err) {
			case "VEHICLE_NOT_FOUND":
				_, err = m.svc.Fleet.ProvisionVehicle(ctx, u.Incoming.Vehicle.Key, m.svc.Operator)
			case "DRIVER_NOT_FOUND":
				_, err = m.svc.Fleet.ProvisionDriver(ctx, u.Incoming.Driver.Key, m.svc.Operator)
			}

			if err != nil {
				return importResultMsg{err: err}
			}
		}

		result, err := m.svc.Slips.ImportBatch(ctx, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{params: params, result: result}
	}
}

func (m ImportModel) confirmCmd(rows []fuelslip.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		slips, err := m.svc.Slips.CreateBatch(ctx, rows)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		return confirmResultMsg{count: len(slips)}
	}
}

// Review list

type reviewItem struct {
	title  string
	detail string
}

func (i reviewItem) Title() string       { return i.title }
func (i reviewItem) Description() string { return i.detail }
func (i reviewItem) FilterValue() string { return i.title }

func newReviewList(result *fuelslip.ImportResult) list.Model {
	items := make([]list.Item, 0, len(result.Conflicts)+len(result.Unresolved))

	for _, c := range result.Conflicts {
		detail := "repeated within the file"
		if c.Existing != nil {
			detail = fmt.Sprintf("already recorded on %s as %s", FormatDate(c.Existing.TransactionDate), c.Existing.State)
		}

		items = append(items, reviewItem{
			title:  fmt.Sprintf("Duplicate %s  %s  %s", c.Incoming.SlipNumber, FormatDate(c.Incoming.TransactionDate), c.Incoming.StationName),
			detail: detail,
		})
	}

	for _, u := range result.Unresolved {
		items = append(items, reviewItem{
			title:  fmt.Sprintf("Row %d  %s  %s", u.Row, FormatDate(u.Incoming.TransactionDate), u.Incoming.StationName),
			detail: apperr.CodeOf(u.Err),
		})
	}

	l := list.New(items, reviewDelegate{}, 100, 20)
	l.Title = fmt.Sprintf("%d rows need attention", len(items))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

type reviewDelegate struct{}

func (d reviewDelegate) Height() int                             { return 2 }
func (d reviewDelegate) Spacing() int                            { return 0 }
func (d reviewDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d reviewDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(reviewItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	fmt.Fprintf(w, "%s%s\n    %s\n", cursor, item.title, lipgloss.NewStyle().Faint(true).Render(item.detail))
}
