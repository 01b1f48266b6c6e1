package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/beeja-io/beeja-console/internal/api"
	"github.com/beeja-io/beeja-console/internal/timesheet"
)

type tsRowKind int

const (
	rowWeek tsRowKind = iota
	rowDay
	rowLog
)

// tsRow is one line of the flattened week → day → log hierarchy.
type tsRow struct {
	kind tsRowKind
	week timesheet.WeekLog
	day  timesheet.WeekDay
	log  timesheet.DailyLog
}

type draftStage int

const (
	stageNone draftStage = iota
	stageProject
	stageContracts // waiting for the project's contracts to arrive
	stageDetails
)

type timesheetModel struct {
	client *api.Client
	width  int
	height int

	month time.Time // first day of the displayed month, UTC
	now   func() time.Time

	projects       []timesheet.Project
	projectsLoaded bool
	logs           []timesheet.DailyLog
	weeks          []timesheet.WeekLog

	// Expand/collapse state, independent maps keyed by composite week key
	// and by date.
	expandedWeeks map[string]bool
	expandedDays  map[string]bool
	rows          []tsRow
	cursor        int

	menu    actionMenu
	cache   *timesheet.ContractCache
	loading bool
	spin    spinner.Model

	draft      *timesheet.Draft
	editCursor int

	stage   draftStage
	form    *huh.Form
	formRow int

	fProject     *string
	fContract    *string
	fHours       *string
	fDescription *string
}

func newTimesheetModel(client *api.Client) timesheetModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	now := time.Now().UTC()
	var project, contract, hours, description string
	return timesheetModel{
		client:        client,
		month:         time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		now:           func() time.Time { return time.Now().UTC() },
		expandedWeeks: make(map[string]bool),
		expandedDays:  make(map[string]bool),
		menu:          newActionMenu(true, true),
		cache:         timesheet.NewContractCache(),
		spin:          sp,
		fProject:      &project,
		fContract:     &contract,
		fHours:        &hours,
		fDescription:  &description,
	}
}

func (m *timesheetModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m timesheetModel) refresh() tea.Cmd {
	var cmds []tea.Cmd
	if !m.projectsLoaded {
		client := m.client
		cmds = append(cmds, func() tea.Msg {
			projects, err := client.ListProjects(context.Background())
			return projectsDataMsg{projects: projects, err: err}
		})
	}
	cmds = append(cmds, m.fetchLogs())
	return tea.Batch(cmds...)
}

func (m timesheetModel) fetchLogs() tea.Cmd {
	from, to := timesheet.MonthRange(m.month)
	client := m.client
	return func() tea.Msg {
		logs, err := client.ListLogs(context.Background(),
			from.Format(timesheet.DateLayout), to.Format(timesheet.DateLayout))
		return logsDataMsg{logs: logs, err: err}
	}
}

func (m timesheetModel) fetchContracts(projectID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		contracts, err := client.ProjectContracts(context.Background(), projectID)
		return contractsDataMsg{projectID: projectID, contracts: contracts, err: err}
	}
}

func (m timesheetModel) update(msg tea.Msg) (timesheetModel, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsDataMsg:
		if msg.err != nil {
			return m, statusCmd("Could not load projects: "+msg.err.Error(), true)
		}
		m.projects = msg.projects
		m.projectsLoaded = true
		return m, nil

	case logsDataMsg:
		if msg.err != nil {
			return m, statusCmd("Could not load timesheet logs: "+msg.err.Error(), true)
		}
		m.logs = msg.logs
		m.recompute()
		return m, nil

	case contractsDataMsg:
		return m.applyContracts(msg)

	case logsSavedMsg:
		m.loading = false
		if msg.err != nil {
			return m, statusCmd("Could not save logs: "+msg.err.Error(), true)
		}
		kept := m.logs[:0]
		for _, l := range m.logs {
			if l.LogDate != msg.date {
				kept = append(kept, l)
			}
		}
		m.logs = append(kept, msg.logs...)
		m.recompute()
		return m, tea.Batch(m.discardDraft(), statusCmd("Logs saved", false))

	case logUpdatedMsg:
		m.loading = false
		if msg.err != nil {
			return m, statusCmd("Could not update log: "+msg.err.Error(), true)
		}
		for i := range m.logs {
			if m.logs[i].ID == msg.log.ID {
				m.logs[i] = *msg.log
			}
		}
		m.recompute()
		return m, tea.Batch(m.discardDraft(), statusCmd("Log updated", false))

	case logDeletedMsg:
		m.loading = false
		if msg.err != nil {
			// Surfaced rather than silently swallowed.
			return m, statusCmd("Could not delete log: "+msg.err.Error(), true)
		}
		kept := m.logs[:0]
		for _, l := range m.logs {
			if l.ID != msg.id {
				kept = append(kept, l)
			}
		}
		m.logs = kept
		m.recompute()
		return m, statusCmd("Log deleted", false)

	case editSessionRevokedMsg:
		if m.draft != nil && msg.session == m.draft.SessionID {
			m.draft = nil
			m.stage = stageNone
			m.form = nil
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.stage != stageNone {
			return m.updateRowForm(msg)
		}
		if m.draft != nil {
			return m.updateEditor(msg)
		}
		return m.updateList(msg)
	}

	// Non-key messages (cursor blink and the like) still feed an open form.
	if m.stage == stageProject || m.stage == stageDetails {
		return m.updateRowForm(msg)
	}
	return m, nil
}

func (m *timesheetModel) recompute() {
	m.weeks = timesheet.MonthWeeks(m.month, m.logs)
	m.rebuildRows()
}

func (m *timesheetModel) rebuildRows() {
	now := m.now()
	var rows []tsRow
	for _, w := range m.weeks {
		rows = append(rows, tsRow{kind: rowWeek, week: w})
		if !m.expandedWeeks[w.Key] {
			continue
		}
		days := timesheet.GenerateWeekDays(w.StartDate, m.month.Month(), m.month.Year(), now)
		for _, day := range days {
			rows = append(rows, tsRow{kind: rowDay, week: w, day: day})
			if !m.expandedDays[day.Date] {
				continue
			}
			for _, l := range w.Logs {
				if l.LogDate == day.Date {
					rows = append(rows, tsRow{kind: rowLog, week: w, day: day, log: l})
				}
			}
		}
	}
	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
}

func (m timesheetModel) updateList(msg tea.KeyMsg) (timesheetModel, tea.Cmd) {
	if m.menu.IsOpen() {
		switch {
		case key.Matches(msg, keys.Up):
			m.menu.MoveUp()
			return m, nil
		case key.Matches(msg, keys.Down):
			m.menu.MoveDown()
			return m, nil
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Confirm) && m.menu.Confirming():
			switch m.menu.Select() {
			case menuActionEdit:
				return m.openEditDraft()
			case menuActionDelete:
				return m.deleteSelectedLog()
			}
			return m, nil
		case key.Matches(msg, keys.Back):
			m.menu.Dismiss()
			return m, nil
		default:
			m.menu.Dismiss()
		}
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Left):
		m.month = m.month.AddDate(0, -1, 0)
		m.recompute()
		return m, m.fetchLogs()
	case key.Matches(msg, keys.Right):
		m.month = m.month.AddDate(0, 1, 0)
		m.recompute()
		return m, m.fetchLogs()
	case key.Matches(msg, keys.Enter):
		return m.toggleSelected()
	case key.Matches(msg, keys.New):
		return m.openAddDraft()
	case key.Matches(msg, keys.Edit):
		if row, ok := m.selectedRow(); ok && row.kind == rowLog {
			return m.openEditDraft()
		}
	case key.Matches(msg, keys.Delete):
		if row, ok := m.selectedRow(); ok && row.kind == rowLog {
			m.menu.RequestDelete()
		}
	}
	return m, nil
}

func (m timesheetModel) selectedRow() (tsRow, bool) {
	if m.cursor >= len(m.rows) {
		return tsRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m timesheetModel) toggleSelected() (timesheetModel, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	switch row.kind {
	case rowWeek:
		m.expandedWeeks[row.week.Key] = !m.expandedWeeks[row.week.Key]
		m.rebuildRows()
	case rowDay:
		m.expandedDays[row.day.Date] = !m.expandedDays[row.day.Date]
		m.rebuildRows()
	case rowLog:
		m.menu.Toggle()
	}
	return m, nil
}

func (m timesheetModel) openAddDraft() (timesheetModel, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok || (row.kind != rowDay && row.kind != rowLog) {
		return m, nil
	}
	if !row.day.Interactive() {
		return m, statusCmd("No entries can be added for this day", true)
	}
	m.draft = timesheet.NewDraft(row.day.Date)
	m.editCursor = 0
	session := m.draft.SessionID
	return m, func() tea.Msg { return claimEditSessionMsg{session: session} }
}

func (m timesheetModel) openEditDraft() (timesheetModel, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok || row.kind != rowLog {
		return m, nil
	}
	m.draft = timesheet.DraftFromLog(row.log)
	m.editCursor = 0
	session := m.draft.SessionID

	cmds := []tea.Cmd{func() tea.Msg { return claimEditSessionMsg{session: session} }}
	// Warm the cache so the contract title renders and the details form has
	// options.
	if m.cache.Need(row.log.ProjectID) {
		cmds = append(cmds, m.fetchContracts(row.log.ProjectID))
	}
	return m, tea.Batch(cmds...)
}

func (m timesheetModel) deleteSelectedLog() (timesheetModel, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok || row.kind != rowLog || m.loading {
		return m, nil
	}
	m.loading = true
	id := row.log.ID
	client := m.client
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		err := client.DeleteLog(context.Background(), id)
		return logDeletedMsg{id: id, err: err}
	})
}

// --- Draft editor ---

func (m timesheetModel) updateEditor(msg tea.KeyMsg) (timesheetModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.editCursor > 0 {
			m.editCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.editCursor < len(m.draft.Rows)-1 {
			m.editCursor++
		}
	case key.Matches(msg, keys.New):
		if !m.draft.Editing() {
			m.draft.AddRow()
			m.editCursor = len(m.draft.Rows) - 1
		}
	case key.Matches(msg, keys.Delete):
		m.draft.RemoveRow(m.editCursor)
		if m.editCursor >= len(m.draft.Rows) {
			m.editCursor = len(m.draft.Rows) - 1
		}
	case key.Matches(msg, keys.Enter):
		return m.startRowForm(m.editCursor)
	case key.Matches(msg, keys.Save):
		return m.submitDraft()
	case key.Matches(msg, keys.Back):
		// Cancel discards the draft without any server call.
		return m, m.discardDraft()
	}
	return m, nil
}

func (m *timesheetModel) discardDraft() tea.Cmd {
	if m.draft == nil {
		return nil
	}
	session := m.draft.SessionID
	m.draft = nil
	m.stage = stageNone
	m.form = nil
	return func() tea.Msg { return releaseEditSessionMsg{session: session} }
}

func (m timesheetModel) startRowForm(i int) (timesheetModel, tea.Cmd) {
	if i < 0 || i >= len(m.draft.Rows) {
		return m, nil
	}
	if len(m.projects) == 0 {
		return m, statusCmd("No projects available", true)
	}

	*m.fProject = m.draft.Rows[i].ProjectID
	if *m.fProject == "" {
		*m.fProject = m.projects[0].ID
	}
	m.formRow = i

	options := make([]huh.Option[string], 0, len(m.projects))
	for _, p := range m.projects {
		options = append(options, huh.NewOption(p.Name, p.ID))
	}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Project").Options(options...).Value(m.fProject),
	)).WithShowHelp(true)
	m.stage = stageProject
	return m, m.form.Init()
}

func (m timesheetModel) updateRowForm(msg tea.Msg) (timesheetModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.stage = stageNone
			m.form = nil
			return m, nil
		}
	}
	if m.stage == stageContracts || m.form == nil {
		// Waiting for the contract fetch; nothing to route.
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.stage {
	case stageProject:
		// Picking a project clears the row's contract; the contract step
		// cannot start until the project's contracts are known.
		m.draft.SetProject(m.formRow, *m.fProject)
		m.form = nil
		if m.cache.Need(*m.fProject) {
			m.stage = stageContracts
			return m, m.fetchContracts(*m.fProject)
		}
		return m.showDetailsForm()

	case stageDetails:
		row := &m.draft.Rows[m.formRow]
		row.ContractID = *m.fContract
		row.Hours = *m.fHours
		row.Description = *m.fDescription
		m.stage = stageNone
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m timesheetModel) applyContracts(msg contractsDataMsg) (timesheetModel, tea.Cmd) {
	if msg.err != nil {
		// Degrade to an empty option list; the project stays eligible for a
		// retry on the next selection.
		m.cache.Fail(msg.projectID)
		if m.stage == stageContracts && msg.projectID == *m.fProject {
			m.stage = stageNone
		}
		return m, statusCmd("Could not load contracts: "+msg.err.Error(), true)
	}

	m.cache.Add(msg.projectID, msg.contracts)
	if m.stage == stageContracts && msg.projectID == *m.fProject {
		return m.showDetailsForm()
	}
	return m, nil
}

func (m timesheetModel) showDetailsForm() (timesheetModel, tea.Cmd) {
	contracts, _ := m.cache.Cached(*m.fProject)
	if len(contracts) == 0 {
		m.stage = stageNone
		m.form = nil
		return m, statusCmd("No contracts available for this project", true)
	}

	row := m.draft.Rows[m.formRow]
	*m.fContract = row.ContractID
	if *m.fContract == "" {
		*m.fContract = contracts[0].ID
	}
	*m.fHours = row.Hours
	if *m.fHours == "" {
		*m.fHours = "8"
	}
	*m.fDescription = row.Description

	contractOptions := make([]huh.Option[string], 0, len(contracts))
	for _, c := range contracts {
		contractOptions = append(contractOptions, huh.NewOption(c.Title, c.ID))
	}
	hourOptions := make([]huh.Option[string], 0, 16)
	for _, h := range timesheet.HourOptions() {
		v := strconv.FormatFloat(h, 'f', -1, 64)
		hourOptions = append(hourOptions, huh.NewOption(formatHours(h), v))
	}

	m.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Contract").Options(contractOptions...).Value(m.fContract),
		huh.NewSelect[string]().Title("Hours").Options(hourOptions...).Value(m.fHours),
		huh.NewInput().Title("Description").Value(m.fDescription),
	)).WithShowHelp(true)
	m.stage = stageDetails
	return m, m.form.Init()
}

func (m timesheetModel) submitDraft() (timesheetModel, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	entries, err := m.draft.Entries()
	if err != nil {
		return m, statusCmd(err.Error(), true)
	}

	m.loading = true
	client := m.client
	if m.draft.Editing() {
		entry := entries[0]
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			updated, err := client.UpdateLog(context.Background(), entry.ID, entry)
			return logUpdatedMsg{log: updated, err: err}
		})
	}

	date := m.draft.Date
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		saved, err := client.SaveLogs(context.Background(), date, entries)
		return logsSavedMsg{date: date, logs: saved, err: err}
	})
}

// --- Rendering ---

func (m timesheetModel) projectName(id string) string {
	for _, p := range m.projects {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

func (m timesheetModel) view() string {
	w := m.width - 4

	if m.draft != nil {
		return m.viewEditor(w)
	}

	title := titleStyle.Render("Timesheet — " + m.month.Format("January 2006"))
	if m.loading {
		title += "  " + m.spin.View()
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, row := range m.rows {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		switch row.kind {
		case rowWeek:
			marker := "▸"
			if m.expandedWeeks[row.week.Key] {
				marker = "▾"
			}
			rows = append(rows, style.Render(fmt.Sprintf("%s%s Week %d · %s – %s",
				cursor, marker,
				row.week.WeekNo,
				row.week.StartDate.Format("Jan 02"),
				row.week.EndDate.Format("Jan 02"),
			))+"  "+highlightStyle.Render(formatHours(row.week.TotalHours)))

		case rowDay:
			dayStyle := style
			note := ""
			if !row.day.Interactive() {
				dayStyle = disabledItemStyle
				if row.day.IsFuture {
					note = "  (future)"
				} else {
					note = "  (other month)"
				}
			}
			date, _ := time.Parse(timesheet.DateLayout, row.day.Date)
			total := timesheet.DayTotal(row.week.Logs, row.day.Date)
			rows = append(rows, dayStyle.Render(fmt.Sprintf("%s   %s  %s%s",
				cursor, date.Format("Mon Jan 02"), formatHours(total), note)))

		case rowLog:
			rows = append(rows, style.Render(fmt.Sprintf("%s     %s · %s · %s  %s",
				cursor,
				m.projectName(row.log.ProjectID),
				m.cache.Title(row.log.ProjectID, row.log.ContractID),
				formatHours(row.log.LoggedHours),
				mutedStyle.Render(row.log.Description))))
			if i == m.cursor && m.menu.IsOpen() {
				rows = append(rows, m.menu.view())
			}
		}
	}

	if len(m.rows) == 0 {
		rows = append(rows, mutedStyle.Render("No weeks in this month."))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: expand/actions  n: new entry  ←/→: month  x: export"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m timesheetModel) viewEditor(w int) string {
	mode := "New Log Entries"
	if m.draft.Editing() {
		mode = "Edit Log Entry"
	}
	title := titleStyle.Render(fmt.Sprintf("%s — %s", mode, m.draft.Date))
	if m.loading {
		title += "  " + m.spin.View()
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, row := range m.draft.Rows {
		cursor := "  "
		style := normalItemStyle
		if i == m.editCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		project := m.projectName(row.ProjectID)
		if row.ProjectID == "" {
			project = mutedStyle.Render("(choose project)")
		}
		contract := m.cache.Title(row.ProjectID, row.ContractID)
		if row.ContractID == "" {
			contract = mutedStyle.Render("(choose contract)")
		}
		hours := row.Hours
		if hours == "" {
			hours = "-"
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s · %s · %sh  %s",
			cursor, project, contract, hours, row.Description)))
	}

	if m.stage != stageNone && m.form != nil {
		rows = append(rows, "")
		rows = append(rows, m.form.View())
	} else if m.stage == stageContracts {
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("Loading contracts…"))
	}

	rows = append(rows, "")
	hint := "  enter: edit row  n: add row  d: remove row  s: save  esc: cancel"
	if m.draft.Editing() {
		hint = "  enter: edit row  s: save  esc: cancel"
	}
	rows = append(rows, mutedStyle.Render(hint))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
