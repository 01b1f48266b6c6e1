package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/beeja-io/beeja-console/internal/api"
	"github.com/beeja-io/beeja-console/internal/config"
	"github.com/beeja-io/beeja-console/internal/export"
	"github.com/beeja-io/beeja-console/internal/store"
	"github.com/beeja-io/beeja-console/internal/timesheet"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	// The only editing session allowed to stay open. Claiming a new session
	// revokes the previous one in whichever view owns it.
	activeSession string

	inventory inventoryModel
	timesheet timesheetModel
	reports   reportsModel
	settings  settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(st *store.Store, client *api.Client, cfg config.Application) App {
	h := help.New()
	h.ShowAll = false

	start := viewInventory
	if v, err := st.GetSetting("start_view"); err == nil {
		switch v {
		case "timesheet":
			start = viewTimesheet
		case "reports":
			start = viewReports
		}
	}

	return App{
		store:      st,
		activeView: start,
		inventory: newInventoryModel(client,
			cfg.User.HasCapability(config.CapInventoryEdit),
			cfg.User.HasCapability(config.CapInventoryDelete)),
		timesheet: newTimesheetModel(client),
		reports:   newReportsModel(client),
		settings:  newSettingsModel(st),
		help:      h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.refreshCurrentView(), a.settings.refresh())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.inventory.setSize(a.width, contentHeight)
		a.timesheet.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case claimEditSessionMsg:
		return a.claimSession(msg.session)

	case releaseEditSessionMsg:
		if msg.session == a.activeSession {
			a.activeSession = ""
		}
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil

	// Data messages go to their owning model regardless of the active view;
	// fetches may outlive a tab switch.
	case projectsDataMsg:
		// Projects feed the timesheet editor, the report legend and the
		// settings form alike.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.timesheet, cmd = a.timesheet.update(msg)
		cmds = append(cmds, cmd)
		a.reports, cmd = a.reports.update(msg)
		cmds = append(cmds, cmd)
		a.settings, cmd = a.settings.update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case devicesDataMsg, deviceSavedMsg, deviceDeletedMsg:
		var cmd tea.Cmd
		a.inventory, cmd = a.inventory.update(msg)
		return a, cmd

	case logsDataMsg, contractsDataMsg, logsSavedMsg, logUpdatedMsg, logDeletedMsg:
		var cmd tea.Cmd
		a.timesheet, cmd = a.timesheet.update(msg)
		return a, cmd

	case reportsDataMsg:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child capturing input (form, draft editor, open menu) sees the
		// key first.
		if a.captureInput() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			if a.activeView == viewInventory || a.activeView == viewTimesheet || a.activeView == viewReports {
				a.exportPicking = true
				a.exportCursor = 0
			}
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewInventory)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewTimesheet)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewReports)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % 4)
		}
	}

	return a.updateActiveView(msg)
}

// claimSession makes the given session the only open editor. Any previous
// session is revoked in both editing views; the one owning it discards its
// editor without saving.
func (a App) claimSession(session string) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if a.activeSession != "" && a.activeSession != session {
		revoke := editSessionRevokedMsg{session: a.activeSession}
		var cmd tea.Cmd
		a.inventory, cmd = a.inventory.update(revoke)
		cmds = append(cmds, cmd)
		a.timesheet, cmd = a.timesheet.update(revoke)
		cmds = append(cmds, cmd)
	}
	a.activeSession = session
	return a, tea.Batch(cmds...)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	a.status = ""
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewInventory:
		a.inventory, cmd = a.inventory.update(msg)
	case viewTimesheet:
		a.timesheet, cmd = a.timesheet.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) captureInput() bool {
	switch a.activeView {
	case viewInventory:
		return a.inventory.formActive || a.inventory.menu.IsOpen()
	case viewTimesheet:
		return a.timesheet.draft != nil || a.timesheet.menu.IsOpen()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewInventory:
		return a.inventory.refresh()
	case viewTimesheet:
		return a.timesheet.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewInventory:
		content = a.inventory.view()
	case viewTimesheet:
		content = a.timesheet.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("beeja console")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusError {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = successStyle.Render(" " + a.status)
		}
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor == 0)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the active view's data set to the configured export
// directory. The inventory view exports devices, the timesheet and report
// views export the loaded logs.
func (a App) doExport(asCSV bool) tea.Cmd {
	dir := a.settings.exportDirValue()
	dateStr := time.Now().Format("2006-01-02")

	if a.activeView == viewInventory {
		devices := a.inventory.devices
		return func() tea.Msg {
			ext := "json"
			if asCSV {
				ext = "csv"
			}
			path := filepath.Join(dir, fmt.Sprintf("beeja-devices-%s.%s", dateStr, ext))

			var err error
			if asCSV {
				err = export.DevicesToCSV(devices, path)
			} else {
				err = export.DevicesToJSON(devices, path)
			}
			if err != nil {
				return statusMsg{text: "Export error: " + err.Error(), isError: true}
			}
			return exportDoneMsg{path: path}
		}
	}

	logs := a.timesheet.logs
	if a.activeView == viewReports {
		logs = a.reports.logs
	}
	projects := make(map[string]timesheet.Project, len(a.timesheet.projects))
	for _, p := range a.timesheet.projects {
		projects[p.ID] = p
	}

	return func() tea.Msg {
		ext := "json"
		if asCSV {
			ext = "csv"
		}
		path := filepath.Join(dir, fmt.Sprintf("beeja-logs-%s.%s", dateStr, ext))

		var err error
		if asCSV {
			err = export.LogsToCSV(logs, projects, path)
		} else {
			err = export.LogsToJSON(logs, projects, path)
		}
		if err != nil {
			return statusMsg{text: "Export error: " + err.Error(), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
