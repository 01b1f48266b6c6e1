package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/beeja-io/beeja-console/internal/inventory"
	"github.com/beeja-io/beeja-console/internal/timesheet"
)

// viewState represents the currently active view.
type viewState int

const (
	viewInventory viewState = iota
	viewTimesheet
	viewReports
	viewSettings
)

var viewNames = []string{"Inventory", "Timesheet", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// claimEditSessionMsg asks the root model to make the given session the only
// active editing session. The root revokes any previous session first.
type claimEditSessionMsg struct {
	session string
}

// releaseEditSessionMsg tells the root model an editing session ended.
type releaseEditSessionMsg struct {
	session string
}

// editSessionRevokedMsg is delivered to the views when the root model
// revokes a session; the view owning it discards its editor without saving.
type editSessionRevokedMsg struct {
	session string
}

type devicesDataMsg struct {
	devices []inventory.Device
	err     error
}

type deviceSavedMsg struct {
	device  *inventory.Device
	created bool
	err     error
}

type deviceDeletedMsg struct {
	id  string
	err error
}

type projectsDataMsg struct {
	projects []timesheet.Project
	err      error
}

type logsDataMsg struct {
	logs []timesheet.DailyLog
	err  error
}

type contractsDataMsg struct {
	projectID string
	contracts []timesheet.Contract
	err       error
}

type logsSavedMsg struct {
	date string
	logs []timesheet.DailyLog
	err  error
}

type logUpdatedMsg struct {
	log *timesheet.DailyLog
	err error
}

type logDeletedMsg struct {
	id  string
	err error
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
