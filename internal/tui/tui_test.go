package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/beeja-io/beeja-console/internal/api"
	"github.com/beeja-io/beeja-console/internal/config"
	"github.com/beeja-io/beeja-console/internal/inventory"
	"github.com/beeja-io/beeja-console/internal/store"
	"github.com/beeja-io/beeja-console/internal/timesheet"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestClient() *api.Client {
	return api.NewClient(config.API{BaseURL: "http://localhost:9", TimeoutSeconds: 1})
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// ============================================================
// Action menu
// ============================================================

func TestMenuOpenClose(t *testing.T) {
	m := newActionMenu(true, true)
	if m.IsOpen() {
		t.Fatal("menu should start closed")
	}

	m.Toggle()
	if !m.IsOpen() {
		t.Fatal("toggle should open the menu")
	}

	m.Toggle()
	if m.IsOpen() {
		t.Fatal("second toggle should close the menu")
	}
}

func TestMenuSingleSelectNeverDeletes(t *testing.T) {
	m := newActionMenu(true, true)
	m.Toggle()
	m.MoveDown() // highlight Delete

	if got := m.Select(); got != menuActionNone {
		t.Fatalf("first select on Delete returned %v, want none", got)
	}
	if !m.Confirming() {
		t.Fatal("first select on Delete should move to confirmation")
	}

	if got := m.Select(); got != menuActionDelete {
		t.Fatalf("confirmed select returned %v, want delete", got)
	}
	if m.IsOpen() {
		t.Fatal("menu should close after confirmed delete")
	}
}

func TestMenuEditBypassesConfirmation(t *testing.T) {
	m := newActionMenu(true, true)
	m.Toggle()

	if got := m.Select(); got != menuActionEdit {
		t.Fatalf("select on Edit returned %v, want edit", got)
	}
	if m.IsOpen() {
		t.Fatal("menu should close after edit")
	}
}

func TestMenuDismissCollapsesConfirmation(t *testing.T) {
	m := newActionMenu(true, true)
	m.RequestDelete()
	if !m.Confirming() {
		t.Fatal("delete request should move to confirmation")
	}

	m.Dismiss()
	if m.IsOpen() {
		t.Fatal("dismiss should close a confirming menu")
	}

	// Reopening starts over, no delete remembered.
	m.Toggle()
	if m.Confirming() {
		t.Fatal("reopened menu should not be confirming")
	}
}

func TestMenuCapabilityGating(t *testing.T) {
	none := newActionMenu(false, false)
	if none.Enabled() {
		t.Fatal("menu with no capabilities should be disabled")
	}
	none.Toggle()
	if none.IsOpen() {
		t.Fatal("disabled menu should not open")
	}
	none.RequestDelete()
	if none.IsOpen() {
		t.Fatal("delete request without capability should be ignored")
	}

	editOnly := newActionMenu(true, false)
	editOnly.Toggle()
	opts := editOnly.options()
	if len(opts) != 1 || opts[0] != "Edit" {
		t.Fatalf("edit-only menu options = %v", opts)
	}
	editOnly.RequestDelete()
	if editOnly.Confirming() {
		t.Fatal("edit-only menu must not reach delete confirmation")
	}
}

// ============================================================
// Inventory view
// ============================================================

func TestInventoryOutsideKeyDismissesMenu(t *testing.T) {
	m := newInventoryModel(newTestClient(), true, true)
	m.devices = []inventory.Device{{ID: "d1", Category: "Laptop"}}
	m.menu.Toggle()

	m, cmd := m.update(keyRune('z'))
	if m.menu.IsOpen() {
		t.Fatal("unrelated key should dismiss the menu")
	}
	if cmd != nil {
		t.Fatal("dismissing should not trigger an action")
	}
}

func TestInventoryDeleteShortcutStillConfirms(t *testing.T) {
	m := newInventoryModel(newTestClient(), true, true)
	m.devices = []inventory.Device{{ID: "d1", Category: "Laptop"}}

	m, _ = m.update(keyRune('d'))
	if !m.menu.Confirming() {
		t.Fatal("delete shortcut should open the confirmation step")
	}
	if m.loading {
		t.Fatal("no delete should have started yet")
	}

	// Escape backs out without deleting.
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.menu.IsOpen() {
		t.Fatal("esc should dismiss the confirmation")
	}
}

func TestInventoryEditWithoutCapability(t *testing.T) {
	m := newInventoryModel(newTestClient(), false, false)
	m.devices = []inventory.Device{{ID: "d1", Category: "Laptop"}}

	m, _ = m.update(keyRune('e'))
	if m.formActive {
		t.Fatal("edit without capability should not open the form")
	}
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.menu.IsOpen() {
		t.Fatal("menu without capabilities should not open")
	}
}

// ============================================================
// Edit session exclusivity
// ============================================================

func testApp(t *testing.T) App {
	t.Helper()
	cfg := config.Application{}
	cfg.User.Capabilities = []string{config.CapInventoryEdit, config.CapInventoryDelete}
	return NewApp(newTestStore(t), newTestClient(), cfg)
}

func TestClaimRevokesPreviousSession(t *testing.T) {
	a := testApp(t)

	a.timesheet.draft = timesheet.NewDraft("2024-10-08")
	first := a.timesheet.draft.SessionID

	model, _ := a.Update(claimEditSessionMsg{session: first})
	a = model.(App)
	if a.activeSession != first {
		t.Fatalf("active session = %q, want %q", a.activeSession, first)
	}

	model, _ = a.Update(claimEditSessionMsg{session: "other"})
	a = model.(App)
	if a.activeSession != "other" {
		t.Fatalf("active session = %q, want other", a.activeSession)
	}
	if a.timesheet.draft != nil {
		t.Fatal("claiming a new session should discard the timesheet draft")
	}
}

func TestReleaseClearsSession(t *testing.T) {
	a := testApp(t)

	model, _ := a.Update(claimEditSessionMsg{session: "s1"})
	a = model.(App)
	model, _ = a.Update(releaseEditSessionMsg{session: "s1"})
	a = model.(App)
	if a.activeSession != "" {
		t.Fatalf("active session = %q after release", a.activeSession)
	}
}

func TestStaleReleaseIgnored(t *testing.T) {
	a := testApp(t)

	model, _ := a.Update(claimEditSessionMsg{session: "s2"})
	a = model.(App)
	model, _ = a.Update(releaseEditSessionMsg{session: "s1"})
	a = model.(App)
	if a.activeSession != "s2" {
		t.Fatalf("release of a stale session must not clear %q", a.activeSession)
	}
}

// ============================================================
// Timesheet view
// ============================================================

func octoberModel() timesheetModel {
	m := newTimesheetModel(newTestClient())
	m.month = time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		return time.Date(2024, time.October, 15, 12, 0, 0, 0, time.UTC)
	}
	m.logs = []timesheet.DailyLog{
		{ID: "l1", LogDate: "2024-10-08", ProjectID: "p1", ContractID: "c1", LoggedHours: 3.5},
	}
	m.recompute()
	return m
}

func (m timesheetModel) rowIndex(kind tsRowKind, match func(tsRow) bool) int {
	for i, r := range m.rows {
		if r.kind == kind && match(r) {
			return i
		}
	}
	return -1
}

func TestTimesheetExpandWeekAndDay(t *testing.T) {
	m := octoberModel()

	// October 2024 spans five Monday-start weeks, all collapsed.
	if len(m.rows) != 5 {
		t.Fatalf("collapsed month has %d rows, want 5", len(m.rows))
	}

	// Expand the week containing Oct 08.
	wi := m.rowIndex(rowWeek, func(r tsRow) bool { return r.week.WeekNo == 41 })
	if wi < 0 {
		t.Fatal("week 41 not found")
	}
	m.cursor = wi
	m, _ = m.toggleSelected()

	di := m.rowIndex(rowDay, func(r tsRow) bool { return r.day.Date == "2024-10-08" })
	if di < 0 {
		t.Fatal("expanding the week should reveal its days")
	}

	// Expand the day to reveal its log.
	m.cursor = di
	m, _ = m.toggleSelected()
	li := m.rowIndex(rowLog, func(r tsRow) bool { return r.log.ID == "l1" })
	if li < 0 {
		t.Fatal("expanding the day should reveal its logs")
	}

	// Collapse the week again; day and log rows disappear.
	m.cursor = wi
	m, _ = m.toggleSelected()
	if len(m.rows) != 5 {
		t.Fatalf("collapsed month has %d rows after re-collapse, want 5", len(m.rows))
	}
}

func TestTimesheetAddBlockedOnFutureDay(t *testing.T) {
	m := octoberModel()

	wi := m.rowIndex(rowWeek, func(r tsRow) bool { return r.week.WeekNo == 43 })
	m.cursor = wi
	m, _ = m.toggleSelected()

	di := m.rowIndex(rowDay, func(r tsRow) bool { return r.day.Date == "2024-10-25" })
	if di < 0 {
		t.Fatal("day 2024-10-25 not found")
	}
	m.cursor = di
	m, cmd := m.openAddDraft()
	if m.draft != nil {
		t.Fatal("future day must not open a draft")
	}
	if cmd == nil {
		t.Fatal("blocked add should explain itself")
	}
}

func TestTimesheetAddOnPastDay(t *testing.T) {
	m := octoberModel()

	wi := m.rowIndex(rowWeek, func(r tsRow) bool { return r.week.WeekNo == 41 })
	m.cursor = wi
	m, _ = m.toggleSelected()

	di := m.rowIndex(rowDay, func(r tsRow) bool { return r.day.Date == "2024-10-08" })
	m.cursor = di
	m, cmd := m.openAddDraft()
	if m.draft == nil {
		t.Fatal("past day in month should open a draft")
	}
	if m.draft.Date != "2024-10-08" {
		t.Fatalf("draft date = %q", m.draft.Date)
	}
	if cmd == nil {
		t.Fatal("opening a draft should claim the edit session")
	}
}

func TestTimesheetRevokeDiscardsDraft(t *testing.T) {
	m := octoberModel()
	m.draft = timesheet.NewDraft("2024-10-08")
	session := m.draft.SessionID

	m, _ = m.update(editSessionRevokedMsg{session: "someone-else"})
	if m.draft == nil {
		t.Fatal("revoking another session must keep the draft")
	}

	m, _ = m.update(editSessionRevokedMsg{session: session})
	if m.draft != nil {
		t.Fatal("revoking the draft's session should discard it")
	}
}

func TestTimesheetContractFailureCancelsStage(t *testing.T) {
	m := octoberModel()
	m.draft = timesheet.NewDraft("2024-10-08")
	*m.fProject = "p1"
	m.stage = stageContracts

	m, cmd := m.applyContracts(contractsDataMsg{projectID: "p1", err: errors.New("boom")})
	if m.stage != stageNone {
		t.Fatal("failed fetch should cancel the pending details stage")
	}
	if cmd == nil {
		t.Fatal("failure should surface a status message")
	}
	if !m.cache.Need("p1") {
		t.Fatal("failed project should stay eligible for a retry")
	}
}

func TestTimesheetSavedLogsReplaceDate(t *testing.T) {
	m := octoberModel()
	m.draft = timesheet.NewDraft("2024-10-08")
	m.loading = true

	replacement := []timesheet.DailyLog{
		{ID: "l2", LogDate: "2024-10-08", ProjectID: "p1", ContractID: "c1", LoggedHours: 2},
		{ID: "l3", LogDate: "2024-10-08", ProjectID: "p1", ContractID: "c2", LoggedHours: 1},
	}
	m, _ = m.update(logsSavedMsg{date: "2024-10-08", logs: replacement})

	if m.loading {
		t.Fatal("save completion should clear loading")
	}
	if m.draft != nil {
		t.Fatal("successful save should discard the draft")
	}
	if len(m.logs) != 2 {
		t.Fatalf("logs for the date should be replaced, got %d", len(m.logs))
	}
	for _, l := range m.logs {
		if l.ID == "l1" {
			t.Fatal("old log for the date should be gone")
		}
	}
}

func TestTimesheetSaveFailureKeepsDraft(t *testing.T) {
	m := octoberModel()
	m.draft = timesheet.NewDraft("2024-10-08")
	m.loading = true

	m, cmd := m.update(logsSavedMsg{date: "2024-10-08", err: errors.New("boom")})
	if m.draft == nil {
		t.Fatal("failed save must keep the draft for a retry")
	}
	if cmd == nil {
		t.Fatal("failed save should surface an error")
	}
	if len(m.logs) != 1 || m.logs[0].ID != "l1" {
		t.Fatal("failed save must not touch existing logs")
	}
}
