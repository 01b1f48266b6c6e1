package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// menuState is the per-row action menu lifecycle:
// closed → open → confirming-delete → closed. Edit closes the menu directly,
// bypassing confirmation; delete always requires an explicit confirm.
type menuState int

const (
	menuClosed menuState = iota
	menuOpen
	menuConfirmingDelete
)

type menuAction int

const (
	menuActionNone menuAction = iota
	menuActionEdit
	menuActionDelete
)

// actionMenu is the shared edit/delete menu for inventory rows and log rows.
// Capability gating hides entries individually; a user with neither
// capability cannot open the menu at all.
type actionMenu struct {
	state     menuState
	cursor    int
	canEdit   bool
	canDelete bool
}

func newActionMenu(canEdit, canDelete bool) actionMenu {
	return actionMenu{canEdit: canEdit, canDelete: canDelete}
}

// Enabled reports whether the menu trigger is usable at all.
func (m actionMenu) Enabled() bool {
	return m.canEdit || m.canDelete
}

func (m actionMenu) IsOpen() bool {
	return m.state != menuClosed
}

func (m actionMenu) Confirming() bool {
	return m.state == menuConfirmingDelete
}

// options returns the visible entries given the capability set.
func (m actionMenu) options() []string {
	var opts []string
	if m.canEdit {
		opts = append(opts, "Edit")
	}
	if m.canDelete {
		opts = append(opts, "Delete")
	}
	return opts
}

// Toggle opens a closed menu and closes an open one, like clicking the
// trigger. Disabled menus stay closed.
func (m *actionMenu) Toggle() {
	if !m.Enabled() {
		return
	}
	if m.state == menuClosed {
		m.state = menuOpen
		m.cursor = 0
		return
	}
	m.Dismiss()
}

// Dismiss force-closes the menu, collapsing any pending confirmation. Any
// interaction outside the menu routes here.
func (m *actionMenu) Dismiss() {
	m.state = menuClosed
	m.cursor = 0
}

// RequestDelete jumps straight to the confirmation step, as the delete
// shortcut does. The explicit confirm is still required.
func (m *actionMenu) RequestDelete() {
	if m.canDelete {
		m.state = menuConfirmingDelete
		m.cursor = 0
	}
}

func (m *actionMenu) MoveUp() {
	if m.state == menuOpen && m.cursor > 0 {
		m.cursor--
	}
}

func (m *actionMenu) MoveDown() {
	if m.state == menuOpen && m.cursor < len(m.options())-1 {
		m.cursor++
	}
}

// Select activates the highlighted entry. Edit returns immediately and
// closes the menu. Delete only moves to the confirmation step; the delete
// action is returned from the second, explicit select. A single select never
// deletes.
func (m *actionMenu) Select() menuAction {
	switch m.state {
	case menuOpen:
		opts := m.options()
		if m.cursor >= len(opts) {
			return menuActionNone
		}
		switch opts[m.cursor] {
		case "Edit":
			m.Dismiss()
			return menuActionEdit
		case "Delete":
			m.state = menuConfirmingDelete
			return menuActionNone
		}
	case menuConfirmingDelete:
		m.Dismiss()
		return menuActionDelete
	}
	return menuActionNone
}

func (m actionMenu) view() string {
	switch m.state {
	case menuOpen:
		var rows []string
		for i, opt := range m.options() {
			cursor := "  "
			style := normalItemStyle
			if i == m.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			rows = append(rows, style.Render(cursor+opt))
		}
		return menuStyle.Render(strings.Join(rows, "\n"))
	case menuConfirmingDelete:
		return menuStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			warningStyle.Render("Delete this record?"),
			mutedStyle.Render("enter/y: confirm  esc: cancel"),
		))
	}
	return ""
}
