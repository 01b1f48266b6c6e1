package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/beeja-io/beeja-console/internal/store"
	"github.com/beeja-io/beeja-console/internal/timesheet"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings []store.Setting
	projects []timesheet.Project

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	weekStart      *string
	defaultProject *string
	startView      *string
	exportDir      *string
}

func newSettingsModel(s *store.Store) settingsModel {
	ws, dp, sv, ed := "", "", "", ""
	return settingsModel{
		store:          s,
		weekStart:      &ws,
		defaultProject: &dp,
		startView:      &sv,
		exportDir:      &ed,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case projectsDataMsg:
		if msg.err == nil {
			s.projects = msg.projects
		}
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.weekStart = s.getVal("week_start", "monday")
	*s.defaultProject = s.getVal("default_project", "")
	*s.startView = s.getVal("start_view", "inventory")
	*s.exportDir = s.getVal("export_dir", ".")

	projectOptions := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, p := range s.projects {
		projectOptions = append(projectOptions, huh.NewOption(p.Name, p.ID))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.weekStart),
			huh.NewSelect[string]().Title("Default project").
				Options(projectOptions...).Value(s.defaultProject),
			huh.NewSelect[string]().Title("Start view").
				Options(
					huh.NewOption("Inventory", "inventory"),
					huh.NewOption("Timesheet", "timesheet"),
					huh.NewOption("Reports", "reports"),
				).Value(s.startView),
			huh.NewInput().Title("Export directory").Value(s.exportDir),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveSettings()
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved", false))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	s.store.SetSetting("week_start", *s.weekStart)
	s.store.SetSetting("default_project", *s.defaultProject)
	s.store.SetSetting("start_view", *s.startView)
	s.store.SetSetting("export_dir", *s.exportDir)
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

// exportDirValue returns the configured export directory.
func (s settingsModel) exportDirValue() string {
	return s.getVal("export_dir", ".")
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := setting.Value
		if setting.Key == "default_project" {
			value = s.projectLabel(value)
		}
		if value == "" {
			value = "(none)"
		}
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(value)))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s settingsModel) projectLabel(id string) string {
	for _, p := range s.projects {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}
