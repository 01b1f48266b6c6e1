package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/beeja-io/beeja-console/internal/api"
	"github.com/beeja-io/beeja-console/internal/timesheet"
)

// Fixed palette cycled per project for chart bars and the legend.
var reportColors = []lipgloss.Color{
	"#7AA2F7", "#2ECC71", "#F39C12", "#E74C3C", "#6C63FF", "#1ABC9C",
}

type reportsModel struct {
	client *api.Client
	width  int
	height int

	projects []timesheet.Project
	logs     []timesheet.DailyLog
	offset   int // weeks back from the current week (0 = current)

	chart barchart.Model
}

func newReportsModel(client *api.Client) reportsModel {
	return reportsModel{
		client: client,
		chart:  barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	logs []timesheet.DailyLog
	err  error
}

func (r reportsModel) refresh() tea.Cmd {
	from, to := r.dateRange()
	client := r.client
	return func() tea.Msg {
		logs, err := client.ListLogs(context.Background(),
			from.Format(timesheet.DateLayout), to.Format(timesheet.DateLayout))
		return reportsDataMsg{logs: logs, err: err}
	}
}

// dateRange returns the Monday and Sunday of the selected week.
func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	weekday := today.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	start := today.AddDate(0, 0, -int(weekday-time.Monday)-7*r.offset)
	return start, start.AddDate(0, 0, 6)
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		if msg.err != nil {
			return r, statusCmd("Could not load report data: "+msg.err.Error(), true)
		}
		r.logs = msg.logs
		r.buildChart()
		return r, nil

	case projectsDataMsg:
		if msg.err == nil {
			r.projects = msg.projects
		}
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r reportsModel) projectColor(projectID string) lipgloss.Color {
	for i, p := range r.projects {
		if p.ID == projectID {
			return reportColors[i%len(reportColors)]
		}
	}
	return colorHighlight
}

func (r reportsModel) projectName(id string) string {
	for _, p := range r.projects {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, _ := r.dateRange()

	var bars []barchart.BarData
	for i := 0; i < 7; i++ {
		d := from.AddDate(0, 0, i)
		dateStr := d.Format(timesheet.DateLayout)

		var values []barchart.BarValue
		for _, l := range r.logs {
			if l.LogDate != dateStr {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  r.projectName(l.ProjectID),
				Value: l.LoggedHours,
				Style: lipgloss.NewStyle().Foreground(r.projectColor(l.ProjectID)),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s", from.Format("Jan 02"), to.Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", dateLabel,
	)

	chartView := r.chart.View()
	tableView := r.renderSummaryTable(w)
	legend := r.renderLegend()

	nav := mutedStyle.Render("  ←/→: week  x: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", legend, "", tableView, "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.logs) == 0 {
		return mutedStyle.Render("  No logs for this week")
	}

	totals := make(map[string]float64)
	counts := make(map[string]int)
	var order []string
	for _, l := range r.logs {
		if _, ok := totals[l.ProjectID]; !ok {
			order = append(order, l.ProjectID)
		}
		totals[l.ProjectID] += l.LoggedHours
		counts[l.ProjectID]++
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %10s %8s", "Project", "Hours", "Logs")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 44))))

	var grand float64
	for _, id := range order {
		dot := lipgloss.NewStyle().Foreground(r.projectColor(id)).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-22s %10s %8d",
			dot, r.projectName(id), formatHours(totals[id]), counts[id]))
		grand += totals[id]
	}
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 44))))
	rows = append(rows, fmt.Sprintf("  %-24s %10s", "Total", highlightStyle.Render(formatHours(grand))))

	return strings.Join(rows, "\n")
}

func (r reportsModel) renderLegend() string {
	seen := make(map[string]bool)
	var items []string
	for _, l := range r.logs {
		if seen[l.ProjectID] {
			continue
		}
		seen[l.ProjectID] = true
		dot := lipgloss.NewStyle().Foreground(r.projectColor(l.ProjectID)).Render("■")
		items = append(items, dot+" "+r.projectName(l.ProjectID))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "   ")
}
