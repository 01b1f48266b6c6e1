// Package timesheet models daily logs, their weekly roll-ups, and the draft
// batches edited before submission.
package timesheet

// DateLayout is the wire format for log dates.
const DateLayout = "2006-01-02"

// DailyLog is a persisted timesheet entry. The server assigns the id on
// save; listed entries are immutable on the client and superseded by edits.
type DailyLog struct {
	ID          string  `json:"id"`
	LogDate     string  `json:"logDate"`
	ProjectID   string  `json:"projectId"`
	ContractID  string  `json:"contractId"`
	Description string  `json:"description"`
	LoggedHours float64 `json:"loggedHours"`
}

// Contract is reference data scoped to a project.
type Contract struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HourOptions returns the selectable log durations: half-hour steps from 0.5
// to 8 hours.
func HourOptions() []float64 {
	opts := make([]float64, 0, 16)
	for h := 0.5; h <= 8.0; h += 0.5 {
		opts = append(opts, h)
	}
	return opts
}
