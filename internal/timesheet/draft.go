package timesheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// EntryDraft is one in-progress log row. ID is set only while editing an
// existing log. Hours stay free-form text until validated on submit.
type EntryDraft struct {
	ID          string
	ProjectID   string
	ContractID  string
	Hours       string
	Description string
}

// Draft is the batch of rows being edited for a single date. At most one
// draft exists across the whole program; the session id is minted when an
// editor opens and is held by the root model only.
type Draft struct {
	SessionID string
	Date      string
	Rows      []EntryDraft
}

// NewDraft opens an empty add-new draft for the date with one blank row.
func NewDraft(date string) *Draft {
	return &Draft{
		SessionID: uuid.NewString(),
		Date:      date,
		Rows:      []EntryDraft{{}},
	}
}

// DraftFromLog opens an edit draft populated from an existing log.
func DraftFromLog(l DailyLog) *Draft {
	return &Draft{
		SessionID: uuid.NewString(),
		Date:      l.LogDate,
		Rows: []EntryDraft{{
			ID:          l.ID,
			ProjectID:   l.ProjectID,
			ContractID:  l.ContractID,
			Hours:       strconv.FormatFloat(l.LoggedHours, 'f', -1, 64),
			Description: l.Description,
		}},
	}
}

// Editing reports whether the draft modifies an existing log rather than
// adding new ones.
func (d *Draft) Editing() bool {
	return len(d.Rows) > 0 && d.Rows[0].ID != ""
}

func (d *Draft) AddRow() {
	d.Rows = append(d.Rows, EntryDraft{})
}

func (d *Draft) RemoveRow(i int) {
	if i < 0 || i >= len(d.Rows) || len(d.Rows) == 1 {
		return
	}
	d.Rows = append(d.Rows[:i], d.Rows[i+1:]...)
}

// SetProject selects a project for the row. Changing the project resets the
// row's contract selection; the contract dropdown stays empty until the new
// project's contracts are known. Returns true when the selection actually
// changed.
func (d *Draft) SetProject(i int, projectID string) bool {
	if i < 0 || i >= len(d.Rows) {
		return false
	}
	if d.Rows[i].ProjectID == projectID {
		return false
	}
	d.Rows[i].ProjectID = projectID
	d.Rows[i].ContractID = ""
	return true
}

// Validate checks every row has a project, a contract and parseable positive
// hours.
func (d *Draft) Validate() error {
	for i, r := range d.Rows {
		if strings.TrimSpace(r.ProjectID) == "" {
			return fmt.Errorf("row %d: project is required", i+1)
		}
		if strings.TrimSpace(r.ContractID) == "" {
			return fmt.Errorf("row %d: contract is required", i+1)
		}
		if _, err := parseHours(r.Hours); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

var errInvalidHours = errors.New("log hours must be a positive number")

func parseHours(s string) (float64, error) {
	h, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || h <= 0 {
		return 0, errInvalidHours
	}
	return h, nil
}

// Entries converts the rows into daily logs dated to the draft's date. The
// draft must validate first.
func (d *Draft) Entries() ([]DailyLog, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	logs := make([]DailyLog, 0, len(d.Rows))
	for _, r := range d.Rows {
		hours, _ := parseHours(r.Hours)
		logs = append(logs, DailyLog{
			ID:          r.ID,
			LogDate:     d.Date,
			ProjectID:   r.ProjectID,
			ContractID:  r.ContractID,
			Description: r.Description,
			LoggedHours: hours,
		})
	}
	return logs, nil
}
