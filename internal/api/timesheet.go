package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/beeja-io/beeja-console/internal/timesheet"
)

// ListLogs fetches the daily logs in [from, to], both inclusive ISO dates.
func (c *Client) ListLogs(ctx context.Context, from, to string) ([]timesheet.DailyLog, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)

	var logs []timesheet.DailyLog
	if err := c.doJSON(ctx, http.MethodGet, "/timesheet/logs?"+q.Encode(), nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// SaveLogs creates a batch of logs for one date and returns the replacement
// list for that date, server ids assigned.
func (c *Client) SaveLogs(ctx context.Context, date string, entries []timesheet.DailyLog) ([]timesheet.DailyLog, error) {
	body := struct {
		LogDate string               `json:"logDate"`
		Entries []timesheet.DailyLog `json:"entries"`
	}{LogDate: date, Entries: entries}

	var saved []timesheet.DailyLog
	if err := c.doJSON(ctx, http.MethodPost, "/timesheet/logs", body, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// UpdateLog modifies a single existing log.
func (c *Client) UpdateLog(ctx context.Context, id string, entry timesheet.DailyLog) (*timesheet.DailyLog, error) {
	var updated timesheet.DailyLog
	path := "/timesheet/logs/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodPut, path, entry, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteLog(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/timesheet/logs/"+url.PathEscape(id), nil, nil)
}

// ProjectContracts fetches the contracts scoped to a project.
func (c *Client) ProjectContracts(ctx context.Context, projectID string) ([]timesheet.Contract, error) {
	var contracts []timesheet.Contract
	path := "/projects/" + url.PathEscape(projectID) + "/contracts"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]timesheet.Project, error) {
	var projects []timesheet.Project
	if err := c.doJSON(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}
