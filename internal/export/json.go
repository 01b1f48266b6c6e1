package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/beeja-io/beeja-console/internal/inventory"
	"github.com/beeja-io/beeja-console/internal/timesheet"
)

type deviceExport struct {
	ExportedAt string             `json:"exported_at"`
	Count      int                `json:"count"`
	Devices    []inventory.Device `json:"devices"`
}

type logExport struct {
	ExportedAt string    `json:"exported_at"`
	Count      int       `json:"count"`
	Logs       []jsonLog `json:"logs"`
}

type jsonLog struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Project     string  `json:"project"`
	ProjectID   string  `json:"project_id"`
	ContractID  string  `json:"contract_id"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description,omitempty"`
}

// DevicesToJSON writes the fetched device list to path, pretty-printed.
func DevicesToJSON(devices []inventory.Device, path string) error {
	export := deviceExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(devices),
		Devices:    devices,
	}
	return writeJSON(export, path)
}

// LogsToJSON writes the fetched daily logs to path, resolving project names
// from the lookup map.
func LogsToJSON(logs []timesheet.DailyLog, projects map[string]timesheet.Project, path string) error {
	export := logExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(logs),
	}

	for _, l := range logs {
		projectName := "Unknown"
		if p, ok := projects[l.ProjectID]; ok {
			projectName = p.Name
		}
		export.Logs = append(export.Logs, jsonLog{
			ID:          l.ID,
			Date:        l.LogDate,
			Project:     projectName,
			ProjectID:   l.ProjectID,
			ContractID:  l.ContractID,
			Hours:       l.LoggedHours,
			Description: l.Description,
		})
	}

	return writeJSON(export, path)
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
