package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/beeja-io/beeja-console/internal/inventory"
	"github.com/beeja-io/beeja-console/internal/timesheet"
)

// DevicesToCSV writes the fetched device list to path.
func DevicesToCSV(devices []inventory.Device, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Device", "Type", "Provider", "Model", "Availability", "Price", "Purchase Date", "Product ID"}); err != nil {
		return err
	}

	for _, d := range devices {
		row := []string{
			d.ID,
			d.Category,
			d.Type,
			d.Provider,
			d.Model,
			d.Availability,
			fmt.Sprintf("%.2f", d.Price),
			d.DateOfPurchase,
			d.ProductID,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// LogsToCSV writes the fetched daily logs to path, resolving project names
// from the lookup map.
func LogsToCSV(logs []timesheet.DailyLog, projects map[string]timesheet.Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Date", "Project", "Contract", "Hours", "Description"}); err != nil {
		return err
	}

	for _, l := range logs {
		projectName := "Unknown"
		if p, ok := projects[l.ProjectID]; ok {
			projectName = p.Name
		}
		row := []string{
			l.ID,
			l.LogDate,
			projectName,
			l.ContractID,
			fmt.Sprintf("%.1f", l.LoggedHours),
			l.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
