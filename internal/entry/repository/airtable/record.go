package airtable

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"station-ops-bot/internal/entry"
	pkgAirtable "station-ops-bot/pkg/airtable"
)

// columns maps domain field names to the base's column names, per table.
var columns = map[string]map[string]string{
	entry.TablePettyCash: {
		"date":        "Date",
		"amount":      "Amount",
		"description": "Description",
		"person":      "Person",
		"receipt_url": "Receipt Photo",
	},
	entry.TableFuelLogs: {
		"date":           "Date",
		"vehicle":        "Vehicle",
		"driver":         "Driver",
		"liters":         "Liters",
		"odometer_start": "Odometer Start",
		"odometer_end":   "Odometer End",
		"purpose":        "Purpose",
		"logged_by":      "Logged By",
	},
	entry.TableTasks: {
		"task_title":  "Task",
		"details":     "Details",
		"status":      "Status",
		"deadline":    "Deadline",
		"assigned_to": "Assigned To",
		"date":        "Created At",
	},
	entry.TableIssues: {
		"date":        "Date",
		"description": "Description",
		"category":    "Category",
		"severity":    "Severity",
		"status":      "Status",
		"reported_by": "Reported By",
	},
}

// CreateRecord maps fields onto the table's columns and creates the row.
func (r *implRepository) CreateRecord(ctx context.Context, table string, fields map[string]any) (string, error) {
	mapped, err := toColumns(table, fields)
	if err != nil {
		return "", err
	}

	rec, err := r.client.CreateRecord(ctx, table, mapped, true)
	if err != nil {
		r.l.Errorf(ctx, "entry.repository.airtable.CreateRecord: table=%s: %v", table, err)
		return "", err
	}

	r.l.Debugf(ctx, "entry.repository.airtable.CreateRecord: table=%s id=%s", table, rec.ID)
	return rec.ID, nil
}

func toColumns(table string, fields map[string]any) (map[string]any, error) {
	cols, ok := columns[table]
	if !ok {
		return nil, fmt.Errorf("airtable: unknown table %q", table)
	}

	out := make(map[string]any, len(fields))
	for key, value := range fields {
		col, ok := cols[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case decimal.Decimal:
			out[col] = v.InexactFloat64()
		case string:
			if key == "receipt_url" {
				out[col] = []pkgAirtable.Attachment{{URL: v}}
				continue
			}
			out[col] = v
		default:
			out[col] = v
		}
	}
	return out, nil
}
