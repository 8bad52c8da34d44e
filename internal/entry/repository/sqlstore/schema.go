package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"station-ops-bot/internal/entry"
)

type column struct {
	name    string
	sqlType string
}

type table struct {
	name    string
	columns []column
}

// tables is keyed by the entry table name; column order is insert order.
var tables = map[string]table{
	entry.TablePettyCash: {
		name: "petty_cash",
		columns: []column{
			{"date", "TEXT NOT NULL"},
			{"amount", "NUMERIC(14,2) NOT NULL"},
			{"description", "TEXT NOT NULL"},
			{"person", "TEXT"},
			{"receipt_url", "TEXT"},
		},
	},
	entry.TableFuelLogs: {
		name: "fuel_logs",
		columns: []column{
			{"date", "TEXT NOT NULL"},
			{"vehicle", "TEXT NOT NULL"},
			{"driver", "TEXT"},
			{"liters", "NUMERIC(10,2) NOT NULL"},
			{"odometer_start", "BIGINT"},
			{"odometer_end", "BIGINT"},
			{"purpose", "TEXT"},
			{"logged_by", "TEXT"},
		},
	},
	entry.TableTasks: {
		name: "tasks",
		columns: []column{
			{"date", "TEXT"},
			{"task_title", "TEXT NOT NULL"},
			{"details", "TEXT"},
			{"status", "TEXT NOT NULL"},
			{"deadline", "TEXT"},
			{"assigned_to", "TEXT"},
		},
	},
	entry.TableIssues: {
		name: "issues",
		columns: []column{
			{"date", "TEXT NOT NULL"},
			{"description", "TEXT NOT NULL"},
			{"category", "TEXT"},
			{"severity", "TEXT"},
			{"status", "TEXT NOT NULL"},
			{"reported_by", "TEXT"},
		},
	},
}

func (s *Store) idColumn() string {
	if s.dialect == DialectPostgres {
		return "id BIGSERIAL PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (s *Store) createStatement(t table) string {
	defs := []string{s.idColumn()}
	for _, c := range t.columns {
		defs = append(defs, c.name+" "+c.sqlType)
	}
	defs = append(defs, "created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP")
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.name, strings.Join(defs, ", "))
}

// Migrate creates every entry table that does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, typ := range entry.Types {
		t := tables[typ.Table()]
		if _, err := s.db.ExecContext(ctx, s.createStatement(t)); err != nil {
			return fmt.Errorf("sqlstore: migrate %s: %w", t.name, err)
		}
	}
	s.l.Infof(ctx, "sqlstore: schema ready (%s)", s.dialect)
	return nil
}
