package usecase

import (
	"fmt"
	"strings"

	"station-ops-bot/internal/entry"
)

// validate checks the required fields of the entry's type.
func validate(e entry.ParsedEntry) error {
	var missing []string

	switch e.Type {
	case entry.TypeExpense:
		if !e.Amount.Valid || !e.Amount.Decimal.IsPositive() {
			missing = append(missing, "amount")
		}
		if e.Description == "" {
			missing = append(missing, "description")
		}
	case entry.TypeFuel:
		if e.Vehicle == "" {
			missing = append(missing, "vehicle")
		}
		if !e.Liters.Valid || !e.Liters.Decimal.IsPositive() {
			missing = append(missing, "liters")
		}
	case entry.TypeTask:
		if e.TaskTitle == "" {
			missing = append(missing, "task_title")
		}
	case entry.TypeIssue:
		if e.Description == "" && e.TaskTitle == "" {
			missing = append(missing, "description")
		}
	default:
		return fmt.Errorf("%w: unknown type %q", entry.ErrMissingFields, e.Type)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s %s", entry.ErrMissingFields, strings.ToLower(string(e.Type)), strings.Join(missing, ", "))
	}
	return nil
}
