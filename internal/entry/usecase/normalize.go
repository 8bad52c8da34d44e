package usecase

import (
	"strings"
	"time"

	"station-ops-bot/internal/entry"
	"station-ops-bot/internal/entry/reclassify"
)

// normalize builds the typed entry, applying every default and vocabulary
// coercion in one place. retyped reports that a reclassification rule already
// derived the issue severity and category.
func (uc *implUseCase) normalize(typ entry.Type, fields entry.Fields, segment string, today time.Time, retyped bool) entry.ParsedEntry {
	e := entry.ParsedEntry{
		Type: typ,
		Date: uc.resolveDate(fields.String("date"), today),
	}

	switch typ {
	case entry.TypeExpense:
		e.Amount = fields.Decimal("amount")
		e.Description = fields.String("description")
		e.Person = orDefault(fields.String("person"), uc.cfg.DefaultPerson)
		if url := fields.String("receipt_url"); isURL(url) {
			e.ReceiptURL = url
		}

	case entry.TypeFuel:
		e.Vehicle = coerceVehicle(fields.String("vehicle"))
		e.Driver = fields.String("driver")
		e.Liters = fields.Decimal("liters")
		e.OdometerStart = nonNegative(fields.Int("odometer_start"))
		e.OdometerEnd = nonNegative(fields.Int("odometer_end"))
		if e.OdometerStart != nil && e.OdometerEnd != nil && *e.OdometerEnd < *e.OdometerStart {
			e.OdometerEnd = nil
		}
		e.Purpose = fields.String("purpose")
		e.LoggedBy = orDefault(fields.String("logged_by"), uc.cfg.DefaultPerson)

	case entry.TypeTask:
		e.TaskTitle = fields.String("task_title")
		e.Details = fields.String("details")
		e.Status = coerce(fields.String("status"), entry.StatusToDo, entry.StatusToDo, entry.StatusInProgress, entry.StatusDone)
		e.Deadline = uc.resolveDeadline(fields.String("deadline"), today)
		if e.Deadline == "" {
			if t, err := uc.dates.ResolveMention(segment, today); err == nil {
				e.Deadline = t.Format(entry.DateLayout)
			}
		}
		e.AssignedTo = fields.String("assigned_to")
		if e.AssignedTo == "" {
			if name, ok := reclassify.Assignee(segment); ok {
				e.AssignedTo = name
			}
		}
		e.AssignedTo = orDefault(e.AssignedTo, uc.cfg.DefaultAssignee)

	case entry.TypeIssue:
		e.Description = fields.String("description")
		e.TaskTitle = fields.String("task_title")
		if e.Description == "" {
			e.Description = e.TaskTitle
		}
		e.Category = coerce(fields.String("category"), "", entry.CategoryEquipment, entry.CategorySupply, entry.CategoryComplaint, entry.CategoryOther)
		e.Severity = coerce(fields.String("severity"), "", entry.SeverityLow, entry.SeverityMedium, entry.SeverityHigh)
		if !retyped {
			// Keywords in the segment override the model; its values only fill the gaps.
			if c := reclassify.Category(segment, entry.CategorySupply); c != entry.CategoryOther || e.Category == "" {
				e.Category = c
			}
			if s := reclassify.Severity(segment); s != entry.SeverityLow || e.Severity == "" {
				e.Severity = s
			}
		}
		e.Status = coerce(fields.String("status"), entry.StatusOpen, entry.StatusOpen, entry.StatusResolved)
		e.ReportedBy = orDefault(fields.String("reported_by"), uc.cfg.DefaultReporter)
	}

	return e
}

// resolveDate returns value as YYYY-MM-DD, or today when it cannot be read.
func (uc *implUseCase) resolveDate(value string, today time.Time) string {
	if t, ok := uc.parseDate(value, today); ok {
		return t.Format(entry.DateLayout)
	}
	return today.Format(entry.DateLayout)
}

// resolveDeadline accepts absolute dates, relative expressions and free-text
// mentions; anything else leaves the deadline empty.
func (uc *implUseCase) resolveDeadline(value string, today time.Time) string {
	if value == "" {
		return ""
	}
	if t, ok := uc.parseDate(value, today); ok {
		return t.Format(entry.DateLayout)
	}
	if t, err := uc.dates.ResolveMention(value, today); err == nil {
		return t.Format(entry.DateLayout)
	}
	return ""
}

func (uc *implUseCase) parseDate(value string, today time.Time) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := uc.dates.Parse(value, today); err == nil {
		return t, true
	}
	if len(value) > len(entry.DateLayout) {
		if t, err := uc.dates.Parse(value[:len(entry.DateLayout)], today); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func coerceVehicle(v string) string {
	switch strings.ToLower(v) {
	case "":
		return ""
	case strings.ToLower(entry.VehicleHilux):
		return entry.VehicleHilux
	case strings.ToLower(entry.VehiclePrado):
		return entry.VehiclePrado
	}
	return reclassify.Vehicle(v)
}

// coerce matches v case-insensitively against allowed, returning fallback otherwise.
func coerce(v, fallback string, allowed ...string) string {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(v), a) {
			return a
		}
	}
	return fallback
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func nonNegative(v *int64) *int64 {
	if v == nil || *v < 0 {
		return nil
	}
	return v
}

func isURL(v string) bool {
	return strings.HasPrefix(v, "https://") || strings.HasPrefix(v, "http://")
}
