package entry

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Type is the kind of record an entry becomes.
type Type string

const (
	TypeExpense Type = "Expense"
	TypeFuel    Type = "Fuel"
	TypeTask    Type = "Task"
	TypeIssue   Type = "Issue"
)

// Types lists every entry type in declaration order.
var Types = []Type{TypeExpense, TypeFuel, TypeTask, TypeIssue}

// Storage table names, one per entry type.
const (
	TablePettyCash = "Petty Cash"
	TableFuelLogs  = "Fuel Logs"
	TableTasks     = "Tasks"
	TableIssues    = "Issues"
)

// Closed vocabularies.
const (
	VehicleHilux = "Toyota Hilux"
	VehiclePrado = "Toyota Prado"
	VehicleOther = "Other"

	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
	StatusOpen       = "Open"
	StatusResolved   = "Resolved"

	SeverityLow    = "Low"
	SeverityMedium = "Medium"
	SeverityHigh   = "High"

	CategoryEquipment = "Equipment"
	CategorySupply    = "Supply"
	CategoryComplaint = "Complaint"
	CategoryOther     = "Other"
)

// DateLayout is the wire format of every date field.
const DateLayout = "2006-01-02"

// ParseType matches s against the known types, ignoring case.
func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return "", false
}

// Table returns the storage table for t.
func (t Type) Table() string {
	switch t {
	case TypeExpense:
		return TablePettyCash
	case TypeFuel:
		return TableFuelLogs
	case TypeTask:
		return TableTasks
	case TypeIssue:
		return TableIssues
	}
	return ""
}

// ParsedEntry is one typed record extracted from a message segment.
// Only the fields belonging to Type are meaningful; Record drops the rest.
type ParsedEntry struct {
	Type Type
	Date string

	// Expense
	Amount      decimal.NullDecimal
	Description string // also the Issue description
	Person      string
	ReceiptURL  string

	// Fuel
	Vehicle       string
	Driver        string
	Liters        decimal.NullDecimal
	OdometerStart *int64
	OdometerEnd   *int64
	Purpose       string
	LoggedBy      string

	// Task
	TaskTitle  string
	Details    string
	Status     string // also the Issue status
	Deadline   string
	AssignedTo string

	// Issue
	Category   string
	Severity   string
	ReportedBy string
}

// Record returns the storage table and the domain-named fields of the active type.
// Empty optional values are omitted.
func (e ParsedEntry) Record() (string, map[string]any) {
	fields := map[string]any{}
	put := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	putDecimal := func(key string, value decimal.NullDecimal) {
		if value.Valid {
			fields[key] = value.Decimal
		}
	}
	putInt := func(key string, value *int64) {
		if value != nil {
			fields[key] = *value
		}
	}

	switch e.Type {
	case TypeExpense:
		put("date", e.Date)
		putDecimal("amount", e.Amount)
		put("description", e.Description)
		put("person", e.Person)
		put("receipt_url", e.ReceiptURL)
	case TypeFuel:
		put("date", e.Date)
		put("vehicle", e.Vehicle)
		put("driver", e.Driver)
		putDecimal("liters", e.Liters)
		putInt("odometer_start", e.OdometerStart)
		putInt("odometer_end", e.OdometerEnd)
		put("purpose", e.Purpose)
		put("logged_by", e.LoggedBy)
	case TypeTask:
		put("date", e.Date)
		put("task_title", e.TaskTitle)
		put("details", e.Details)
		put("status", e.Status)
		put("deadline", e.Deadline)
		put("assigned_to", e.AssignedTo)
	case TypeIssue:
		put("date", e.Date)
		put("description", e.Description)
		put("category", e.Category)
		put("severity", e.Severity)
		put("status", e.Status)
		put("reported_by", e.ReportedBy)
	}
	return e.Type.Table(), fields
}

// Summary is the short line used in multi-entry confirmations.
func (e ParsedEntry) Summary() string {
	switch e.Type {
	case TypeExpense:
		return "💰 " + FormatAmount(e.Amount) + " MWK - " + e.Description
	case TypeFuel:
		return "⛽ " + formatLiters(e.Liters) + "L - " + e.Vehicle
	case TypeTask:
		return "📋 " + e.TaskTitle
	case TypeIssue:
		return "⚠️ " + e.Description
	}
	return string(e.Type)
}

// FormatAmount renders a decimal with thousands separators, e.g. 15,000 or 1,250.50.
func FormatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return "0"
	}
	s := d.Decimal.StringFixedBank(2)
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" && frac != "00" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func formatLiters(d decimal.NullDecimal) string {
	if !d.Valid {
		return "0"
	}
	return d.Decimal.String()
}

// StoredEntry is an entry that reached storage.
type StoredEntry struct {
	Position int // 1-based segment position
	Entry    ParsedEntry
	RecordID string
	Rule     string // reclassification rule that fired, if any
}

// Stage names where a segment can fail.
const (
	StageCompletion = "completion"
	StageValidation = "validation"
	StageStorage    = "storage"
)

// SkippedSegment records why a segment produced no record.
type SkippedSegment struct {
	Position int
	Segment  string
	Stage    string
	Err      error
}

// ProcessInput is one inbound chat message.
type ProcessInput struct {
	ChatID  int64
	RawText string
}

// ProcessOutput is the outcome of one message.
type ProcessOutput struct {
	Results []StoredEntry
	Skipped []SkippedSegment
	Reply   string
}
