// Package reclassify corrects the entry type declared by the completion
// backend using keyword rules over the original segment text.
package reclassify

import (
	"strings"
	"time"

	"station-ops-bot/internal/entry"
	"station-ops-bot/pkg/datemath"
)

// Input is one classified segment.
type Input struct {
	Type   entry.Type
	Fields entry.Fields
	Text   string
	Today  time.Time
}

// Result is the corrected classification. Rule is empty when nothing fired.
type Result struct {
	Type   entry.Type
	Fields entry.Fields
	Rule   string
}

// Rule retypes an entry declared as From into To when Match holds for the
// lowercased segment text. Derive fills fields for the new type.
type Rule struct {
	Name   string
	From   entry.Type
	To     entry.Type
	Match  func(lowered string) bool
	Derive func(in Input, fields entry.Fields)
}

// Rules is evaluated in order; the first match wins.
var Rules = []Rule{
	{
		Name: "fuel_to_issue",
		From: entry.TypeFuel,
		To:   entry.TypeIssue,
		Match: func(lowered string) bool {
			return containsAny(lowered, IssueWords) && !containsAny(lowered, FuelUsageWords)
		},
		Derive: deriveIssue(entry.CategorySupply),
	},
	{
		Name: "issue_to_fuel",
		From: entry.TypeIssue,
		To:   entry.TypeFuel,
		Match: func(lowered string) bool {
			return containsAny(lowered, FuelWords) && containsAny(lowered, FuelUsageWords)
		},
		Derive: deriveFuel,
	},
	{
		Name: "issue_to_expense",
		From: entry.TypeIssue,
		To:   entry.TypeExpense,
		Match: func(lowered string) bool {
			return containsAny(lowered, ExpenseWords)
		},
	},
	{
		Name: "issue_to_task",
		From: entry.TypeIssue,
		To:   entry.TypeTask,
		Match: func(lowered string) bool {
			return containsAny(lowered, TaskWords)
		},
		Derive: deriveTask,
	},
	{
		Name: "task_to_issue",
		From: entry.TypeTask,
		To:   entry.TypeIssue,
		Match: func(lowered string) bool {
			return containsAny(lowered, IssueWords)
		},
		// Supply keywords fall into Other on this path.
		Derive: deriveIssue(entry.CategoryOther),
	},
}

// Apply runs the rule table once. The input map is not modified.
func Apply(in Input) Result {
	fields := entry.Fields{}
	if in.Fields != nil {
		fields = in.Fields.Clone()
	}
	lowered := strings.ToLower(in.Text)

	for _, r := range Rules {
		if r.From != in.Type || !r.Match(lowered) {
			continue
		}
		if r.Derive != nil {
			r.Derive(in, fields)
		}
		if r.To == entry.TypeIssue && !fields.Has("description") {
			fillDescription(fields, in.Text)
		}
		fields["type"] = string(r.To)
		return Result{Type: r.To, Fields: fields, Rule: r.Name}
	}

	return Result{Type: in.Type, Fields: fields}
}

func deriveIssue(supplyCategory string) func(Input, entry.Fields) {
	return func(in Input, fields entry.Fields) {
		fields["severity"] = Severity(in.Text)
		fields["category"] = Category(in.Text, supplyCategory)
	}
}

func deriveFuel(in Input, fields entry.Fields) {
	fields["vehicle"] = Vehicle(in.Text)
	if m := litersPattern.FindStringSubmatch(strings.ToLower(in.Text)); m != nil {
		fields["liters"] = m[1]
	}
}

func deriveTask(in Input, fields entry.Fields) {
	lowered := strings.ToLower(in.Text)
	if strings.Contains(lowered, "assign") {
		if name, ok := Assignee(in.Text); ok {
			fields["assigned_to"] = name
		} else {
			delete(fields, "assigned_to")
		}
	}
	if deadline, err := datemath.ResolveMention(in.Text, in.Today); err == nil {
		fields["deadline"] = deadline.Format(entry.DateLayout)
	}
}

// fillDescription moves task_title into description, else uses the segment.
func fillDescription(fields entry.Fields, text string) {
	if title := fields.String("task_title"); title != "" {
		fields["description"] = title
		delete(fields, "task_title")
		return
	}
	fields["description"] = strings.TrimSpace(text)
}
