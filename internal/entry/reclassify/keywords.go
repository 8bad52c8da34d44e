package reclassify

import (
	"regexp"
	"strings"

	"station-ops-bot/internal/entry"
)

// Keyword groups, matched as case-insensitive substrings.
var (
	FuelWords      = []string{"liters", "fuel", "diesel", "petrol", "gas", "hilux", "prado", "vehicle", "car"}
	FuelUsageWords = []string{"liters", "used", "gave", "refueled"}
	ExpenseWords   = []string{"spent", "paid", "cost", "mwk", "money", "cash", "expense"}
	TaskWords      = []string{"assign", "task", "todo", "deadline", "prepare", "inspect", "check", "review", "complete", "finish"}
	IssueWords     = []string{
		"problem", "issue", "broken", "malfunction", "urgent", "critical", "emergency", "complaint", "fault",
		"running low", "shortage", "out of stock", "ran out",
	}

	highSeverityWords   = []string{"urgent", "critical", "emergency"}
	mediumSeverityWords = []string{"important", "priority"}

	equipmentWords = []string{"equipment", "machine", "compressor", "generator"}
	supplyWords    = []string{"fuel", "supply", "material"}
	complaintWords = []string{"complaint", "customer", "service"}
)

var (
	litersPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*liters?`)
	assignPattern = regexp.MustCompile(`assign\s+(\w+)`)
)

// containsAny reports whether lowered contains any of words.
func containsAny(lowered string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lowered, w) {
			return true
		}
	}
	return false
}

// Severity derives an issue severity from the segment text.
func Severity(text string) string {
	lowered := strings.ToLower(text)
	switch {
	case containsAny(lowered, highSeverityWords):
		return entry.SeverityHigh
	case containsAny(lowered, mediumSeverityWords):
		return entry.SeverityMedium
	default:
		return entry.SeverityLow
	}
}

// Category derives an issue category from the segment text. supply is the
// category used for the fuel/supply/material group.
func Category(text, supply string) string {
	lowered := strings.ToLower(text)
	switch {
	case containsAny(lowered, equipmentWords):
		return entry.CategoryEquipment
	case containsAny(lowered, supplyWords):
		return supply
	case containsAny(lowered, complaintWords):
		return entry.CategoryComplaint
	default:
		return entry.CategoryOther
	}
}

// Vehicle maps the segment text onto the vehicle vocabulary.
func Vehicle(text string) string {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "hilux"):
		return entry.VehicleHilux
	case strings.Contains(lowered, "prado"):
		return entry.VehiclePrado
	default:
		return entry.VehicleOther
	}
}

// Assignee extracts the name following "assign", title-cased.
func Assignee(text string) (string, bool) {
	m := assignPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1][:1]) + m[1][1:], true
}
