package usecase

import (
	"fmt"
	"strings"

	"station-ops-bot/internal/entry"
)

// Replies for messages that produced no records.
const (
	ReplyNothingToProcess = "❌ Nothing to process. Send an expense, fuel log, task or issue, or /help for examples."
	ReplyNoEntries        = "❌ No entries were successfully processed. Please check your format and try again."
)

// FormatConfirmation builds the single reply for one message.
func FormatConfirmation(stored []entry.StoredEntry) string {
	switch len(stored) {
	case 0:
		return ReplyNoEntries
	case 1:
		return fmt.Sprintf("✅ %s (Record ID: %s)", describe(stored[0].Entry), stored[0].RecordID)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Successfully logged %d entries:", len(stored))
	for i, s := range stored {
		fmt.Fprintf(&sb, "\n%d. %s (ID: %s)", i+1, s.Entry.Summary(), s.RecordID)
	}
	return sb.String()
}

// describe is the full sentence used for a single stored entry.
func describe(e entry.ParsedEntry) string {
	switch e.Type {
	case entry.TypeExpense:
		return fmt.Sprintf("Logged expense: %s MWK for %s.", entry.FormatAmount(e.Amount), e.Description)
	case entry.TypeFuel:
		driver := ""
		if e.Driver != "" {
			driver = fmt.Sprintf(" (%s)", e.Driver)
		}
		return fmt.Sprintf("Logged fuel: %sL for %s%s.", e.Liters.Decimal.String(), e.Vehicle, driver)
	case entry.TypeTask:
		return fmt.Sprintf("Logged task: %s (Status: %s).", e.TaskTitle, e.Status)
	case entry.TypeIssue:
		return fmt.Sprintf("Logged issue: %s (Severity: %s).", e.Description, e.Severity)
	}
	return fmt.Sprintf("Logged %s.", strings.ToLower(string(e.Type)))
}
