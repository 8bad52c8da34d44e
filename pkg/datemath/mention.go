package datemath

import (
	"strings"
	"time"
)

// ResolveMention finds the first relative deadline phrase in free text
// ("by Friday", "next week", "on Tuesday") and resolves it against now in
// the parser's timezone.
func (p *Parser) ResolveMention(text string, now time.Time) (time.Time, error) {
	return ResolveMention(text, now.In(p.location))
}

// ResolveMention resolves a relative deadline phrase against now, in now's location.
//
// Offsets are counted from the Monday of now's week. A result that is not
// after today rolls forward one week, so a mention never resolves to the past.
func ResolveMention(text string, now time.Time) (time.Time, error) {
	lower := strings.ToLower(text)

	for _, m := range mentionOffsets {
		if !strings.Contains(lower, m.phrase) {
			continue
		}

		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		sinceMonday := (int(today.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -sinceMonday)

		resolved := monday.AddDate(0, 0, m.offset)
		if !resolved.After(today) {
			resolved = resolved.AddDate(0, 0, 7)
		}
		return resolved, nil
	}

	return time.Time{}, ErrUnrecognized
}
