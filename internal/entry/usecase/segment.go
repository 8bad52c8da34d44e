package usecase

import "strings"

// Segment splits raw text on ';' into trimmed, non-empty pieces in order.
// Text without ';' is a single segment.
func Segment(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if !strings.Contains(trimmed, ";") {
		return []string{trimmed}
	}

	parts := strings.Split(trimmed, ";")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
