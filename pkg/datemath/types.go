package datemath

import "errors"

// DateLayout is the calendar-date wire format used for every stored date.
const DateLayout = "2006-01-02"

// ErrUnrecognized is returned when a date string matches no known form.
var ErrUnrecognized = errors.New("unrecognized date")

// absoluteLayouts are tried in order. Day-first wins over month-first for slash dates.
var absoluteLayouts = []string{
	DateLayout,
	"02/01/2006",
	"01/02/2006",
	"2/1/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

var weekdays = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

// mentionOffsets are days after the Monday of the reference week.
// Order matters: the first phrase found in the text wins.
var mentionOffsets = []struct {
	phrase string
	offset int
}{
	{"friday", 4},
	{"next week", 7},
	{"monday", 7},
	{"tuesday", 8},
	{"wednesday", 9},
	{"thursday", 10},
	{"saturday", 5},
	{"sunday", 6},
}
