package gcalendar

import "time"

// AllDayEventRequest is the input for an all-day reminder on a single date.
type AllDayEventRequest struct {
	CalendarID  string
	Summary     string
	Description string
	Date        time.Time
}

// Event is a simplified representation of a created calendar event.
type Event struct {
	ID       string
	Summary  string
	HtmlLink string
	Date     string
}
