package models

// Meeting is a calendar event as exported by the calendar client layer.
// Duration is in minutes. Participants is the attendee count used by
// numeric participant conditions; membership conditions test the union of
// required and optional attendee addresses.
type Meeting struct {
	Key               string   `json:"key"`
	Subject           string   `json:"subject"`
	Start             string   `json:"start"`
	End               string   `json:"end"`
	Duration          int      `json:"duration"`
	RequiredAttendees []string `json:"requiredAttendees"`
	OptionalAttendees []string `json:"optionalAttendees"`
	Participants      int      `json:"participants"`
	Organizer         string   `json:"organizer"`
}

// ClassifiedMeeting is a meeting that survived rule application, carrying
// the resolved issue key and effective duration in minutes.
type ClassifiedMeeting struct {
	Meeting
	IssueKey        string `json:"issueKey"`
	DurationMinutes int    `json:"durationMinutes"`
}
