package model

import (
	"fmt"
	"time"
)

// DefaultMeetingMinutes is used when the analysis omits a duration.
const DefaultMeetingMinutes = 60

// AnalysisResult is the AI enrichment for one message. It lives only
// as long as the message stays open.
type AnalysisResult struct {
	Summary          string `json:"summary"`
	SuggestedLabel   string `json:"suggested_label,omitempty"`
	SuggestedReply   string `json:"suggested_reply,omitempty"`
	MeetingDetected  bool   `json:"meeting_detected"`
	ProposedDatetime string `json:"proposed_datetime,omitempty"`
	DurationMinutes  int    `json:"duration_minutes,omitempty"`
}

// HasMeeting reports whether a meeting was detected with a usable start.
func (a AnalysisResult) HasMeeting() bool {
	return a.MeetingDetected && a.ProposedDatetime != ""
}

// MeetingDuration returns the proposed duration, defaulting to an hour.
func (a AnalysisResult) MeetingDuration() int {
	if a.DurationMinutes <= 0 {
		return DefaultMeetingMinutes
	}
	return a.DurationMinutes
}

var meetingLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// MeetingStart parses ProposedDatetime. Values without a zone are read
// in the local zone.
func (a AnalysisResult) MeetingStart() (time.Time, error) {
	for _, layout := range meetingLayouts {
		if t, err := time.ParseInLocation(layout, a.ProposedDatetime, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized meeting datetime %q", a.ProposedDatetime)
}

// MeetingLabel formats the proposed meeting as "Mon 2 Jan, 15:04 · 60 min".
// It returns "" when no meeting is available or the date does not parse.
func (a AnalysisResult) MeetingLabel() string {
	if !a.HasMeeting() {
		return ""
	}
	start, err := a.MeetingStart()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s · %d min", start.Format("Mon 2 Jan, 15:04"), a.MeetingDuration())
}

// MeetingRequest is the body sent to create a calendar event.
type MeetingRequest struct {
	Title           string   `json:"title"`
	StartDatetime   string   `json:"start_datetime"`
	DurationMinutes int      `json:"duration_minutes"`
	Attendees       []string `json:"attendees"`
}
