package models

import (
	"time"
)

// EventType distinguishes regular events from recurring office-hours slots.
type EventType string

const (
	TypeEvent       EventType = "event"
	TypeOfficeHours EventType = "office_hours"
)

// Event is a calendar entry as returned by the hub API. The ID is assigned
// server-side and is never produced by this client.
type Event struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Organization string    `json:"organization"`
	Type         EventType `json:"type"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// EventDraft is the body sent on create and update. Times must already be
// absolute UTC instants; description serializes as null when empty, matching
// what the hub API expects.
type EventDraft struct {
	Title        string    `json:"title"`
	Organization string    `json:"organization"`
	Type         EventType `json:"type"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Description  *string   `json:"description"`
}

// Admin is an account allowed to manage events and other admins.
type Admin struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session holds the credentials persisted between requests. Nothing else is
// kept client-side.
type Session struct {
	Token string `json:"admin_token"`
	Email string `json:"admin_email"`
}

// ChatMessage is one entry of the agenda-organizer transcript.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CalendarEntry is the tuple shape the calendar grid widget consumes.
type CalendarEntry struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
