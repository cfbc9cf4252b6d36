// Package forms implements the event create/edit form controller. Create
// and edit share one controller distinguished by mode; the only differences
// are the pre-populated fields and which hub call the submit issues.
package forms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/models"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// DateTimeLocal is the wall-clock layout of the datetime-local inputs.
const DateTimeLocal = "2006-01-02T15:04"

// ErrSubmitInFlight reports a second submit while one is outstanding. This
// mirrors a disabled submit button: it blocks the double-fire of a single
// click sequence, not deliberate repeated submissions.
var ErrSubmitInFlight = errors.New("submission already in flight")

// EventForm captures the form fields as entered. Times are wall-clock
// strings in the form's location until Draft converts them to instants.
type EventForm struct {
	Mode    Mode
	EventID string

	Title        string
	Organization string
	Type         models.EventType
	StartTime    string
	EndTime      string
	Description  string

	loc        *time.Location
	submitting bool
}

func NewCreateForm(loc *time.Location) *EventForm {
	return &EventForm{Mode: ModeCreate, Type: models.TypeEvent, loc: loc}
}

// NewEditForm pre-populates every field from an existing event. The stored
// instants are rendered back into the same datetime-local layout used for
// editing, in the same location Draft parses with, so an unedited round trip
// reproduces the original instants.
func NewEditForm(ev models.Event, loc *time.Location) *EventForm {
	f := &EventForm{
		Mode:         ModeEdit,
		EventID:      ev.ID,
		Title:        ev.Title,
		Organization: ev.Organization,
		Type:         ev.Type,
		StartTime:    FormatLocal(ev.StartTime, loc),
		EndTime:      FormatLocal(ev.EndTime, loc),
		Description:  ev.Description,
		loc:          loc,
	}
	if f.Type == "" {
		f.Type = models.TypeEvent
	}
	return f
}

// FormatLocal renders an instant as a datetime-local string in loc.
func FormatLocal(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateTimeLocal)
}

// Validate enforces requiredness only; anything stricter is the hub's job.
func (f *EventForm) Validate() error {
	switch {
	case f.Title == "":
		return errors.New("title is required")
	case f.Organization == "":
		return errors.New("organization is required")
	case f.StartTime == "":
		return errors.New("start time is required")
	case f.EndTime == "":
		return errors.New("end time is required")
	}
	return nil
}

// Draft converts the captured fields into the wire shape: wall-clock inputs
// parsed in the form's location and normalized to UTC instants, empty
// description sent as null, type defaulted to "event".
func (f *EventForm) Draft() (models.EventDraft, error) {
	if err := f.Validate(); err != nil {
		return models.EventDraft{}, err
	}

	start, err := time.ParseInLocation(DateTimeLocal, f.StartTime, f.loc)
	if err != nil {
		return models.EventDraft{}, fmt.Errorf("invalid start time %q: %w", f.StartTime, err)
	}
	end, err := time.ParseInLocation(DateTimeLocal, f.EndTime, f.loc)
	if err != nil {
		return models.EventDraft{}, fmt.Errorf("invalid end time %q: %w", f.EndTime, err)
	}

	draft := models.EventDraft{
		Title:        f.Title,
		Organization: f.Organization,
		Type:         f.Type,
		StartTime:    start.UTC(),
		EndTime:      end.UTC(),
	}
	if draft.Type == "" {
		draft.Type = models.TypeEvent
	}
	if f.Description != "" {
		desc := f.Description
		draft.Description = &desc
	}
	return draft, nil
}

// Submit sends the draft to the hub: create posts the draft, edit puts it
// under the event's ID with the bearer token. The in-flight guard re-enables
// on completion, success or failure.
func (f *EventForm) Submit(ctx context.Context, client *clients.HubClient, token string) error {
	if f.submitting {
		return ErrSubmitInFlight
	}
	f.submitting = true
	defer func() { f.submitting = false }()

	draft, err := f.Draft()
	if err != nil {
		return err
	}

	if f.Mode == ModeEdit {
		return client.UpdateEvent(ctx, token, f.EventID, draft)
	}
	return client.CreateEvent(ctx, draft)
}
