package forms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mcc-event-hub/web-gateway/internal/models"
)

var pacific = time.FixedZone("PST", -8*3600)

func TestDraftConvertsLocalWallClockToUTC(t *testing.T) {
	f := NewCreateForm(pacific)
	f.Title = "BSU General Meeting"
	f.Organization = "BSU"
	f.StartTime = "2026-02-01T09:00"
	f.EndTime = "2026-02-01T10:00"

	draft, err := f.Draft()
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}

	wantStart := time.Date(2026, 2, 1, 17, 0, 0, 0, time.UTC)
	if !draft.StartTime.Equal(wantStart) {
		t.Errorf("start = %v, want %v", draft.StartTime, wantStart)
	}
	if !draft.StartTime.Before(draft.EndTime) {
		t.Errorf("start %v not before end %v", draft.StartTime, draft.EndTime)
	}
	if draft.StartTime.Location() != time.UTC {
		t.Errorf("start not normalized to UTC: %v", draft.StartTime.Location())
	}
}

func TestEditRoundTripPreservesInstants(t *testing.T) {
	// Editing without touching a field must resubmit the same instants:
	// instant -> datetime-local string -> instant through one location.
	ev := models.Event{
		ID:           "e1",
		Title:        "NASU Cultural Night",
		Organization: "NASU",
		Type:         models.TypeEvent,
		StartTime:    time.Date(2026, 2, 1, 17, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2026, 2, 1, 19, 30, 0, 0, time.UTC),
	}

	f := NewEditForm(ev, pacific)
	if f.StartTime != "2026-02-01T09:00" {
		t.Errorf("rendered start = %q", f.StartTime)
	}

	draft, err := f.Draft()
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if !draft.StartTime.Equal(ev.StartTime) {
		t.Errorf("start drifted: %v -> %v", ev.StartTime, draft.StartTime)
	}
	if !draft.EndTime.Equal(ev.EndTime) {
		t.Errorf("end drifted: %v -> %v", ev.EndTime, draft.EndTime)
	}
}

func TestEditFormPopulatesAllFields(t *testing.T) {
	desc := "Annual celebration"
	ev := models.Event{
		ID:           "e2",
		Title:        "NASU Cultural Night",
		Organization: "NASU",
		Type:         models.TypeOfficeHours,
		StartTime:    time.Date(2026, 2, 1, 17, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2026, 2, 1, 19, 0, 0, 0, time.UTC),
		Description:  desc,
	}

	f := NewEditForm(ev, pacific)
	if f.Mode != ModeEdit || f.EventID != "e2" {
		t.Errorf("mode/id = %v/%q", f.Mode, f.EventID)
	}
	if f.Title != ev.Title || f.Organization != ev.Organization || f.Description != desc {
		t.Errorf("fields not populated: %+v", f)
	}
	if f.Type != models.TypeOfficeHours {
		t.Errorf("type = %v", f.Type)
	}
}

func TestValidateRequiredness(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*EventForm)
	}{
		{"missing title", func(f *EventForm) { f.Title = "" }},
		{"missing organization", func(f *EventForm) { f.Organization = "" }},
		{"missing start", func(f *EventForm) { f.StartTime = "" }},
		{"missing end", func(f *EventForm) { f.EndTime = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := NewCreateForm(pacific)
			f.Title = "t"
			f.Organization = "o"
			f.StartTime = "2026-02-01T09:00"
			f.EndTime = "2026-02-01T10:00"
			tc.mutate(f)

			if _, err := f.Draft(); err == nil {
				t.Error("Draft accepted an incomplete form")
			}
		})
	}
}

func TestDraftDescriptionNullWhenEmpty(t *testing.T) {
	f := NewCreateForm(pacific)
	f.Title = "t"
	f.Organization = "o"
	f.StartTime = "2026-02-01T09:00"
	f.EndTime = "2026-02-01T10:00"

	draft, err := f.Draft()
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if draft.Description != nil {
		t.Errorf("empty description should serialize as null, got %v", *draft.Description)
	}

	f.Description = "snacks provided"
	draft, err = f.Draft()
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if draft.Description == nil || *draft.Description != "snacks provided" {
		t.Errorf("description = %v", draft.Description)
	}
}

func TestDraftDefaultsTypeToEvent(t *testing.T) {
	f := NewCreateForm(pacific)
	f.Title = "t"
	f.Organization = "o"
	f.Type = ""
	f.StartTime = "2026-02-01T09:00"
	f.EndTime = "2026-02-01T10:00"

	draft, err := f.Draft()
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if draft.Type != models.TypeEvent {
		t.Errorf("type = %v, want %v", draft.Type, models.TypeEvent)
	}
}

func TestDraftRejectsMalformedTimes(t *testing.T) {
	f := NewCreateForm(pacific)
	f.Title = "t"
	f.Organization = "o"
	f.StartTime = "02/01/2026 9am"
	f.EndTime = "2026-02-01T10:00"

	if _, err := f.Draft(); err == nil {
		t.Error("Draft accepted a malformed start time")
	}
}

func TestSubmitWhileInFlightRejected(t *testing.T) {
	f := NewCreateForm(pacific)
	f.Title = "BSU General Meeting"
	f.Organization = "BSU"
	f.StartTime = "2026-02-01T09:00"
	f.EndTime = "2026-02-01T10:00"

	// A submission already outstanding: the second Submit returns before
	// building a draft or touching the client.
	f.submitting = true
	if err := f.Submit(context.Background(), nil, ""); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("err = %v, want ErrSubmitInFlight", err)
	}
}
