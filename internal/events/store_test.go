package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/models"
)

func TestNormalizeOrgNameCollapsesCaseAndWhitespace(t *testing.T) {
	variants := []string{"BSU", "bsu", " BSU ", "B S U", "b\ts\nu"}
	want := NormalizeOrgName(variants[0])
	for _, v := range variants {
		if got := NormalizeOrgName(v); got != want {
			t.Errorf("NormalizeOrgName(%q) = %q, want %q", v, got, want)
		}
	}
	if want != "BSU" {
		t.Errorf("normalized form = %q, want BSU", want)
	}
}

func TestOrganizationListSortedUniqueWithAllFirst(t *testing.T) {
	evts := []models.Event{
		{Organization: "NASU"},
		{Organization: " nasu"},
		{Organization: "BSU"},
		{Organization: "MEChA"},
	}

	got := OrganizationList(evts)
	want := []string{"All", "BSU", "MECHA", "NASU"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OrganizationList = %v, want %v", got, want)
	}
}

func TestFilterByOrganizationAllIsIdentity(t *testing.T) {
	evts := []models.Event{{Organization: "BSU"}, {Organization: "NASU"}}
	if got := FilterByOrganization(evts, "All"); !reflect.DeepEqual(got, evts) {
		t.Errorf("filter All changed the set: %v", got)
	}
	if got := FilterByOrganization(evts, ""); !reflect.DeepEqual(got, evts) {
		t.Errorf("empty selection changed the set: %v", got)
	}
}

func TestFilterByOrganizationMatchesNormalized(t *testing.T) {
	evts := []models.Event{
		{ID: "1", Organization: "BSU"},
		{ID: "2", Organization: " b s u "},
		{ID: "3", Organization: "NASU"},
	}

	got := FilterByOrganization(evts, "bsu")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("filtered = %+v", got)
	}
}

func TestRefreshDelegatesTypeFilterToServer(t *testing.T) {
	// The store must pass the type through and never re-filter locally:
	// whatever the server returns is the view's collection.
	var gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.URL.Query().Get("type")
		json.NewEncoder(w).Encode([]models.Event{
			{ID: "1", Organization: "BSU", Type: models.TypeOfficeHours},
			{ID: "2", Organization: "NASU", Type: models.TypeEvent},
		})
	}))
	defer srv.Close()

	store := NewStore(clients.NewHubClient(srv.URL, zap.NewNop()))
	if err := store.Refresh(context.Background(), models.TypeOfficeHours); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if gotType != "office_hours" {
		t.Errorf("type param = %q", gotType)
	}
	if len(store.Events()) != 2 {
		t.Errorf("store re-filtered locally: %+v", store.Events())
	}
	if want := []string{"All", "BSU", "NASU"}; !reflect.DeepEqual(store.Organizations(), want) {
		t.Errorf("organizations = %v, want %v", store.Organizations(), want)
	}
}

func TestCalendarEntriesProjection(t *testing.T) {
	start := time.Date(2026, 2, 1, 17, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	evts := []models.Event{{
		ID:           "e1",
		Title:        "BSU General Meeting",
		Organization: "BSU",
		StartTime:    start,
		EndTime:      end,
		Description:  "dropped from the projection",
	}}

	entries := CalendarEntries(evts)
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	want := models.CalendarEntry{ID: "e1", Title: "BSU General Meeting", Start: start, End: end}
	if entries[0] != want {
		t.Errorf("entry = %+v, want %+v", entries[0], want)
	}
}
