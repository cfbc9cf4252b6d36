// Package events holds the in-memory event collection backing the current
// page view. The collection never outlives a page: every navigation and
// every successful mutation triggers a full re-fetch from the hub rather
// than a local patch.
package events

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/models"
)

// NormalizeOrgName derives the grouping key for an organization: all
// whitespace stripped, upper-cased. "BSU", " bsu " and "B S U" collapse to
// the same key. The display string is never replaced by this.
func NormalizeOrgName(name string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
	return strings.ToUpper(stripped)
}

// OrganizationList returns the filter choices for a set of events: "All"
// first, then the sorted unique normalized organization names. Recomputed
// on every refresh.
func OrganizationList(evts []models.Event) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, ev := range evts {
		key := NormalizeOrgName(ev.Organization)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			names = append(names, key)
		}
	}
	sort.Strings(names)
	return append([]string{"All"}, names...)
}

// FilterByOrganization keeps the events whose normalized organization
// matches the selection. "All" yields the full set.
func FilterByOrganization(evts []models.Event, selected string) []models.Event {
	if selected == "" || selected == "All" {
		return evts
	}
	want := NormalizeOrgName(selected)
	var out []models.Event
	for _, ev := range evts {
		if NormalizeOrgName(ev.Organization) == want {
			out = append(out, ev)
		}
	}
	return out
}

// Store is the view's event collection plus its derived organization list.
type Store struct {
	client *clients.HubClient

	events []models.Event
	orgs   []string
}

func NewStore(client *clients.HubClient) *Store {
	return &Store{client: client}
}

// Refresh replaces the collection with a fresh fetch. Type filtering is the
// hub's job via the query parameter; the store never re-filters by type
// locally.
func (s *Store) Refresh(ctx context.Context, eventType models.EventType) error {
	evts, err := s.client.ListEvents(ctx, eventType)
	if err != nil {
		return err
	}
	s.events = evts
	s.orgs = OrganizationList(evts)
	return nil
}

func (s *Store) Events() []models.Event {
	return s.events
}

func (s *Store) Organizations() []string {
	return s.orgs
}

// Filtered returns the current events restricted to one organization.
func (s *Store) Filtered(selected string) []models.Event {
	return FilterByOrganization(s.events, selected)
}

// CalendarEntries projects events onto the tuple shape the calendar grid
// widget consumes.
func CalendarEntries(evts []models.Event) []models.CalendarEntry {
	entries := make([]models.CalendarEntry, 0, len(evts))
	for _, ev := range evts {
		entries = append(entries, models.CalendarEntry{
			ID:    ev.ID,
			Title: ev.Title,
			Start: ev.StartTime,
			End:   ev.EndTime,
		})
	}
	return entries
}
