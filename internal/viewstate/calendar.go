package viewstate

import (
	"context"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/events"
	"github.com/mcc-event-hub/web-gateway/internal/forms"
	"github.com/mcc-event-hub/web-gateway/internal/models"
)

// CalendarPage is the public calendar view: the fetched events restricted by
// the selected organization, the filter choices derived from the full set,
// and the optional create-event modal.
type CalendarPage struct {
	SelectedOrg  string
	SelectedType models.EventType

	Events        []models.Event
	Organizations []string
	Entries       []models.CalendarEntry

	LoadErr error

	ShowCreate bool
	Form       *forms.EventForm
	FormError  string
}

// LoadCalendarPage fetches the view's events. The type restriction goes to
// the hub as a query parameter; the organization filter is applied locally
// over the fetched set.
func LoadCalendarPage(ctx context.Context, client *clients.HubClient, selectedOrg string, selectedType models.EventType) *CalendarPage {
	p := &CalendarPage{
		SelectedOrg:  selectedOrg,
		SelectedType: selectedType,
	}
	if p.SelectedOrg == "" {
		p.SelectedOrg = "All"
	}

	store := events.NewStore(client)
	if err := store.Refresh(ctx, selectedType); err != nil {
		p.LoadErr = err
		return p
	}

	p.Organizations = store.Organizations()
	p.Events = store.Filtered(p.SelectedOrg)
	p.Entries = events.CalendarEntries(p.Events)
	return p
}
