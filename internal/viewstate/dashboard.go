// Package viewstate assembles the per-page state the templates render. Each
// page load re-fetches from the hub; nothing here outlives a request.
package viewstate

import (
	"context"
	"errors"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/models"
)

// Dashboard is the admin dashboard's composite state: the events list and
// the admins list load independently, and each entity kind has its own
// delete selection so at most one confirmation dialog per kind is open.
type Dashboard struct {
	Email string

	Events    []models.Event
	EventsErr error

	Admins    []models.Admin
	AdminsErr error

	// Unauthorized is set when a privileged fetch came back 401; the caller
	// must clear the session and redirect to login.
	Unauthorized bool

	// Delete confirmations: the selected item or absent, never a boolean.
	DeletingEvent      *models.Event
	DeletingAdminEmail string

	AdminFormError string
	EventFormError string
}

// LoadDashboard runs both list fetches. A failure in one never blocks the
// other; each section renders its own error.
func LoadDashboard(ctx context.Context, client *clients.HubClient, token, email string) *Dashboard {
	d := &Dashboard{Email: email}

	evts, err := client.ListEvents(ctx, "")
	if err != nil {
		d.EventsErr = err
	} else {
		d.Events = evts
	}

	admins, err := client.ListAdmins(ctx, token)
	if err != nil {
		if errors.Is(err, clients.ErrUnauthorized) {
			d.Unauthorized = true
		}
		d.AdminsErr = err
	} else {
		d.Admins = admins
	}

	return d
}

// SelectEventForDeletion opens the confirmation dialog for one event out of
// the currently loaded list.
func (d *Dashboard) SelectEventForDeletion(id string) {
	for i := range d.Events {
		if d.Events[i].ID == id {
			d.DeletingEvent = &d.Events[i]
			return
		}
	}
	d.DeletingEvent = nil
}

// SelectAdminForDeletion opens the confirmation dialog for one admin. The
// current session's own email is never selectable.
func (d *Dashboard) SelectAdminForDeletion(email string) {
	if !d.CanRemoveAdmin(email) {
		d.DeletingAdminEmail = ""
		return
	}
	d.DeletingAdminEmail = email
}

// CanRemoveAdmin reports whether the remove affordance is enabled for the
// given admin. Self-deletion is blocked here as a UI affordance; the hub
// enforces it independently.
func (d *Dashboard) CanRemoveAdmin(email string) bool {
	return email != "" && email != d.Email
}
