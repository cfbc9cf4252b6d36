package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/events"
	"github.com/mcc-event-hub/web-gateway/internal/forms"
	"github.com/mcc-event-hub/web-gateway/internal/models"
	"github.com/mcc-event-hub/web-gateway/internal/session"
	"github.com/mcc-event-hub/web-gateway/internal/viewstate"
)

type EventHandler struct {
	client *clients.HubClient
	store  session.Store
	loc    *time.Location
	logger *zap.Logger
}

func NewEventHandler(client *clients.HubClient, store session.Store, loc *time.Location, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		client: client,
		store:  store,
		loc:    loc,
		logger: logger,
	}
}

// formFromRequest captures the posted fields into the shared form
// controller. Create and edit submit the same field names.
func (h *EventHandler) formFromRequest(c *gin.Context, mode forms.Mode, eventID string) *forms.EventForm {
	var f *forms.EventForm
	if mode == forms.ModeEdit {
		f = forms.NewEditForm(models.Event{ID: eventID}, h.loc)
	} else {
		f = forms.NewCreateForm(h.loc)
	}
	f.Title = c.PostForm("title")
	f.Organization = c.PostForm("organization")
	f.StartTime = c.PostForm("start_time")
	f.EndTime = c.PostForm("end_time")
	f.Description = c.PostForm("description")
	if t := c.PostForm("type"); t != "" {
		f.Type = models.EventType(t)
	}
	return f
}

// CreateEvent handles the public create form. On failure the calendar page
// re-renders with the modal open and the error inline, keeping the entered
// values for correction; on success it redirects back, which re-fetches the
// whole list.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	f := h.formFromRequest(c, forms.ModeCreate, "")

	if err := f.Submit(c.Request.Context(), h.client, ""); err != nil {
		h.logger.Error("Failed to create event", zap.Error(err))
		p := viewstate.LoadCalendarPage(c.Request.Context(), h.client, c.PostForm("org"), models.EventType(c.PostForm("view_type")))
		p.ShowCreate = true
		p.Form = f
		p.FormError = submitErrorMessage(err, "Failed to create event")
		c.HTML(http.StatusOK, "index.html", p)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// ShowEdit renders the edit form pre-populated from a fresh fetch of the
// event. Stored instants come back out in the same datetime-local layout
// the form parses, so saving untouched fields keeps the same instants.
func (h *EventHandler) ShowEdit(c *gin.Context) {
	ev, err := h.client.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to fetch event for editing", zap.Error(err))
		c.HTML(http.StatusBadGateway, "edit_event.html", gin.H{
			"Error": "Failed to load event. Please try again.",
		})
		return
	}

	c.HTML(http.StatusOK, "edit_event.html", gin.H{
		"Form": forms.NewEditForm(*ev, h.loc),
	})
}

// UpdateEvent submits the edit form with the session's bearer token. A 401
// expires the session and returns the user to login.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	f := h.formFromRequest(c, forms.ModeEdit, c.Param("id"))

	token := c.GetString(ctxToken)
	if err := f.Submit(c.Request.Context(), h.client, token); err != nil {
		if errors.Is(err, clients.ErrUnauthorized) {
			expireSession(c, h.store, h.logger)
			return
		}
		h.logger.Error("Failed to update event", zap.String("event_id", f.EventID), zap.Error(err))
		c.HTML(http.StatusOK, "edit_event.html", gin.H{
			"Form":  f,
			"Error": submitErrorMessage(err, "Failed to update event"),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// DeleteEvent removes the selected event and redirects back to the
// dashboard, whose render re-fetches both lists.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id := c.Param("id")
	token := c.GetString(ctxToken)

	if err := h.client.DeleteEvent(c.Request.Context(), token, id); err != nil {
		if errors.Is(err, clients.ErrUnauthorized) {
			expireSession(c, h.store, h.logger)
			return
		}
		h.logger.Error("Failed to delete event", zap.String("event_id", id), zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/admin/dashboard?event_error=delete")
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// CalendarFeed serves the {id, title, start, end} tuples the calendar grid
// widget consumes. Takes the same org and type parameters as the calendar
// page; type restriction is forwarded to the hub untouched.
func (h *EventHandler) CalendarFeed(c *gin.Context) {
	evts, err := h.client.ListEvents(c.Request.Context(), models.EventType(c.Query("type")))
	if err != nil {
		h.logger.Error("Failed to load calendar feed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to retrieve events"})
		return
	}

	c.JSON(http.StatusOK, events.CalendarEntries(events.FilterByOrganization(evts, c.Query("org"))))
}

// submitErrorMessage picks what the user sees: server validation messages
// verbatim, everything else a generic retry prompt.
func submitErrorMessage(err error, generic string) string {
	var verr *clients.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var serr *clients.ServerError
	if errors.Is(err, clients.ErrNetwork) || errors.As(err, &serr) {
		return generic + ". Please try again."
	}
	// local form errors (requiredness, unparseable datetimes) read fine as-is
	return err.Error()
}
