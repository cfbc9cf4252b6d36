package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/models"
	"github.com/mcc-event-hub/web-gateway/internal/viewstate"
)

// PageHandler renders the public pages.
type PageHandler struct {
	client *clients.HubClient
	logger *zap.Logger
}

func NewPageHandler(client *clients.HubClient, logger *zap.Logger) *PageHandler {
	return &PageHandler{client: client, logger: logger}
}

// Index is the public calendar: events fetched fresh per load, restricted
// by the org filter locally and by the type filter at the hub.
func (h *PageHandler) Index(c *gin.Context) {
	p := viewstate.LoadCalendarPage(
		c.Request.Context(),
		h.client,
		c.Query("org"),
		models.EventType(c.Query("view_type")),
	)
	if p.LoadErr != nil {
		h.logger.Error("Failed to load events for calendar page", zap.Error(p.LoadErr))
	}
	if c.Query("create") == "1" {
		p.ShowCreate = true
	}

	c.HTML(http.StatusOK, "index.html", p)
}

// EventDetail shows a single event.
func (h *PageHandler) EventDetail(c *gin.Context) {
	ev, err := h.client.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to fetch event", zap.String("event_id", c.Param("id")), zap.Error(err))
		c.HTML(http.StatusNotFound, "event_detail.html", gin.H{
			"Error": "Event not found.",
		})
		return
	}

	c.HTML(http.StatusOK, "event_detail.html", gin.H{"Event": ev})
}

// AgendaPage renders the agenda organizer chat with its seeded greeting.
// The transcript itself lives in the browser; each turn round-trips through
// the chat endpoint.
func (h *PageHandler) AgendaPage(c *gin.Context) {
	c.HTML(http.StatusOK, "agenda.html", gin.H{
		"Greeting": "Give me your meeting topics and I'll organize them. Just list what you need to cover!",
	})
}

// Health is the liveness endpoint.
func (h *PageHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
