package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/events"
	"github.com/mcc-event-hub/web-gateway/internal/models"
)

// ICalHandler serves the calendar as an iCalendar feed, so "Add to
// Calendar" works against any calendar client.
type ICalHandler struct {
	client *clients.HubClient
	logger *zap.Logger
}

func NewICalHandler(client *clients.HubClient, logger *zap.Logger) *ICalHandler {
	return &ICalHandler{client: client, logger: logger}
}

// Feed renders the current events as VCALENDAR. Supports the same org and
// type restrictions as the calendar page.
func (h *ICalHandler) Feed(c *gin.Context) {
	evts, err := h.client.ListEvents(c.Request.Context(), models.EventType(c.Query("type")))
	if err != nil {
		h.logger.Error("Failed to load events for ics feed", zap.Error(err))
		c.String(http.StatusBadGateway, "calendar unavailable")
		return
	}
	evts = events.FilterByOrganization(evts, c.Query("org"))

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//MCC Event Hub//EN")

	for _, ev := range evts {
		cal.Children = append(cal.Children, toComponent(ev))
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		h.logger.Error("Failed to encode ics feed", zap.Error(err))
		c.String(http.StatusInternalServerError, "calendar unavailable")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="mcc-events.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func toComponent(ev models.Event) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, ev.ID+"@mcc-event-hub")
	ve.Props.SetText(ical.PropSummary, ev.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, ev.StartTime)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, ev.EndTime)

	if ev.Description != "" {
		ve.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Organization != "" {
		ve.Props.SetText(ical.PropCategories, ev.Organization)
	}
	return ve
}
