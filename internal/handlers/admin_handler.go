package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/session"
	"github.com/mcc-event-hub/web-gateway/internal/viewstate"
)

// AdminHandler covers the admin-allowlist management on the dashboard.
type AdminHandler struct {
	client *clients.HubClient
	store  session.Store
	logger *zap.Logger
}

func NewAdminHandler(client *clients.HubClient, store session.Store, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Dashboard renders the composite admin view. Events and admins load
// independently; one failing leaves the other section intact. Delete
// selections arrive as query parameters so exactly one confirmation per
// entity kind can be open.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	token := c.GetString(ctxToken)
	email := c.GetString(ctxEmail)

	d := viewstate.LoadDashboard(c.Request.Context(), h.client, token, email)
	if d.Unauthorized {
		expireSession(c, h.store, h.logger)
		return
	}

	if id := c.Query("delete_event"); id != "" {
		d.SelectEventForDeletion(id)
	}
	if email := c.Query("delete_admin"); email != "" {
		d.SelectAdminForDeletion(email)
	}
	if c.Query("event_error") == "delete" {
		d.EventFormError = "Failed to delete event. Please try again."
	}
	if msg := c.Query("admin_error"); msg != "" {
		d.AdminFormError = msg
	}

	c.HTML(http.StatusOK, "dashboard.html", d)
}

// AddAdmin submits a new allowlist email. Hub validation messages (e.g. a
// duplicate email) surface verbatim next to the form.
func (h *AdminHandler) AddAdmin(c *gin.Context) {
	var req struct {
		Email string `form:"email" binding:"required,email"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusSeeOther, "/admin/dashboard?admin_error="+url.QueryEscape("Please enter a valid email address"))
		return
	}

	token := c.GetString(ctxToken)
	if err := h.client.AddAdmin(c.Request.Context(), token, req.Email); err != nil {
		if errors.Is(err, clients.ErrUnauthorized) {
			expireSession(c, h.store, h.logger)
			return
		}
		h.logger.Error("Failed to add admin", zap.String("email", req.Email), zap.Error(err))
		msg := submitErrorMessage(err, "Failed to add admin")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard?admin_error="+url.QueryEscape(msg))
		return
	}

	h.logger.Info("Admin added", zap.String("email", req.Email))
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// RemoveAdmin deletes an allowlist entry. Removing the session's own email
// is refused here before the hub ever sees it; the hub enforces the same
// rule server-side.
func (h *AdminHandler) RemoveAdmin(c *gin.Context) {
	target := c.PostForm("email")
	email := c.GetString(ctxEmail)

	if target == "" || target == email {
		c.Redirect(http.StatusSeeOther, "/admin/dashboard?admin_error="+url.QueryEscape("You cannot remove yourself as an admin"))
		return
	}

	token := c.GetString(ctxToken)
	if err := h.client.RemoveAdmin(c.Request.Context(), token, target); err != nil {
		if errors.Is(err, clients.ErrUnauthorized) {
			expireSession(c, h.store, h.logger)
			return
		}
		h.logger.Error("Failed to remove admin", zap.String("email", target), zap.Error(err))
		msg := submitErrorMessage(err, "Failed to remove admin")
		c.Redirect(http.StatusSeeOther, "/admin/dashboard?admin_error="+url.QueryEscape(msg))
		return
	}

	h.logger.Info("Admin removed", zap.String("email", target))
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}
