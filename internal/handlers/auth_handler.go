package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/session"
)

type AuthHandler struct {
	client *clients.HubClient
	store  session.Store
	codec  *session.CookieCodec
	logger *zap.Logger
}

func NewAuthHandler(client *clients.HubClient, store session.Store, codec *session.CookieCodec, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		client: client,
		store:  store,
		codec:  codec,
		logger: logger,
	}
}

// ShowLogin renders the admin login page. An already-authenticated session
// goes straight to the dashboard.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if ticket, err := c.Cookie(session.CookieName); err == nil {
		if sid, err := h.codec.Parse(ticket); err == nil {
			if session.IsAuthenticated(c.Request.Context(), h.store, sid) {
				c.Redirect(http.StatusSeeOther, "/admin/dashboard")
				return
			}
		}
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Email": ""})
}

// Login exchanges the submitted email for a hub token and opens a session.
// A 401 from the hub means the email is not allowlisted and is rendered as
// its own message, distinct from a connectivity failure.
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	if email == "" {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Error": "Please enter a valid email address",
			"Email": "",
		})
		return
	}

	resp, err := h.client.Login(c.Request.Context(), email)
	if err != nil {
		status := http.StatusBadGateway
		msg := "Failed to verify admin access. Please try again."
		if errors.Is(err, clients.ErrUnauthorized) {
			status = http.StatusUnauthorized
			msg = "Email not authorized. Contact an administrator."
		}
		c.HTML(status, "login.html", gin.H{"Error": msg, "Email": email})
		return
	}

	sid := session.NewSessionID()
	if err := h.store.Set(c.Request.Context(), sid, resp.Token, email); err != nil {
		h.logger.Error("Failed to persist session", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "Failed to verify admin access. Please try again.",
			"Email": email,
		})
		return
	}

	ticket, err := h.codec.Issue(sid)
	if err != nil {
		h.logger.Error("Failed to sign session ticket", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "Failed to verify admin access. Please try again.",
			"Email": email,
		})
		return
	}

	c.SetCookie(session.CookieName, ticket, 0, "/", "", false, true)
	h.logger.Info("Admin logged in", zap.String("email", email))
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// Logout clears the session and, best-effort, invalidates the hub token.
// The local session goes away regardless of the remote outcome.
func (h *AuthHandler) Logout(c *gin.Context) {
	if ticket, err := c.Cookie(session.CookieName); err == nil {
		if sid, err := h.codec.Parse(ticket); err == nil {
			if token, _ := h.store.Token(c.Request.Context(), sid); token != "" {
				if err := h.client.Logout(c.Request.Context(), token); err != nil {
					h.logger.Warn("Remote logout failed", zap.Error(err))
				}
			}
			if err := h.store.Clear(c.Request.Context(), sid); err != nil {
				h.logger.Error("Failed to clear session", zap.Error(err))
			}
		}
	}

	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/admin")
}

// expireSession tears down the current session after a 401 from the hub and
// sends the user back to login.
func expireSession(c *gin.Context, store session.Store, logger *zap.Logger) {
	if sid := c.GetString(ctxSessionID); sid != "" {
		if err := store.Clear(c.Request.Context(), sid); err != nil {
			logger.Error("Failed to clear session", zap.Error(err))
		}
	}
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/admin")
}
