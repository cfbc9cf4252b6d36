package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcc-event-hub/web-gateway/internal/session"
)

// Context keys set by RequireSession for downstream handlers.
const (
	ctxSessionID = "session_id"
	ctxToken     = "session_token"
	ctxEmail     = "session_email"
)

// RequireSession gates admin pages: it resolves the session cookie to a
// stored token/email pair and redirects to the login page when either is
// missing. The hub remains the authority; a stale token still passes here
// and is caught by the first 401.
func RequireSession(store session.Store, codec *session.CookieCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticket, err := c.Cookie(session.CookieName)
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/admin")
			c.Abort()
			return
		}

		sid, err := codec.Parse(ticket)
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/admin")
			c.Abort()
			return
		}

		if !session.IsAuthenticated(c.Request.Context(), store, sid) {
			c.Redirect(http.StatusSeeOther, "/admin")
			c.Abort()
			return
		}

		token, _ := store.Token(c.Request.Context(), sid)
		email, _ := store.Email(c.Request.Context(), sid)
		c.Set(ctxSessionID, sid)
		c.Set(ctxToken, token)
		c.Set(ctxEmail, email)
		c.Next()
	}
}
