// Package session holds the admin credentials between requests. Exactly two
// values are persisted, the bearer token and the admin email, under the same
// fixed keys every backend uses. Nothing else survives a page load.
package session

import (
	"context"
)

// Fixed storage keys, shared by all backends.
const (
	KeyToken = "admin_token"
	KeyEmail = "admin_email"
)

// Store persists one session's token and email. sid addresses the session;
// single-user backends may ignore it.
type Store interface {
	// Set persists both values. There is no partial-write recovery: storage
	// is single-writer from the caller's perspective.
	Set(ctx context.Context, sid, token, email string) error
	// Token returns the stored bearer token, or "" when absent.
	Token(ctx context.Context, sid string) (string, error)
	// Email returns the stored admin email, or "" when absent.
	Email(ctx context.Context, sid string) (string, error)
	// Clear removes both values.
	Clear(ctx context.Context, sid string) error
}

// IsAuthenticated reports whether both token and email are present. No
// signature or expiry validation happens here; the hub is the authority and
// answers 401 when the token has gone stale.
func IsAuthenticated(ctx context.Context, s Store, sid string) bool {
	token, err := s.Token(ctx, sid)
	if err != nil || token == "" {
		return false
	}
	email, err := s.Email(ctx, sid)
	return err == nil && email != ""
}

// AuthHeaders builds the headers attached to every admin-privileged hub
// request. An absent token still yields a header ("Bearer null"); callers
// must gate on IsAuthenticated where a guard is required, not on this.
func AuthHeaders(token string) map[string]string {
	if token == "" {
		token = "null"
	}
	return map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  "application/json",
	}
}
