package clients

import (
	"errors"
	"fmt"
)

// Outcome taxonomy for hub API calls. Callers branch on these four kinds and
// nothing else: ErrNetwork (request never completed), ErrUnauthorized (401),
// ValidationError (other 4xx, message shown verbatim), ServerError (anything
// else non-2xx).
var (
	ErrNetwork      = errors.New("hub api unreachable")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries the server-supplied message for a rejected
// request, e.g. a duplicate admin email. The message is displayed to the
// user as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ServerError covers every non-2xx status that is neither 401 nor a
// validation failure.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("hub api error: status %d", e.Status)
}
