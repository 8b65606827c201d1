package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for catalog and library operations
var (
	// ErrUnauthenticated indicates no access token is held; the call was not sent
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrNetwork indicates a transport-level failure; cached state is untouched
	ErrNetwork = errors.New("backend is unreachable")

	// ErrDecode indicates the response body did not match the expected shape
	ErrDecode = errors.New("malformed response body")
)

// ServerError is a non-2xx backend response with the best-effort reason
// extracted from the body.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error %d", e.Status)
}

// NewServerError builds a ServerError from a response body, pulling the
// message out of whichever field the backend used for it.
func NewServerError(status int, body []byte) *ServerError {
	e := &ServerError{Status: status}
	var payload map[string]any
	if json.Unmarshal(body, &payload) != nil {
		return e
	}
	for _, key := range []string{"message", "error", "error_description"} {
		if msg, ok := payload[key].(string); ok && msg != "" {
			e.Message = msg
			break
		}
	}
	return e
}
