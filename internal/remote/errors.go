package remote

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is the error envelope returned by the remote service.
type Error struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Code, e.Type)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

// AsError extracts the remote envelope from err's chain.
func AsError(err error) (*Error, bool) {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr, true
	}
	return nil, false
}

// IsSchemaMismatch reports whether err says a document did not fit the
// collection's attributes.
func IsSchemaMismatch(err error) bool {
	if err == nil {
		return false
	}
	if rerr, ok := AsError(err); ok && rerr.Type == "document_invalid_structure" {
		return true
	}
	return strings.Contains(err.Error(), "Unknown attribute")
}

// IsSessionError reports whether err looks like a missing, expired or
// invalid session.
func IsSessionError(err error) bool {
	if err == nil {
		return false
	}
	if IsUnauthorized(err) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "session")
}

// IsUnauthorized reports a 401 from the remote service.
func IsUnauthorized(err error) bool {
	rerr, ok := AsError(err)
	return ok && rerr.Code == http.StatusUnauthorized
}

// IsNotFound reports a 404 from the remote service.
func IsNotFound(err error) bool {
	rerr, ok := AsError(err)
	return ok && rerr.Code == http.StatusNotFound
}
