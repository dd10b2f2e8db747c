package remote

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		schema       bool
		session      bool
		unauthorized bool
		notFound     bool
	}{
		{name: "nil", err: nil},
		{
			name:   "invalid structure type",
			err:    &Error{Code: 400, Type: "document_invalid_structure", Message: "Invalid document structure"},
			schema: true,
		},
		{
			name:   "unknown attribute message",
			err:    fmt.Errorf("create completion: %w", errors.New(`Invalid document structure: Unknown attribute: "x"`)),
			schema: true,
		},
		{
			name:         "unauthorized",
			err:          &Error{Code: 401, Type: "general_unauthorized_scope", Message: "User (role: guests) missing scope (account)"},
			session:      true,
			unauthorized: true,
		},
		{
			name:    "session message",
			err:     errors.New("Session not found"),
			session: true,
		},
		{
			name:     "not found",
			err:      fmt.Errorf("wrapped: %w", &Error{Code: 404, Type: "document_not_found", Message: "missing"}),
			notFound: true,
		},
		{
			name: "unrelated",
			err:  &Error{Code: 500, Message: "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.schema, IsSchemaMismatch(tt.err), "IsSchemaMismatch")
			assert.Equal(t, tt.session, IsSessionError(tt.err), "IsSessionError")
			assert.Equal(t, tt.unauthorized, IsUnauthorized(tt.err), "IsUnauthorized")
			assert.Equal(t, tt.notFound, IsNotFound(tt.err), "IsNotFound")
		})
	}
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "boom (500 general_unknown)", (&Error{Code: 500, Type: "general_unknown", Message: "boom"}).Error())
	assert.Equal(t, "boom (500)", (&Error{Code: 500, Message: "boom"}).Error())
}

func TestQueryEncoding(t *testing.T) {
	assert.JSONEq(t, `{"method":"equal","attribute":"user_id","values":["u1"]}`, Equal("user_id", "u1").String())
	assert.JSONEq(t, `{"method":"limit","values":[1]}`, Limit(1).String())
}
