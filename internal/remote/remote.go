// Package remote defines the contract with the hosted backend: account and
// session calls, document CRUD over collections, and a typed repository that
// maps the habit tracker's collections onto models.
package remote

import (
	"context"
	"encoding/json"
	"time"
)

// Account is the authenticated identity as the remote service reports it.
type Account struct {
	ID        string    `json:"$id"`
	CreatedAt time.Time `json:"$createdAt"`
	UpdatedAt time.Time `json:"$updatedAt"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
}

// Session is a remote login session. Secret is only populated on creation.
type Session struct {
	ID     string    `json:"$id"`
	UserID string    `json:"userId"`
	Secret string    `json:"secret"`
	Expire time.Time `json:"expire"`
}

// DocumentList is one page of a collection listing.
type DocumentList struct {
	Total     int               `json:"total"`
	Documents []json.RawMessage `json:"documents"`
}

// Accounts covers identity and session management.
type Accounts interface {
	CreateAccount(ctx context.Context, userID, email, password, name string) (*Account, error)
	CreateEmailSession(ctx context.Context, email, password string) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetAccount(ctx context.Context) (*Account, error)
	UpdateAccountName(ctx context.Context, name string) (*Account, error)
	// AvatarInitialsURL returns an image URL rendering the initials of name.
	AvatarInitialsURL(name string) (string, error)
}

// Documents covers CRUD over collections in a database.
type Documents interface {
	CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data interface{}) (json.RawMessage, error)
	GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (json.RawMessage, error)
	ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...Query) (*DocumentList, error)
	UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data interface{}) (json.RawMessage, error)
	DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error
}

// Service is a full backend connection.
type Service interface {
	Accounts
	Documents
}

// Query is a single list filter or modifier.
type Query struct {
	Method    string        `json:"method"`
	Attribute string        `json:"attribute,omitempty"`
	Values    []interface{} `json:"values,omitempty"`
}

// Equal matches documents whose attribute equals any of values.
func Equal(attribute string, values ...interface{}) Query {
	return Query{Method: "equal", Attribute: attribute, Values: values}
}

// Limit caps the number of returned documents.
func Limit(n int) Query {
	return Query{Method: "limit", Values: []interface{}{n}}
}

// String returns the wire encoding of the query.
func (q Query) String() string {
	b, err := json.Marshal(q)
	if err != nil {
		return ""
	}
	return string(b)
}
