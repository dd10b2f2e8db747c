// Package remotetest provides an in-memory remote.Service for tests, with
// per-method failure injection and call recording.
package remotetest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/streakline/internal/remote"
)

// Method names accepted by Fail and CallCount.
const (
	MethodCreateAccount      = "CreateAccount"
	MethodCreateEmailSession = "CreateEmailSession"
	MethodGetSession         = "GetSession"
	MethodDeleteSession      = "DeleteSession"
	MethodGetAccount         = "GetAccount"
	MethodUpdateAccountName  = "UpdateAccountName"
	MethodAvatarInitialsURL  = "AvatarInitialsURL"
	MethodCreateDocument     = "CreateDocument"
	MethodGetDocument        = "GetDocument"
	MethodListDocuments      = "ListDocuments"
	MethodUpdateDocument     = "UpdateDocument"
	MethodDeleteDocument     = "DeleteDocument"
)

var (
	// ErrUnavailable is a transport-style failure.
	ErrUnavailable = &remote.Error{Code: http.StatusServiceUnavailable, Type: "general_service_disabled", Message: "Service unavailable"}
	// ErrUnknownAttribute is the schema mismatch the service reports for an unexpected field.
	ErrUnknownAttribute = &remote.Error{Code: http.StatusBadRequest, Type: "document_invalid_structure", Message: `Invalid document structure: Unknown attribute: "completed_at"`}
	errNoSession        = &remote.Error{Code: http.StatusUnauthorized, Type: "general_unauthorized_scope", Message: "User (role: guests) missing scope (account)"}
	errBadCredentials   = &remote.Error{Code: http.StatusUnauthorized, Type: "user_invalid_credentials", Message: "Invalid credentials. Please check the email and password."}
	errUserExists       = &remote.Error{Code: http.StatusConflict, Type: "user_already_exists", Message: "A user with the same id, email, or phone already exists in this project."}
	errDocumentNotFound = &remote.Error{Code: http.StatusNotFound, Type: "document_not_found", Message: "Document with the requested ID could not be found."}
)

type account struct {
	remote.Account
	password string
}

// Server is a fake backend. The zero value is not usable; call New.
type Server struct {
	// Now stamps created documents; defaults to time.Now.
	Now func() time.Time
	// Endpoint prefixes avatar URLs.
	Endpoint string

	mu          sync.Mutex
	accounts    map[string]*account // keyed by email
	session     *remote.Session
	sessionUser *account
	docs        map[string]map[string]map[string]interface{}
	order       map[string][]string
	attributes  map[string]map[string]bool
	failures    map[string]error
	calls       map[string]int
	seq         int
}

func New() *Server {
	return &Server{
		Now:        time.Now,
		Endpoint:   "https://remote.test/v1",
		accounts:   make(map[string]*account),
		docs:       make(map[string]map[string]map[string]interface{}),
		order:      make(map[string][]string),
		attributes: make(map[string]map[string]bool),
		failures:   make(map[string]error),
		calls:      make(map[string]int),
	}
}

var _ remote.Service = (*Server)(nil)

// Fail makes every later call to method return err. A key of the form
// "Method:collectionID" restricts the failure to one collection.
func (s *Server) Fail(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key] = err
}

// Recover removes an injected failure.
func (s *Server) Recover(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, key)
}

// CallCount returns how many times method was invoked.
func (s *Server) CallCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// RestrictAttributes makes creates and updates on collectionID reject any
// attribute outside keys with a schema mismatch error.
func (s *Server) RestrictAttributes(collectionID string, keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	allowed := make(map[string]bool, len(keys))
	for _, k := range keys {
		allowed[k] = true
	}
	s.attributes[collectionID] = allowed
}

// AddAccount registers an account without going through CreateAccount.
func (s *Server) AddAccount(id, email, password, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.Now().UTC()
	s.accounts[email] = &account{
		Account:  remote.Account{ID: id, Email: email, Name: name, CreatedAt: now, UpdatedAt: now},
		password: password,
	}
}

// SignedIn reports whether a session is open.
func (s *Server) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// Seed inserts a raw document and returns its id.
func (s *Server) Seed(collectionID string, doc map[string]interface{}) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := doc["$id"].(string)
	if id == "" {
		id = s.nextID()
	}
	s.insert(collectionID, id, doc)
	return id
}

// Documents returns the raw documents of a collection in insertion order.
func (s *Server) Documents(collectionID string) []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]interface{}, 0, len(s.order[collectionID]))
	for _, id := range s.order[collectionID] {
		out = append(out, copyDoc(s.docs[collectionID][id]))
	}
	return out
}

// enter records the call and returns any injected failure. Caller holds mu.
func (s *Server) enter(method, collectionID string) error {
	s.calls[method]++
	if collectionID != "" {
		s.calls[method+":"+collectionID]++
		if err, ok := s.failures[method+":"+collectionID]; ok {
			return err
		}
	}
	return s.failures[method]
}

func (s *Server) nextID() string {
	s.seq++
	return fmt.Sprintf("doc%04d", s.seq)
}

func (s *Server) insert(collectionID, id string, doc map[string]interface{}) {
	if s.docs[collectionID] == nil {
		s.docs[collectionID] = make(map[string]map[string]interface{})
	}
	now := s.Now().UTC().Format(time.RFC3339Nano)
	doc = copyDoc(doc)
	doc["$id"] = id
	if _, ok := doc["$createdAt"]; !ok {
		doc["$createdAt"] = now
	}
	doc["$updatedAt"] = now
	if _, exists := s.docs[collectionID][id]; !exists {
		s.order[collectionID] = append(s.order[collectionID], id)
	}
	s.docs[collectionID][id] = doc
}

func (s *Server) checkAttributes(collectionID string, fields map[string]interface{}) error {
	allowed, ok := s.attributes[collectionID]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !allowed[k] {
			return &remote.Error{
				Code:    http.StatusBadRequest,
				Type:    "document_invalid_structure",
				Message: fmt.Sprintf("Invalid document structure: Unknown attribute: %q", k),
			}
		}
	}
	return nil
}

func toFields(data interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func copyDoc(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func marshal(v interface{}) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	return json.RawMessage(b), err
}

func (s *Server) CreateAccount(_ context.Context, userID, email, password, name string) (*remote.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(MethodCreateAccount, ""); err != nil {
		return nil, err
	}
	if _, exists := s.accounts[email]; exists {
		return nil, errUserExists
	}
	now := s.Now().UTC()
	a := &account{
		Account:  remote.Account{ID: userID, Email: email, Name: name, CreatedAt: now, UpdatedAt: now},
		password: password,
	}
	s.accounts[email] = a
	out := a.Account
	return &out, nil
}

func (s *Server) CreateEmailSession(_ context.Context, email, password string) (*remote.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(MethodCreateEmailSession, ""); err != nil {
		return nil, err
	}
	a, ok := s.accounts[email]
	if !ok || a.password != password {
		return nil, errBadCredentials
	}
	s.seq++
	s.session = &remote.Session{
		ID:     fmt.Sprintf("session%04d", s.seq),
		UserID: a.ID,
		Secret: fmt.Sprintf("secret%04d", s.seq),
		Expire: s.Now().Add(365 * 24 * time.Hour).UTC(),
	}
	s.sessionUser = a
	out := *s.session
	return &out, nil
}

func (s *Server) GetSession(_ context.Context, sessionID string) (*remote.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(MethodGetSession, ""); err != nil {
		return nil, err
	}
	if s.session == nil {
		return nil, errNoSession
	}
	out := *s.session
	out.Secret = ""
	return &out, nil
}

func (s *Server) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(MethodDeleteSession, ""); err != nil {
		return err
	}
	if s.session == nil {
		return errNoSession
	}
	s.session = nil
	s.sessionUser = nil
	return nil
}

func (s *Server) GetAccount(context.Context) (*remote.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(MethodGetAccount, ""); err != nil {
		return nil, err
	}
	if s.sessionUser == nil {
		return nil, errNoSession
	}
	out := s.sessionUser.Account
	return &out, nil
}

func (s *Server) UpdateAccountName(_ context.Context, name string) (*remote.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(MethodUpdateAccountName, ""); err != nil {
		return nil, err
	}
	if s.sessionUser == nil {
		return nil, errNoSession
	}
	s.sessionUser.Name = name
	s.sessionUser.UpdatedAt = s.Now().UTC()
	out := s.sessionUser.Account
	return &out, nil
}

func (s *Server) AvatarInitialsURL(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(MethodAvatarInitialsURL, ""); err != nil {
		return "", err
	}
	return s.Endpoint + "/avatars/initials?name=" + url.QueryEscape(name), nil
}

func (s *Server) CreateDocument(_ context.Context, databaseID, collectionID, documentID string, data interface{}) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(MethodCreateDocument, collectionID); err != nil {
		return nil, err
	}
	fields, err := toFields(data)
	if err != nil {
		return nil, err
	}
	if err := s.checkAttributes(collectionID, fields); err != nil {
		return nil, err
	}
	if documentID == "" {
		documentID = s.nextID()
	}
	if _, exists := s.docs[collectionID][documentID]; exists {
		return nil, &remote.Error{Code: http.StatusConflict, Type: "document_already_exists", Message: "Document with the requested ID already exists."}
	}
	s.insert(collectionID, documentID, fields)
	return marshal(s.docs[collectionID][documentID])
}

func (s *Server) GetDocument(_ context.Context, databaseID, collectionID, documentID string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(MethodGetDocument, collectionID); err != nil {
		return nil, err
	}
	doc, ok := s.docs[collectionID][documentID]
	if !ok {
		return nil, errDocumentNotFound
	}
	return marshal(doc)
}

func (s *Server) ListDocuments(_ context.Context, databaseID, collectionID string, queries ...remote.Query) (*remote.DocumentList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(MethodListDocuments, collectionID); err != nil {
		return nil, err
	}

	limit := -1
	var filters []remote.Query
	for _, q := range queries {
		switch q.Method {
		case "equal":
			filters = append(filters, q)
		case "limit":
			if len(q.Values) == 1 {
				if n, ok := q.Values[0].(int); ok {
					limit = n
				}
			}
		default:
			return nil, &remote.Error{Code: http.StatusBadRequest, Type: "general_query_invalid", Message: "Invalid query method: " + q.Method}
		}
	}

	list := &remote.DocumentList{Documents: []json.RawMessage{}}
	for _, id := range s.order[collectionID] {
		doc := s.docs[collectionID][id]
		if !matches(doc, filters) {
			continue
		}
		list.Total++
		if limit >= 0 && len(list.Documents) >= limit {
			continue
		}
		raw, err := marshal(doc)
		if err != nil {
			return nil, err
		}
		list.Documents = append(list.Documents, raw)
	}
	return list, nil
}

func matches(doc map[string]interface{}, filters []remote.Query) bool {
	for _, f := range filters {
		got := fmt.Sprint(doc[f.Attribute])
		hit := false
		for _, v := range f.Values {
			if fmt.Sprint(v) == got {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func (s *Server) UpdateDocument(_ context.Context, databaseID, collectionID, documentID string, data interface{}) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(MethodUpdateDocument, collectionID); err != nil {
		return nil, err
	}
	doc, ok := s.docs[collectionID][documentID]
	if !ok {
		return nil, errDocumentNotFound
	}
	fields, err := toFields(data)
	if err != nil {
		return nil, err
	}
	if err := s.checkAttributes(collectionID, fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		doc[k] = v
	}
	doc["$updatedAt"] = s.Now().UTC().Format(time.RFC3339Nano)
	return marshal(doc)
}

func (s *Server) DeleteDocument(_ context.Context, databaseID, collectionID, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(MethodDeleteDocument, collectionID); err != nil {
		return err
	}
	if _, ok := s.docs[collectionID][documentID]; !ok {
		return errDocumentNotFound
	}
	delete(s.docs[collectionID], documentID)
	ids := s.order[collectionID]
	for i, id := range ids {
		if id == documentID {
			s.order[collectionID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}
