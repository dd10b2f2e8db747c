package remote

import (
	"context"
	"fmt"
	"strings"
)

// Attribute describes one collection attribute the client relies on.
type Attribute struct {
	Key      string
	Type     string
	Size     int
	Required bool
}

// CollectionSchema is the expected shape of one collection.
type CollectionSchema struct {
	Name       string
	Attributes []Attribute
	Indexes    []string
}

// Schema lists the collections and attributes the client expects.
var Schema = []CollectionSchema{
	{
		Name: "habits",
		Attributes: []Attribute{
			{Key: "user_id", Type: "string", Size: 255, Required: true},
			{Key: "title", Type: "string", Size: 255, Required: true},
			{Key: "description", Type: "string", Size: 1000},
			{Key: "frequency", Type: "string", Size: 50, Required: true},
			{Key: "streak_count", Type: "integer", Required: true},
			{Key: "last_completed", Type: "datetime"},
			{Key: "created_at", Type: "datetime", Required: true},
		},
		Indexes: []string{"user_id", "frequency"},
	},
	{
		Name: "completions",
		Attributes: []Attribute{
			{Key: "user_id", Type: "string", Size: 255, Required: true},
			{Key: "habit_id", Type: "string", Size: 255, Required: true},
			{Key: "completed_at", Type: "datetime", Required: true},
		},
		Indexes: []string{"user_id", "habit_id", "user_id+habit_id"},
	},
	{
		Name: "users",
		Attributes: []Attribute{
			{Key: "accountId", Type: "string", Size: 255, Required: true},
			{Key: "name", Type: "string", Size: 255, Required: true},
			{Key: "email", Type: "string", Size: 255, Required: true},
			{Key: "avatar", Type: "string", Size: 500},
		},
		Indexes: []string{"accountId (unique)", "email"},
	},
}

// CollectionStatus is the result of probing one collection.
type CollectionStatus struct {
	Name         string
	CollectionID string
	Err          error
}

func (s CollectionStatus) OK() bool { return s.Err == nil }

// probeUserID never matches a real account; it only exercises the user_id index.
const probeUserID = "setup_probe_user"

// CheckSetup lists at most one document from each collection and reports
// which ones are missing or inaccessible. Probes run sequentially.
func CheckSetup(ctx context.Context, docs Documents, ids Collections) []CollectionStatus {
	probes := []struct {
		name    string
		id      string
		queries []Query
	}{
		{"habits", ids.Habits, []Query{Equal("user_id", probeUserID), Limit(1)}},
		{"completions", ids.Completions, []Query{Equal("user_id", probeUserID), Limit(1)}},
		{"users", ids.Users, []Query{Limit(1)}},
	}

	statuses := make([]CollectionStatus, 0, len(probes))
	for _, p := range probes {
		_, err := docs.ListDocuments(ctx, ids.DatabaseID, p.id, p.queries...)
		statuses = append(statuses, CollectionStatus{Name: p.name, CollectionID: p.id, Err: err})
	}
	return statuses
}

// SetupOK reports whether every probe succeeded.
func SetupOK(statuses []CollectionStatus) bool {
	for _, s := range statuses {
		if !s.OK() {
			return false
		}
	}
	return true
}

// SetupInstructions renders the manual console steps for creating the
// collections, using the configured ids.
func SetupInstructions(ids Collections) string {
	collectionIDs := map[string]string{
		"habits":      ids.Habits,
		"completions": ids.Completions,
		"users":       ids.Users,
	}

	var b strings.Builder
	b.WriteString("Remote database setup\n\n")
	fmt.Fprintf(&b, "In the console, open database %s and create these collections:\n", ids.DatabaseID)
	for _, c := range Schema {
		fmt.Fprintf(&b, "\nCollection: %s (id %s)\n", c.Name, collectionIDs[c.Name])
		for _, a := range c.Attributes {
			fmt.Fprintf(&b, "  - %s (%s", a.Key, a.Type)
			if a.Size > 0 {
				fmt.Fprintf(&b, ", %d chars", a.Size)
			}
			if a.Required {
				b.WriteString(", required")
			} else {
				b.WriteString(", optional")
			}
			b.WriteString(")\n")
		}
		if len(c.Indexes) > 0 {
			fmt.Fprintf(&b, "  indexes: %s\n", strings.Join(c.Indexes, ", "))
		}
	}
	b.WriteString("\nGrant the Users role create, read, update and delete on every collection.\n")
	return b.String()
}
