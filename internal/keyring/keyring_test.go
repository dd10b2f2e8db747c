package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetSession(t *testing.T) {
	gokeyring.MockInit()
	store := NewSessionStore("project-a")

	secret := `{"a_session_project-a":"abc123"}`
	if err := store.Set(secret); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	retrieved, err := store.Get()
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if retrieved != secret {
		t.Errorf("Get() = %q, want %q", retrieved, secret)
	}
}

func TestSetSessionEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := NewSessionStore("project-a").Set(""); err == nil {
		t.Error("Set(\"\") should return an error")
	}
}

func TestGetSessionNotFound(t *testing.T) {
	gokeyring.MockInit()
	store := NewSessionStore("project-a")
	_ = store.Delete()

	if _, err := store.Get(); err != ErrNotFound {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteSession(t *testing.T) {
	gokeyring.MockInit()
	store := NewSessionStore("project-a")

	if err := store.Set("secret"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Get(); err != ErrNotFound {
		t.Errorf("After Delete(), Get() error = %v, want %v", err, ErrNotFound)
	}
	if err := store.Delete(); err != ErrNotFound {
		t.Errorf("Delete() on empty store error = %v, want %v", err, ErrNotFound)
	}
}

func TestStoresAreScopedByProject(t *testing.T) {
	gokeyring.MockInit()
	a := NewSessionStore("project-a")
	b := NewSessionStore("project-b")

	if err := a.Set("secret-a"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, err := b.Get(); err != ErrNotFound {
		t.Errorf("project-b Get() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring")
	}
}
