package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/julianstephens/streakline/internal/errors"
)

// document is the on-disk layout.
type document struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// Store keeps every slot in one JSON file, rewritten on each mutation.
type Store struct {
	path string

	mu  sync.Mutex
	doc *document
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.doc = &document{Version: 1, Entries: make(map[string]string)}
		return s.save()
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse cache: %w", err)
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]string)
	}
	s.doc = doc
	return nil
}

// save writes to a temp file and renames it over the cache so readers never
// observe a partial file. Caller holds mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return "", errors.New("cache not loaded")
	}
	v, ok := s.doc.Entries[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return errors.New("cache not loaded")
	}
	prev, had := s.doc.Entries[key]
	s.doc.Entries[key] = value
	if err := s.save(); err != nil {
		if had {
			s.doc.Entries[key] = prev
		} else {
			delete(s.doc.Entries, key)
		}
		return err
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return errors.New("cache not loaded")
	}
	prev, had := s.doc.Entries[key]
	if !had {
		return nil
	}
	delete(s.doc.Entries, key)
	if err := s.save(); err != nil {
		s.doc.Entries[key] = prev
		return err
	}
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) Describe() string { return "json:" + s.path }
