// Package store holds the single shared slot for the most recently captured
// or submitted text.
package store

import (
	"errors"
	"sync"
)

// ErrEmptyText is returned when a write would store an empty value; the
// previous value is kept and the caller signals failure instead.
var ErrEmptyText = errors.New("refusing to store empty text")

// Store is a mutex-guarded last-writer-wins text slot. Subscribers are
// notified after each successful write, outside the lock.
type Store struct {
	mu          sync.Mutex
	text        string
	set         bool
	subscribers []func(string)
}

func New() *Store {
	return &Store{}
}

// Set overwrites the stored value. Empty text is rejected.
func (s *Store) Set(text string) error {
	if text == "" {
		return ErrEmptyText
	}

	s.mu.Lock()
	s.text = text
	s.set = true
	subs := make([]func(string), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(text)
	}
	return nil
}

// Get returns the stored value and whether one has been set.
func (s *Store) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.set
}

// Text returns the stored value or the empty string.
func (s *Store) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Subscribe registers fn to run after every successful write. Callbacks run
// on the writer's goroutine and must not block.
func (s *Store) Subscribe(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
