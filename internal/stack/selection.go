package stack

import (
	"fmt"
	"sync"

	"github.com/cogstack/cogstack-api/internal/models"
)

// Selection tracks which layer of the diagram is highlighted. At most one is active.
type Selection struct {
	mu        sync.Mutex
	active    string
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func(activeID string)
}

// NewSelection returns a Selection with nothing active
func NewSelection() *Selection {
	return &Selection{}
}

// Select makes id the only active layer. Unknown ids leave the selection unchanged.
func (s *Selection) Select(id string) error {
	if _, ok := Lookup(id); !ok {
		return fmt.Errorf("%q: %w", id, ErrUnknownLayer)
	}
	s.set(id)
	return nil
}

// Clear deactivates whatever layer is active
func (s *Selection) Clear() {
	s.set("")
}

// ActiveID returns the active layer id, or "" when none is active
func (s *Selection) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Active returns the active layer
func (s *Selection) Active() (models.Layer, bool) {
	id := s.ActiveID()
	if id == "" {
		return models.Layer{}, false
	}
	return Lookup(id)
}

// IsActive reports whether id is the active layer
func (s *Selection) IsActive(id string) bool {
	return id != "" && s.ActiveID() == id
}

// Subscribe calls fn with the new active id whenever it changes.
// The returned func unsubscribes.
func (s *Selection) Subscribe(fn func(activeID string)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Selection) set(id string) {
	s.mu.Lock()
	if s.active == id {
		s.mu.Unlock()
		return
	}
	s.active = id
	listeners := append([]listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(id)
	}
}
