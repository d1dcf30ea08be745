package helpers

import (
	"context"
	"sync"

	"commitbot/internal/models"
)

// EventSink collects audit events in memory.
type EventSink struct {
	mu     sync.Mutex
	events []models.Event
}

func (s *EventSink) InsertOne(_ context.Context, evt models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return nil
}

func (s *EventSink) InsertMany(_ context.Context, evts []models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evts...)
	return nil
}

// Find returns the events with the given action and key.
func (s *EventSink) Find(action, key string) []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Event
	for _, evt := range s.events {
		if evt.Action == action && evt.Key == key {
			out = append(out, evt)
		}
	}
	return out
}
