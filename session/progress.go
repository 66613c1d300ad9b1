package session

import (
	"sync"

	"modpack-launcher/events"
)

// ProgressSink subscribes once to the install progress bus and keeps the
// latest record per operation id. Each event unconditionally overwrites the
// stored record for its key; the instance name it carries is only used for
// rendering.
type ProgressSink struct {
	mu      sync.Mutex
	records map[string]events.InstallProgress
	cancel  func()
}

// NewProgressSink subscribes to the bus. onUpdate, when non-nil, is called
// after each stored event.
func NewProgressSink(bus *events.Bus, onUpdate func(events.InstallProgress)) *ProgressSink {
	ch, cancel := bus.Subscribe()
	sink := &ProgressSink{
		records: make(map[string]events.InstallProgress),
		cancel:  cancel,
	}
	go func() {
		for ev := range ch {
			sink.mu.Lock()
			sink.records[ev.OpID] = ev
			sink.mu.Unlock()
			if onUpdate != nil {
				onUpdate(ev)
			}
		}
	}()
	return sink
}

// Get returns the latest progress for an operation id.
func (s *ProgressSink) Get(opID string) (events.InstallProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[opID]
	return record, ok
}

// Forget drops the record for a finished operation.
func (s *ProgressSink) Forget(opID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, opID)
}

// Close cancels the bus subscription.
func (s *ProgressSink) Close() {
	s.cancel()
}
