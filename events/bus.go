// Package events carries install progress from the service layer to whichever
// view is currently listening. Messages are keyed by operation id so two
// installs into identically named instances cannot clobber each other's
// progress display.
package events

import "sync"

// InstallProgress is a single progress report for a running install.
type InstallProgress struct {
	OpID     string // Stable id assigned when the install starts
	Instance string // Instance name, resolved for rendering only
	Progress int    // 0-100
	Stage    string // Free-text stage label, e.g. "Downloading pack"
}

// Bus is a fan-out channel for progress events. Subscribers that fall behind
// drop events rather than block the publisher; each event carries absolute
// progress so a dropped event is superseded by the next one.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan InstallProgress
	next int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan InstallProgress)}
}

// Publish delivers an event to all current subscribers without blocking.
func (b *Bus) Publish(ev InstallProgress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a new listener. The returned cancel func removes the
// subscription and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe() (<-chan InstallProgress, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan InstallProgress, 64)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}
