package userdata

import (
	"strings"
	"sync"
)

// Event tells a watcher that something under its path changed. The
// watcher re-reads through the store; events carry no payload so a
// slow consumer only ever sees the latest state.
type Event struct {
	Path string
}

// WatchFunc receives change events. It is called synchronously from
// the writing goroutine, so it must not block and must not call back
// into the store's write methods.
type WatchFunc func(Event)

type watcher struct {
	path string
	fn   WatchFunc
}

type watcherSet struct {
	mu      sync.Mutex
	nextID  int
	entries map[int]watcher
}

func newWatcherSet() *watcherSet {
	return &watcherSet{entries: map[int]watcher{}}
}

// Watch registers fn for changes at or below path and fires one
// initial event so the watcher can load current state. The returned
// function cancels the registration.
func (s *Store) Watch(path string, fn WatchFunc) (cancel func()) {
	s.watchers.mu.Lock()
	id := s.watchers.nextID
	s.watchers.nextID++
	s.watchers.entries[id] = watcher{path: path, fn: fn}
	s.watchers.mu.Unlock()

	fn(Event{Path: path})

	return func() {
		s.watchers.mu.Lock()
		delete(s.watchers.entries, id)
		s.watchers.mu.Unlock()
	}
}

// notify fires every watcher whose path covers the written path.
// Callbacks run outside the lock so a watcher may re-register or
// cancel without deadlocking.
func (ws *watcherSet) notify(writtenPath string) {
	ws.mu.Lock()
	var matched []watcher
	for _, w := range ws.entries {
		if pathCovers(w.path, writtenPath) {
			matched = append(matched, w)
		}
	}
	ws.mu.Unlock()

	for _, w := range matched {
		w.fn(Event{Path: writtenPath})
	}
}

// pathCovers reports whether watched is equal to or an ancestor of
// written, segment-wise. "users/a/history" covers
// "users/a/history/k1" but not "users/a/historyOld".
func pathCovers(watched, written string) bool {
	if watched == written {
		return true
	}
	return strings.HasPrefix(written, watched+"/")
}
