package match

import (
	"sync"

	"github.com/mcoot/bowlscore/internal/model"
)

// matchLocks hands out one mutex per match. Entries are dropped once no
// caller holds or waits on them.
type matchLocks struct {
	mu      sync.Mutex
	entries map[model.MatchID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newMatchLocks() *matchLocks {
	return &matchLocks{entries: make(map[model.MatchID]*lockEntry)}
}

// lock blocks until the caller is the only writer for the match and returns
// the matching unlock
func (l *matchLocks) lock(id model.MatchID) func() {
	l.mu.Lock()
	entry, ok := l.entries[id]
	if !ok {
		entry = &lockEntry{}
		l.entries[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, id)
		}
		l.mu.Unlock()
	}
}

// size returns the number of live entries
func (l *matchLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
