package persistence

import "github.com/oksasatya/go-ddd-campus/internal/domain/repository"

type entryState int

const (
	stateUnchanged entryState = iota
	stateAdded
	stateModified
	stateDeleted
)

func (s entryState) String() string {
	switch s {
	case stateAdded:
		return "added"
	case stateModified:
		return "modified"
	case stateDeleted:
		return "deleted"
	}
	return "unchanged"
}

type entry struct {
	key    string
	meta   *tableMeta
	entity repository.Entity
	state  entryState
}

// tracker is the identity map and change set of one unit of work. pending
// keeps staged entries in the order they were first staged.
type tracker struct {
	entries map[string]*entry
	pending []*entry
}

func newTracker() *tracker {
	return &tracker{entries: make(map[string]*entry)}
}

func entryKey(table, id string) string {
	return table + ":" + id
}

func (t *tracker) lookup(table, id string) (*entry, bool) {
	e, ok := t.entries[entryKey(table, id)]
	return e, ok
}

// attach records an entity read from the store.
func (t *tracker) attach(m *tableMeta, e repository.Entity) *entry {
	en := &entry{key: entryKey(m.name, e.GetID()), meta: m, entity: e, state: stateUnchanged}
	t.entries[en.key] = en
	return en
}

func (t *tracker) stage(m *tableMeta, e repository.Entity, state entryState) *entry {
	key := entryKey(m.name, e.GetID())
	en, ok := t.entries[key]
	if !ok {
		en = &entry{key: key, meta: m, entity: e}
		t.entries[key] = en
	}
	en.entity = e
	t.mark(en, state)
	return en
}

func (t *tracker) mark(en *entry, state entryState) {
	if en.state == stateUnchanged && state != stateUnchanged {
		t.pending = append(t.pending, en)
	}
	en.state = state
}

// forget drops an entry entirely, used when a staged insert is deleted.
func (t *tracker) forget(en *entry) {
	delete(t.entries, en.key)
	for i, p := range t.pending {
		if p == en {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			break
		}
	}
}

func (t *tracker) hasPending() bool {
	return len(t.pending) > 0
}

// accept marks flushed changes as persisted.
func (t *tracker) accept() {
	for _, en := range t.pending {
		switch en.state {
		case stateModified:
			en.entity.SetVersion(en.entity.GetVersion() + 1)
			en.state = stateUnchanged
		case stateAdded:
			en.state = stateUnchanged
		case stateDeleted:
			delete(t.entries, en.key)
		}
	}
	t.pending = nil
}

func (t *tracker) reset() {
	t.entries = make(map[string]*entry)
	t.pending = nil
}
