package checkin

import "sync"

// Editor batches mutations for a single atomic commit, mirroring the
// edit-then-apply contract of the client's preference store.
type Editor interface {
	PutString(key, value string) Editor
	PutInt(key string, value int) Editor
	PutStringSet(key string, values map[string]struct{}) Editor
	Remove(key string) Editor
}

// Prefs is a synchronous key-value namespace. Reads report presence via ok
// and a failed read via err, so callers can tell an absent key from a store
// they could not reach. All writes go through Edit so a multi-key update
// lands as one commit.
type Prefs interface {
	GetString(key string) (string, bool, error)
	GetInt(key string) (int, bool, error)
	GetStringSet(key string) (map[string]struct{}, bool, error)
	Contains(key string) (bool, error)
	Edit(apply func(Editor)) error
}

type memOp struct {
	key    string
	value  any
	remove bool
}

type memEditor struct {
	ops []memOp
}

func (e *memEditor) PutString(key, value string) Editor {
	e.ops = append(e.ops, memOp{key: key, value: value})
	return e
}

func (e *memEditor) PutInt(key string, value int) Editor {
	e.ops = append(e.ops, memOp{key: key, value: value})
	return e
}

func (e *memEditor) PutStringSet(key string, values map[string]struct{}) Editor {
	copied := make(map[string]struct{}, len(values))
	for v := range values {
		copied[v] = struct{}{}
	}
	e.ops = append(e.ops, memOp{key: key, value: copied})
	return e
}

func (e *memEditor) Remove(key string) Editor {
	e.ops = append(e.ops, memOp{key: key, remove: true})
	return e
}

// MemoryPrefs is a mutex-guarded in-process Prefs, used in tests and as the
// fallback when no durable store is wired.
type MemoryPrefs struct {
	mu     sync.Mutex
	values map[string]any
}

// NewMemoryPrefs creates an empty in-memory store.
func NewMemoryPrefs() *MemoryPrefs {
	return &MemoryPrefs{values: map[string]any{}}
}

func (p *MemoryPrefs) GetString(key string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.values[key].(string)
	return s, ok, nil
}

func (p *MemoryPrefs) GetInt(key string) (int, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.values[key].(int)
	return n, ok, nil
}

func (p *MemoryPrefs) GetStringSet(key string) (map[string]struct{}, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	stored, ok := p.values[key].(map[string]struct{})
	if !ok {
		return nil, false, nil
	}
	copied := make(map[string]struct{}, len(stored))
	for v := range stored {
		copied[v] = struct{}{}
	}
	return copied, true, nil
}

func (p *MemoryPrefs) Contains(key string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.values[key]
	return ok, nil
}

func (p *MemoryPrefs) Edit(apply func(Editor)) error {
	e := &memEditor{}
	apply(e)
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, op := range e.ops {
		if op.remove {
			delete(p.values, op.key)
			continue
		}
		p.values[op.key] = op.value
	}
	return nil
}
