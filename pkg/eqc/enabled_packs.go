package eqc

import "sync"

// enabledPacks is the ordered, deduplicated set of pack references
// currently enabled on an engine. enable/disable are idempotent and
// preserve first-enabled order (spec §4.6).
type enabledPacks struct {
	mu    sync.Mutex
	order []string
	set   map[string]bool
}

func newEnabledPacks(initial []string) *enabledPacks {
	e := &enabledPacks{set: make(map[string]bool)}
	for _, ref := range initial {
		e.enable(ref)
	}
	return e
}

func (e *enabledPacks) enable(ref string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set[ref] {
		return
	}
	e.set[ref] = true
	e.order = append(e.order, ref)
}

func (e *enabledPacks) disable(ref string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.set[ref] {
		return
	}
	delete(e.set, ref)
	for i, r := range e.order {
		if r == ref {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

func (e *enabledPacks) list() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}
