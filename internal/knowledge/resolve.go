package knowledge

// link is either a stated value or a reference to another key
type link[T any] struct {
	value    T
	hasValue bool
	ref      string
}

func valueLink[T any](v T) link[T] {
	return link[T]{value: v, hasValue: true}
}

func refLink[T any](ref string) link[T] {
	return link[T]{ref: ref}
}

// resolver follows reference chains of any depth. Results are memoized and
// a key reached again while it is being resolved yields the fallback.
type resolver[T any] struct {
	links map[string]link[T]
	// candidates lists the keys a reference may name, tried in order
	candidates func(ref string) []string
	fallback   T
	onCycle    func(key string)

	memo     map[string]T
	resolved map[string]bool
	visiting map[string]bool
}

func newResolver[T any](links map[string]link[T], candidates func(string) []string, fallback T, onCycle func(string)) *resolver[T] {
	if candidates == nil {
		candidates = func(ref string) []string { return []string{ref} }
	}
	return &resolver[T]{
		links:      links,
		candidates: candidates,
		fallback:   fallback,
		onCycle:    onCycle,
		memo:       make(map[string]T),
		resolved:   make(map[string]bool),
		visiting:   make(map[string]bool),
	}
}

// resolve returns the value for key and whether the chain ended in a value
// (a cycle counts as ended, with the fallback).
func (r *resolver[T]) resolve(key string) (T, bool) {
	if r.resolved[key] {
		return r.memo[key], true
	}
	l, ok := r.links[key]
	if !ok {
		return r.fallback, false
	}
	if l.hasValue {
		r.store(key, l.value)
		return l.value, true
	}
	if r.visiting[key] {
		if r.onCycle != nil {
			r.onCycle(key)
		}
		return r.fallback, true
	}

	r.visiting[key] = true
	defer delete(r.visiting, key)

	for _, cand := range r.candidates(l.ref) {
		if _, exists := r.links[cand]; !exists {
			continue
		}
		v, found := r.resolve(cand)
		if found {
			r.store(key, v)
		}
		return v, found
	}
	return r.fallback, false
}

func (r *resolver[T]) store(key string, v T) {
	r.memo[key] = v
	r.resolved[key] = true
}

// all resolves every key and splits them into resolved and unresolved
func (r *resolver[T]) all() (map[string]T, []string) {
	out := make(map[string]T, len(r.links))
	var missing []string
	for key := range r.links {
		v, ok := r.resolve(key)
		if !ok {
			missing = append(missing, key)
			continue
		}
		out[key] = v
	}
	return out, missing
}
