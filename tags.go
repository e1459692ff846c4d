package editproj

import "sync"

// TagRegistry keeps the provenance labels of live objects in a side table
// keyed by object identity, so the scene objects themselves never change
// shape. Keys must be pointers.
type TagRegistry struct {
	mu   sync.RWMutex
	tags map[any]map[string]struct{}
}

func NewTagRegistry() *TagRegistry {
	return &TagRegistry{tags: make(map[any]map[string]struct{})}
}

// HasTags reports whether obj was ever made taggable.
func (r *TagRegistry) HasTags(obj any) bool {
	if obj == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tags[obj]
	return ok
}

func (r *TagRegistry) MatchesTag(obj any, tag string) bool {
	if obj == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tags[obj][tag]
	return ok
}

// EnableTagging is a no-op for objects already taggable.
func (r *TagRegistry) EnableTagging(obj any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tags[obj]; !ok {
		r.tags[obj] = make(map[string]struct{})
	}
}

func (r *TagRegistry) AddTag(obj any, tag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.tags[obj]
	if !ok {
		set = make(map[string]struct{})
		r.tags[obj] = set
	}
	set[tag] = struct{}{}
}

func (r *TagRegistry) RemoveTag(obj any, tag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tags[obj], tag)
}

// Tags returns the tags of obj in no particular order.
func (r *TagRegistry) Tags(obj any) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.tags[obj]))
	for t := range r.tags[obj] {
		out = append(out, t)
	}
	return out
}

func (r *TagRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = make(map[any]map[string]struct{})
}
