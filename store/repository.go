package store

import (
	"sort"
	"sync"

	"github.com/hupe1980/filterq/filter"
)

// Repository is a set of named collections. Collections are created on first
// use; an unknown collection behaves as empty.
type Repository struct {
	mu    sync.RWMutex
	colls map[string]*Collection
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{colls: make(map[string]*Collection)}
}

// Collection returns the named collection, creating it if needed.
func (r *Repository) Collection(name string) *Collection {
	r.mu.RLock()
	c, ok := r.colls[name]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.colls[name]; ok {
		return c
	}
	c = NewCollection()
	r.colls[name] = c
	return c
}

// Collections returns the names of all collections, sorted.
func (r *Repository) Collections() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.colls))
	for name := range r.colls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find evaluates a compiled filter document against the named collection.
func (r *Repository) Find(collection string, doc *filter.Document) []Match {
	return r.Collection(collection).Find(doc)
}

// Count counts the documents matching a compiled filter document.
func (r *Repository) Count(collection string, doc *filter.Document) int {
	return r.Collection(collection).Count(doc)
}
