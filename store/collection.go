// Package store provides an in-process document repository that evaluates
// compiled filter documents against stored documents. It combines primary
// storage with a Roaring Bitmap inverted index so equality constraints are
// answered by bitmap intersection instead of a full scan.
package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/filterq/filter"
)

// ErrNotFound is returned when a document ID does not exist.
var ErrNotFound = errors.New("document not found")

// Match is one document returned by a find.
type Match struct {
	ID     uint32
	Fields filter.Fields
}

// Collection stores documents and maintains an inverted index over their
// field values.
//
// Architecture:
//   - Primary storage: map[uint32]filter.Fields (documents by ID)
//   - Inverted index: field -> valueKey -> bitmap of IDs
//
// Equality constraints are resolved by intersecting posting-list bitmaps;
// the surviving candidates are then verified against the full compiled
// document (range operators need the verification pass anyway).
type Collection struct {
	mu sync.RWMutex

	nextID uint32
	docs   map[uint32]filter.Fields

	inverted map[string]map[string]*roaring.Bitmap
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		nextID:   1,
		docs:     make(map[uint32]filter.Fields),
		inverted: make(map[string]map[string]*roaring.Bitmap),
	}
}

// Insert stores a document and returns its assigned ID.
func (c *Collection) Insert(doc filter.Fields) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.docs[id] = cloneFields(doc)
	c.addToIndexLocked(id, c.docs[id])
	return id
}

// Get retrieves a document by ID.
func (c *Collection) Get(id uint32) (filter.Fields, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, false
	}
	return cloneFields(doc), true
}

// Update replaces the document stored under id.
func (c *Collection) Update(id uint32, doc filter.Fields) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	old, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	c.removeFromIndexLocked(id, old)
	c.docs[id] = cloneFields(doc)
	c.addToIndexLocked(id, c.docs[id])
	return nil
}

// Delete removes a document. Deleting a missing ID is not an error.
func (c *Collection) Delete(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if doc, ok := c.docs[id]; ok {
		c.removeFromIndexLocked(id, doc)
		delete(c.docs, id)
	}
}

// Len returns the number of stored documents.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.docs)
}

// Find returns all documents matching the compiled filter document, ordered
// by ID. A nil or empty filter matches everything.
func (c *Collection) Find(doc *filter.Document) []Match {
	c.mu.RLock()
	defer c.mu.RUnlock()

	candidates, narrowed := c.equalityCandidatesLocked(doc)
	if narrowed && candidates.IsEmpty() {
		return nil
	}

	var matches []Match
	verify := func(id uint32, fields filter.Fields) {
		if doc == nil || doc.Matches(fields) {
			matches = append(matches, Match{ID: id, Fields: cloneFields(fields)})
		}
	}

	if narrowed {
		it := candidates.Iterator()
		for it.HasNext() {
			id := it.Next()
			if fields, ok := c.docs[id]; ok {
				verify(id, fields)
			}
		}
	} else {
		for id, fields := range c.docs {
			verify(id, fields)
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches
}

// Count returns the number of documents matching the compiled filter document.
func (c *Collection) Count(doc *filter.Document) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	candidates, narrowed := c.equalityCandidatesLocked(doc)
	if narrowed && candidates.IsEmpty() {
		return 0
	}

	count := 0
	if narrowed {
		it := candidates.Iterator()
		for it.HasNext() {
			if fields, ok := c.docs[it.Next()]; ok && (doc == nil || doc.Matches(fields)) {
				count++
			}
		}
	} else {
		for _, fields := range c.docs {
			if doc == nil || doc.Matches(fields) {
				count++
			}
		}
	}
	return count
}

// equalityCandidatesLocked intersects the posting lists of every scalar
// (equality) constraint. narrowed is false when the filter carries no scalar
// constraint, in which case all documents are candidates.
// Caller must hold c.mu (read or write).
func (c *Collection) equalityCandidatesLocked(doc *filter.Document) (candidates *roaring.Bitmap, narrowed bool) {
	if doc == nil {
		return nil, false
	}
	doc.Each(func(name string, con filter.Constraint) {
		v, ok := con.Scalar()
		if !ok {
			return
		}
		var bm *roaring.Bitmap
		if valueMap, ok := c.inverted[name]; ok {
			bm = valueMap[v.Key()]
		}
		if bm == nil {
			bm = roaring.New() // no posting list: nothing can match
		}
		if candidates == nil {
			candidates = bm.Clone()
			narrowed = true
			return
		}
		candidates.And(bm)
	})
	return candidates, narrowed
}

// addToIndexLocked adds a document to the inverted index.
// Caller must hold c.mu.Lock().
func (c *Collection) addToIndexLocked(id uint32, doc filter.Fields) {
	for name, value := range doc {
		valueMap, ok := c.inverted[name]
		if !ok {
			valueMap = make(map[string]*roaring.Bitmap)
			c.inverted[name] = valueMap
		}
		key := value.Key()
		bm, ok := valueMap[key]
		if !ok {
			bm = roaring.New()
			valueMap[key] = bm
		}
		bm.Add(id)
	}
}

// removeFromIndexLocked removes a document from the inverted index.
// Caller must hold c.mu.Lock().
func (c *Collection) removeFromIndexLocked(id uint32, doc filter.Fields) {
	for name, value := range doc {
		valueMap, ok := c.inverted[name]
		if !ok {
			continue
		}
		key := value.Key()
		if bm, ok := valueMap[key]; ok {
			bm.Remove(id)
			if bm.IsEmpty() {
				delete(valueMap, key)
			}
		}
		if len(valueMap) == 0 {
			delete(c.inverted, name)
		}
	}
}

func cloneFields(doc filter.Fields) filter.Fields {
	if doc == nil {
		return nil
	}
	clone := make(filter.Fields, len(doc))
	for k, v := range doc {
		clone[k] = v
	}
	return clone
}
