package filterq

import (
	"context"

	"github.com/hupe1980/filterq/codec"
	"github.com/hupe1980/filterq/filter"
	"github.com/hupe1980/filterq/store"
)

// localFinder adapts an in-process store.Repository to the Finder interface.
// Results are JSON-encoded so local and remote backends return the same
// shape.
type localFinder struct {
	repo  *store.Repository
	codec codec.Codec
}

// Local adapts a store.Repository to the Finder interface.
func Local(repo *store.Repository) Finder {
	return &localFinder{repo: repo, codec: codec.Default}
}

type localResult struct {
	ID     uint32        `json:"id"`
	Fields filter.Fields `json:"fields"`
}

func (l *localFinder) Find(_ context.Context, collection string, doc *filter.Document) ([]byte, error) {
	matches := l.repo.Find(collection, doc)
	results := make([]localResult, len(matches))
	for i, m := range matches {
		results[i] = localResult{ID: m.ID, Fields: m.Fields}
	}
	return l.codec.Marshal(results)
}

func (l *localFinder) Count(_ context.Context, collection string, doc *filter.Document) (int64, error) {
	return int64(l.repo.Count(collection, doc)), nil
}
