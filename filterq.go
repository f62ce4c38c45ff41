package filterq

import (
	"context"

	"github.com/hupe1980/filterq/filter"
	"github.com/hupe1980/filterq/query"
)

// Finder executes compiled filter documents against a document store.
// client.Client implements it for remote stores; Local adapts an in-process
// store.Repository.
type Finder interface {
	Find(ctx context.Context, collection string, doc *filter.Document) ([]byte, error)
	Count(ctx context.Context, collection string, doc *filter.Document) (int64, error)
}

// FilterQ combines the query compiler with an optional Finder backend.
type FilterQ struct {
	compiler *query.Compiler
	finder   Finder
	logger   *Logger
}

// New creates a FilterQ. Without a Finder it is a pure compiler.
func New(opts ...Option) *FilterQ {
	o := applyOptions(opts)

	var compilerOpts []query.Option
	if o.anchored {
		compilerOpts = append(compilerOpts, query.WithAnchoredCoercion())
	}
	logger := o.logger
	compilerOpts = append(compilerOpts, query.WithDropHandler(func(token string) {
		logger.LogDroppedTerm(context.Background(), token)
	}))

	return &FilterQ{
		compiler: query.NewCompiler(compilerOpts...),
		finder:   o.finder,
		logger:   logger,
	}
}

// Compile translates a query string into compact filter-document text.
func (q *FilterQ) Compile(queryString string) (string, error) {
	doc, err := q.CompileDocument(queryString)
	if err != nil {
		return "", err
	}
	return doc.String(), nil
}

// CompileDocument translates a query string into a structured filter document.
func (q *FilterQ) CompileDocument(queryString string) (*filter.Document, error) {
	doc, err := q.compiler.CompileDocument(queryString)
	if err != nil {
		err = translateError(err)
		q.logger.LogCompile(context.Background(), 0, err)
		return nil, err
	}
	q.logger.LogCompile(context.Background(), doc.Len(), nil)
	return doc, nil
}

// Find compiles the query and runs it against the configured Finder,
// returning the raw JSON result set.
func (q *FilterQ) Find(ctx context.Context, collection, queryString string) ([]byte, error) {
	if q.finder == nil {
		return nil, ErrNoFinder
	}
	doc, err := q.CompileDocument(queryString)
	if err != nil {
		return nil, err
	}

	results, err := q.finder.Find(ctx, collection, doc)
	q.logger.LogFind(ctx, collection, doc.Len(), err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Count compiles the query and counts matching documents.
func (q *FilterQ) Count(ctx context.Context, collection, queryString string) (int64, error) {
	if q.finder == nil {
		return 0, ErrNoFinder
	}
	doc, err := q.CompileDocument(queryString)
	if err != nil {
		return 0, err
	}

	n, err := q.finder.Count(ctx, collection, doc)
	q.logger.LogFind(ctx, collection, doc.Len(), err)
	return n, err
}
