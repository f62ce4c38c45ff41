// Package query compiles a simplified, human-typed search syntax into the
// operator-keyed filter documents a document-store query engine expects:
//
//	title:"The Great Gatsby" pages<250
//
// becomes
//
//	{"title":"The Great Gatsby","pages":{"$lt":250.0}}
//
// Compilation is pure text-to-text: no I/O, no shared state between calls,
// safe for arbitrary concurrent use. Data flows strictly
// Tokenize -> ParseTerm -> Coerce -> filter.Document -> serialization.
package query

import (
	"github.com/hupe1980/filterq/filter"
)

// Compiler turns query strings into filter documents. The zero value is
// usable; NewCompiler applies options.
type Compiler struct {
	coercer Coercer
	onDrop  func(token string)
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithAnchoredCoercion requires value literals to match the whole raw value
// instead of any substring (see Coercer.Anchored).
func WithAnchoredCoercion() Option {
	return func(c *Compiler) { c.coercer.Anchored = true }
}

// WithDropHandler registers a hook invoked for every token that contains no
// recognized operator and is therefore dropped. Dropped tokens are otherwise
// silent: the compile succeeds with fewer constraints than terms supplied.
func WithDropHandler(fn func(token string)) Option {
	return func(c *Compiler) { c.onDrop = fn }
}

// NewCompiler creates a Compiler.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile translates a query string into compact filter-document text.
// An empty query, or one whose terms are all dropped, compiles to "{}",
// which downstream consumers read as "match everything".
func (c *Compiler) Compile(queryString string) (string, error) {
	doc, err := c.CompileDocument(queryString)
	if err != nil {
		return "", err
	}
	return doc.String(), nil
}

// CompileDocument translates a query string into a structured filter
// document, processing terms strictly left to right. The only failure mode
// is a field-constraint conflict; it is reported as *filter.ConflictError.
func (c *Compiler) CompileDocument(queryString string) (*filter.Document, error) {
	doc := filter.NewDocument()
	for _, token := range Tokenize(queryString) {
		term, ok := ParseTerm(token)
		if !ok {
			if c.onDrop != nil {
				c.onDrop(token)
			}
			continue
		}
		value := c.coercer.Coerce(term.Raw)

		var err error
		if term.Op == OpEq {
			err = doc.SetScalar(term.Field, value)
		} else {
			err = doc.SetOperator(term.Field, term.Op.Symbol(), value)
		}
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Compile is a convenience wrapper around a zero-configuration Compiler.
func Compile(queryString string) (string, error) {
	return (&Compiler{}).Compile(queryString)
}
