// Package filterq compiles a simplified, human-typed search syntax into
// MongoDB-style filter documents and runs them against a document store.
//
// # Query syntax
//
//	query    := term (SP term)*
//	term     := field operator value
//	operator := ":" | "!:" | ">" | ">=" | "<" | "<="
//
// Values may be wrapped in double quotes to permit embedded spaces:
//
//	title:"The Great Gatsby" pages<250 isValid:true
//
// compiles to
//
//	{"title":"The Great Gatsby","pages":{"$lt":250.0},"isValid":true}
//
// Compilation is pure and deterministic: no I/O, no shared state between
// calls, safe for arbitrary concurrent use. Comparison terms on the same
// field merge into one operator set; a second equality on a field (or an
// equality meeting an operator set) is a conflict error.
//
// # Quick start
//
// Compile only:
//
//	fq := filterq.New()
//	text, err := fq.Compile(`pages>100 pages<500`)
//	// {"pages":{"$gt":100.0,"$lt":500.0}}
//
// Search an in-process repository:
//
//	repo := store.NewRepository()
//	repo.Collection("books").Insert(filter.Fields{
//	    "title": filter.String("The Great Gatsby"),
//	    "pages": filter.Number(218),
//	})
//	fq := filterq.New(filterq.WithFinder(filterq.Local(repo)))
//	results, err := fq.Find(ctx, "books", `pages<250`)
//
// Search a remote service:
//
//	rc := client.New("https://store.example.com",
//	    client.WithRateLimit(50, 10),
//	    client.WithScopes("find/*"),
//	)
//	fq := filterq.New(filterq.WithFinder(rc))
//	results, err := fq.Find(ctx, "books", `title:"Engineering"`)
//
// The compiled filter text travels byte-for-byte as the text/plain body of
// remote find requests; its exact shape is a wire contract with the remote
// parser.
package filterq
