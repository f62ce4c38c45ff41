package filter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentMatches(t *testing.T) {
	book := Fields{
		"title":   String("The Great Gatsby"),
		"pages":   Number(218),
		"isValid": Bool(true),
	}

	tests := []struct {
		name  string
		build func(d *Document)
		doc   Fields
		want  bool
	}{
		{
			name:  "empty filter matches everything",
			build: func(*Document) {},
			doc:   book,
			want:  true,
		},
		{
			name: "scalar string match",
			build: func(d *Document) {
				_ = d.SetScalar("title", String("The Great Gatsby"))
			},
			doc:  book,
			want: true,
		},
		{
			name: "scalar string mismatch",
			build: func(d *Document) {
				_ = d.SetScalar("title", String("Engineering"))
			},
			doc:  book,
			want: false,
		},
		{
			name: "scalar bool match",
			build: func(d *Document) {
				_ = d.SetScalar("isValid", Bool(true))
			},
			doc:  book,
			want: true,
		},
		{
			name: "missing field never matches",
			build: func(d *Document) {
				_ = d.SetScalar("author", String("anyone"))
			},
			doc:  book,
			want: false,
		},
		{
			name: "missing field never matches ne either",
			build: func(d *Document) {
				_ = d.SetOperator("author", OpNe, String("anyone"))
			},
			doc:  book,
			want: false,
		},
		{
			name: "range matches",
			build: func(d *Document) {
				_ = d.SetOperator("pages", OpGt, Number(100))
				_ = d.SetOperator("pages", OpLt, Number(500))
			},
			doc:  book,
			want: true,
		},
		{
			name: "range excludes",
			build: func(d *Document) {
				_ = d.SetOperator("pages", OpGt, Number(300))
			},
			doc:  book,
			want: false,
		},
		{
			name: "gte boundary",
			build: func(d *Document) {
				_ = d.SetOperator("pages", OpGte, Number(218))
			},
			doc:  book,
			want: true,
		},
		{
			name: "lte boundary",
			build: func(d *Document) {
				_ = d.SetOperator("pages", OpLte, Number(218))
			},
			doc:  book,
			want: true,
		},
		{
			name: "ne on number",
			build: func(d *Document) {
				_ = d.SetOperator("pages", OpNe, Number(288))
			},
			doc:  book,
			want: true,
		},
		{
			name: "ne excludes equal value",
			build: func(d *Document) {
				_ = d.SetOperator("pages", OpNe, Number(218))
			},
			doc:  book,
			want: false,
		},
		{
			name: "range on non-number never matches",
			build: func(d *Document) {
				_ = d.SetOperator("title", OpGt, Number(5))
			},
			doc:  book,
			want: false,
		},
		{
			name: "kind mismatch is not equal",
			build: func(d *Document) {
				_ = d.SetScalar("pages", String("218"))
			},
			doc:  book,
			want: false,
		},
		{
			name: "all constraints must hold",
			build: func(d *Document) {
				_ = d.SetScalar("isValid", Bool(true))
				_ = d.SetOperator("pages", OpGt, Number(500))
			},
			doc:  book,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDocument()
			tt.build(d)
			require.Equal(t, tt.want, d.Matches(tt.doc))
		})
	}
}
