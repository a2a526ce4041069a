package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFilter_Combinators(t *testing.T) {
	tests := []struct {
		name   string
		clause FilterClause
		want   string
	}{
		{
			name:   "all with single term",
			clause: FilterClause{Combinator: CombinatorAll, Field: "category.keyword", Values: []Value{Term("electronics")}},
			want:   `{"bool": {"filter": [{"term": {"category.keyword": "electronics"}}]}}`,
		},
		{
			name: "any with two ranges",
			clause: FilterClause{Combinator: CombinatorAny, Field: "price", Values: []Value{
				RangeValue{From: Bound(10), To: Bound(20)},
				RangeValue{From: Bound(30), To: Bound(40)},
			}},
			want: `{"bool": {"should": [
				{"range": {"price": {"gte": 10, "lte": 20}}},
				{"range": {"price": {"gte": 30, "lte": 40}}}
			]}}`,
		},
		{
			name:   "none negates every value",
			clause: FilterClause{Combinator: CombinatorNone, Field: "status", Values: []Value{Term("draft"), Term("deleted")}},
			want: `{"bool": {"must_not": [
				{"term": {"status": "draft"}},
				{"term": {"status": "deleted"}}
			]}}`,
		},
		{
			name:   "numeric and bool terms",
			clause: FilterClause{Combinator: CombinatorAll, Field: "flag", Values: []Value{Term(true), Term(42)}},
			want:   `{"bool": {"filter": [{"term": {"flag": true}}, {"term": {"flag": 42}}]}}`,
		},
		{
			name:   "open lower bound",
			clause: FilterClause{Combinator: CombinatorAny, Field: "price", Values: []Value{RangeValue{To: Bound(5)}}},
			want:   `{"bool": {"should": [{"range": {"price": {"lte": 5}}}]}}`,
		},
		{
			name:   "open upper bound keeps zero",
			clause: FilterClause{Combinator: CombinatorAny, Field: "price", Values: []Value{RangeValue{From: Bound(0)}}},
			want:   `{"bool": {"should": [{"range": {"price": {"gte": 0}}}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fragment, err := compileFilter(tt.clause)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, toJSON(t, fragment))
		})
	}
}

func TestCompileFilter_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		clause  FilterClause
		wantErr error
	}{
		{"missing field", FilterClause{Combinator: CombinatorAll, Values: []Value{Term("x")}}, ErrInvalidConfig},
		{"no values", FilterClause{Combinator: CombinatorAll, Field: "f"}, ErrInvalidConfig},
		{"empty combinator", FilterClause{Field: "f", Values: []Value{Term("x")}}, ErrUnsupported},
		{"unknown combinator", FilterClause{Combinator: "most", Field: "f", Values: []Value{Term("x")}}, ErrUnsupported},
		{"unbounded range", FilterClause{Combinator: CombinatorAny, Field: "f", Values: []Value{RangeValue{}}}, ErrInvalidConfig},
		{"nil value", FilterClause{Combinator: CombinatorAny, Field: "f", Values: []Value{nil}}, ErrUnsupported},
		{"non-scalar term", FilterClause{Combinator: CombinatorAny, Field: "f", Values: []Value{Term([]string{"a"})}}, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileFilter(tt.clause)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompileFilters_KeepsOrder(t *testing.T) {
	fragments, err := compileFilters([]FilterClause{
		{Combinator: CombinatorAll, Field: "b", Values: []Value{Term("1")}},
		{Combinator: CombinatorAll, Field: "a", Values: []Value{Term("2")}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"bool": {"filter": [{"term": {"b": "1"}}]}},
		{"bool": {"filter": [{"term": {"a": "2"}}]}}
	]`, toJSON(t, fragments))
}

func TestCompileFilters_Empty(t *testing.T) {
	fragments, err := compileFilters(nil)
	require.NoError(t, err)
	assert.Empty(t, fragments)
}
