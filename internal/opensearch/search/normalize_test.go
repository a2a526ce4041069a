package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_PartitionsFilters(t *testing.T) {
	state := RequestState{
		SearchTerm: "  phone ",
		Current:    2,
		Filters: []FilterClause{
			{Combinator: CombinatorAll, Field: "brand", Values: []Value{Term("apple")}},
			{Combinator: CombinatorAny, Field: "color", Values: []Value{Term("red")}},
		},
	}
	cfg := QueryConfig{
		Facets: []FacetConfig{{Field: "color", Facet: ValueFacet{}}},
		Filters: []FilterClause{
			{Combinator: CombinatorAll, Field: "visible", Values: []Value{Term(true)}},
		},
	}

	req, err := normalize(state, cfg)
	require.NoError(t, err)

	assert.Equal(t, "phone", req.term)
	assert.Equal(t, 20, req.from)
	assert.Equal(t, 20, req.size)

	require.Len(t, req.queryFilters, 2)
	assert.Equal(t, "brand", req.queryFilters[0].Field)
	assert.Equal(t, "visible", req.queryFilters[1].Field)

	require.Len(t, req.facetFilters, 1)
	assert.Equal(t, "color", req.facetFilters[0].Field)

	// конфигурация не меняется
	assert.Len(t, cfg.Filters, 1)
}

func TestNormalize_SortValidation(t *testing.T) {
	_, err := normalize(RequestState{Sort: []SortOption{{Direction: SortAsc}}}, QueryConfig{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = normalize(RequestState{Sort: []SortOption{{Field: "price"}}}, QueryConfig{})
	assert.ErrorIs(t, err, ErrUnsupported)

	req, err := normalize(RequestState{Sort: []SortOption{{Field: "price", Direction: SortDesc}}}, QueryConfig{})
	require.NoError(t, err)
	assert.Len(t, req.sort, 1)
}
