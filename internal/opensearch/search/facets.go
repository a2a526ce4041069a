package search

import (
	"fmt"
)

const (
	facetBucketAll    = "facet_bucket_all"
	facetBucketPrefix = "facet_bucket_"
	defaultFacetSize  = 20
)

// buildAggregations собирает агрегации фасетов. Все фасеты лежат под общей
// оберткой facet_bucket_all, фильтр которой - все фильтры по полям фасетов.
// Дизъюнктивный фасет с активным фильтром по своему полю получает отдельную
// обертку facet_bucket_<field>, где фильтр по этому полю исключен.
func buildAggregations(facets []FacetConfig, disjunctiveFacets []string, facetFilters []FilterClause) (map[string]any, error) {
	if len(facets) == 0 {
		return nil, nil
	}

	disjunctive := make(map[string]bool, len(disjunctiveFacets))
	for _, field := range disjunctiveFacets {
		disjunctive[field] = true
	}
	active := make(map[string]bool, len(facetFilters))
	for _, clause := range facetFilters {
		active[clause.Field] = true
	}

	aggs := map[string]any{}
	shared := map[string]any{}
	seen := make(map[string]bool, len(facets))

	for _, fc := range facets {
		if fc.Field == "" {
			return nil, fmt.Errorf("%w: facet field is required", ErrInvalidConfig)
		}
		if seen[fc.Field] {
			return nil, fmt.Errorf("%w: facet %q configured twice", ErrInvalidConfig, fc.Field)
		}
		seen[fc.Field] = true

		// обертка дизъюнктивного фасета не должна совпасть с общей
		if disjunctive[fc.Field] && facetBucketPrefix+fc.Field == facetBucketAll {
			return nil, fmt.Errorf("%w: disjunctive facet %q clashes with %s", ErrInvalidConfig, fc.Field, facetBucketAll)
		}

		agg, err := compileFacet(fc.Field, fc.Facet)
		if err != nil {
			return nil, err
		}

		if !disjunctive[fc.Field] || !active[fc.Field] {
			shared[fc.Field] = agg
			continue
		}

		filter, err := buildBucketFilter(facetFilters, fc.Field)
		if err != nil {
			return nil, err
		}
		aggs[facetBucketPrefix+fc.Field] = map[string]any{
			"aggs": map[string]any{
				fc.Field: agg,
			},
			"filter": filter,
		}
	}

	filter, err := buildBucketFilter(facetFilters, "")
	if err != nil {
		return nil, err
	}
	aggs[facetBucketAll] = map[string]any{
		"aggs":   shared,
		"filter": filter,
	}

	return aggs, nil
}

// buildBucketFilter - конъюнкция фильтров, кроме фильтров по полю exclude.
// Пустой список сериализуется как "must": [].
func buildBucketFilter(clauses []FilterClause, exclude string) (map[string]any, error) {
	must := make([]any, 0, len(clauses))
	for _, clause := range clauses {
		if exclude != "" && clause.Field == exclude {
			continue
		}
		fragment, err := compileFilter(clause)
		if err != nil {
			return nil, err
		}
		must = append(must, fragment)
	}

	return map[string]any{
		"bool": map[string]any{
			"must": must,
		},
	}, nil
}

func compileFacet(field string, facet Facet) (map[string]any, error) {
	switch f := facet.(type) {
	case ValueFacet:
		return buildTermsAggregation(field, f)
	case RangeFacet:
		if err := validateRanges(field, f.Ranges); err != nil {
			return nil, err
		}
		if f.IsGeo() {
			return buildGeoDistanceAggregation(field, f)
		}
		return buildRangeFiltersAggregation(field, f.Ranges), nil
	default:
		return nil, fmt.Errorf("%w: facet type %T on %q", ErrUnsupported, facet, field)
	}
}

func buildTermsAggregation(field string, f ValueFacet) (map[string]any, error) {
	size := defaultFacetSize
	if f.Size != nil {
		if *f.Size < 1 {
			return nil, fmt.Errorf("%w: facet %q size must be positive", ErrInvalidConfig, field)
		}
		size = *f.Size
	}

	var order map[string]any
	switch f.Sort {
	case "", FacetSortCount:
		order = map[string]any{"_count": "desc"}
	case FacetSortValue:
		order = map[string]any{"_key": "asc"}
	default:
		return nil, fmt.Errorf("%w: facet sort %q on %q", ErrUnsupported, f.Sort, field)
	}

	return map[string]any{
		"terms": map[string]any{
			"field": field,
			"size":  size,
			"order": order,
		},
	}, nil
}

// buildRangeFiltersAggregation - по именованному filters-бакету на диапазон
func buildRangeFiltersAggregation(field string, ranges []NamedRange) map[string]any {
	filters := make(map[string]any, len(ranges))
	for _, r := range ranges {
		filters[r.Name] = buildRangeCheck(field, rangeBounds(r.From, r.To))
	}

	return map[string]any{
		"filters": map[string]any{
			"filters": filters,
		},
	}
}

func buildGeoDistanceAggregation(field string, f RangeFacet) (map[string]any, error) {
	if f.Center == "" || f.Unit == "" {
		return nil, fmt.Errorf("%w: geo facet %q needs both center and unit", ErrInvalidConfig, field)
	}

	ranges := make([]any, 0, len(f.Ranges))
	for _, r := range f.Ranges {
		entry := map[string]any{"key": r.Name}
		if r.From != nil {
			entry["from"] = *r.From
		}
		if r.To != nil {
			entry["to"] = *r.To
		}
		ranges = append(ranges, entry)
	}

	return map[string]any{
		"geo_distance": map[string]any{
			"field":  field,
			"origin": f.Center,
			"unit":   f.Unit,
			"keyed":  true,
			"ranges": ranges,
		},
	}, nil
}

func validateRanges(field string, ranges []NamedRange) error {
	if len(ranges) == 0 {
		return fmt.Errorf("%w: range facet %q has no ranges", ErrInvalidConfig, field)
	}

	names := make(map[string]bool, len(ranges))
	for _, r := range ranges {
		if r.Name == "" {
			return fmt.Errorf("%w: range facet %q has an unnamed range", ErrInvalidConfig, field)
		}
		if names[r.Name] {
			return fmt.Errorf("%w: range facet %q repeats range %q", ErrInvalidConfig, field, r.Name)
		}
		names[r.Name] = true

		if r.From == nil && r.To == nil {
			return fmt.Errorf("%w: range %q of facet %q needs from or to", ErrInvalidConfig, r.Name, field)
		}
	}
	return nil
}
