package search

import (
	"fmt"
)

// compileFilters компилирует список фильтров, каждый в отдельный фрагмент
func compileFilters(clauses []FilterClause) ([]any, error) {
	fragments := make([]any, 0, len(clauses))
	for _, clause := range clauses {
		fragment, err := compileFilter(clause)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, fragment)
	}
	return fragments, nil
}

// compileFilter строит bool-фрагмент для одного фильтра:
// all -> filter, any -> should, none -> must_not
func compileFilter(clause FilterClause) (map[string]any, error) {
	if clause.Field == "" {
		return nil, fmt.Errorf("%w: filter field is required", ErrInvalidConfig)
	}
	if len(clause.Values) == 0 {
		return nil, fmt.Errorf("%w: filter on %q has no values", ErrInvalidConfig, clause.Field)
	}

	var occur string
	switch clause.Combinator {
	case CombinatorAll:
		occur = "filter"
	case CombinatorAny:
		occur = "should"
	case CombinatorNone:
		occur = "must_not"
	default:
		return nil, fmt.Errorf("%w: filter combinator %q on %q", ErrUnsupported, clause.Combinator, clause.Field)
	}

	checks := make([]any, 0, len(clause.Values))
	for _, value := range clause.Values {
		check, err := compileValue(clause.Field, value)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}

	return map[string]any{
		"bool": map[string]any{
			occur: checks,
		},
	}, nil
}

func compileValue(field string, value Value) (map[string]any, error) {
	switch v := value.(type) {
	case TermValue:
		if !isScalar(v.Value) {
			return nil, fmt.Errorf("%w: filter on %q has non-scalar value %T", ErrInvalidConfig, field, v.Value)
		}
		return map[string]any{
			"term": map[string]any{
				field: v.Value,
			},
		}, nil
	case RangeValue:
		bounds := rangeBounds(v.From, v.To)
		if len(bounds) == 0 {
			return nil, fmt.Errorf("%w: range filter on %q needs from or to", ErrInvalidConfig, field)
		}
		return buildRangeCheck(field, bounds), nil
	default:
		return nil, fmt.Errorf("%w: filter value %T on %q", ErrUnsupported, value, field)
	}
}

// rangeBounds возвращает только заданные границы, обе включительно
func rangeBounds(from, to *float64) map[string]any {
	bounds := map[string]any{}
	if from != nil {
		bounds["gte"] = *from
	}
	if to != nil {
		bounds["lte"] = *to
	}
	return bounds
}

func buildRangeCheck(field string, bounds map[string]any) map[string]any {
	return map[string]any{
		"range": map[string]any{
			field: bounds,
		},
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}
