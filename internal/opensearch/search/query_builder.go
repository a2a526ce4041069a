package search

import (
	"fmt"
)

// QueryBuilder компилирует состояние поиска и конфигурацию в тело запроса
// OpenSearch. Состояния не хранит, безопасен для конкурентного использования.
type QueryBuilder struct{}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Build возвращает документ запроса. Ошибки оборачивают ErrInvalidConfig
// или ErrUnsupported.
func (qb *QueryBuilder) Build(state RequestState, cfg QueryConfig) (map[string]any, error) {
	req, err := normalize(state, cfg)
	if err != nil {
		return nil, err
	}

	textMatch, err := buildTextMatch(req.term, cfg.SearchFields)
	if err != nil {
		return nil, err
	}

	filters, err := compileFilters(req.queryFilters)
	if err != nil {
		return nil, err
	}

	aggs, err := buildAggregations(cfg.Facets, cfg.DisjunctiveFacets, req.facetFilters)
	if err != nil {
		return nil, err
	}

	sourceFields, highlight, err := qb.buildProjection(cfg.ResultFields)
	if err != nil {
		return nil, err
	}

	query := map[string]any{
		"_source": map[string]any{
			"includes": sourceFields,
		},
		"from": req.from,
		"size": req.size,
		"sort": qb.buildSort(req.sort),
	}

	if highlight != nil {
		query["highlight"] = highlight
	}

	if boolQuery := qb.buildBoolQuery(textMatch, filters); boolQuery != nil {
		query["query"] = boolQuery
	}

	if len(req.facetFilters) > 0 {
		postFilter, err := buildBucketFilter(req.facetFilters, "")
		if err != nil {
			return nil, err
		}
		query["post_filter"] = postFilter
	}

	if aggs != nil {
		query["aggs"] = aggs
	}

	return query, nil
}

// buildBoolQuery возвращает nil, если нет ни текста, ни фильтров:
// такой запрос не должен превращаться в match_all
func (qb *QueryBuilder) buildBoolQuery(textMatch map[string]any, filters []any) map[string]any {
	if textMatch == nil && len(filters) == 0 {
		return nil
	}

	boolQuery := map[string]any{}
	if textMatch != nil {
		boolQuery["must"] = []any{textMatch}
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	return map[string]any{
		"bool": boolQuery,
	}
}

func (qb *QueryBuilder) buildSort(options []SortOption) any {
	if len(options) == 0 {
		return "_score"
	}

	sort := make([]any, 0, len(options))
	for _, opt := range options {
		sort = append(sort, map[string]any{
			opt.Field: string(opt.Direction),
		})
	}
	return sort
}

// buildProjection возвращает список полей для _source и настройки подсветки
// (nil, если ни у одного поля нет snippet)
func (qb *QueryBuilder) buildProjection(resultFields []ResultField) ([]string, map[string]any, error) {
	includes := make([]string, 0, len(resultFields))
	highlightFields := map[string]any{}

	for _, rf := range resultFields {
		if rf.Field == "" {
			return nil, nil, fmt.Errorf("%w: result field name is required", ErrInvalidConfig)
		}
		includes = append(includes, rf.Field)

		if rf.Snippet == nil {
			continue
		}
		options := map[string]any{}
		if rf.Snippet.Size != nil {
			if *rf.Snippet.Size < 1 {
				return nil, nil, fmt.Errorf("%w: snippet size of %q must be positive", ErrInvalidConfig, rf.Field)
			}
			options["fragment_size"] = *rf.Snippet.Size
		}
		highlightFields[rf.Field] = options
	}

	if len(highlightFields) == 0 {
		return includes, nil, nil
	}

	return includes, map[string]any{
		"fields": highlightFields,
	}, nil
}
