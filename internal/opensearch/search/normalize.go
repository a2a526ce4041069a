package search

import (
	"fmt"
	"math"
	"strings"
)

const defaultResultsPerPage = 20

// normalizedRequest - провалидированный запрос с вычисленной пагинацией
type normalizedRequest struct {
	term string
	from int
	size int
	sort []SortOption

	// queryFilters попадают в query.bool.filter: сначала фильтры запроса
	// по полям без фасетов, затем фильтры конфигурации
	queryFilters []FilterClause
	// facetFilters - фильтры запроса по полям фасетов, уходят в post_filter
	// и в фильтры бакетов агрегаций
	facetFilters []FilterClause
}

func normalize(state RequestState, cfg QueryConfig) (normalizedRequest, error) {
	current := state.Current
	if current < 1 {
		current = 1
	}

	size := state.ResultsPerPage
	switch {
	case size == 0:
		size = defaultResultsPerPage
	case size < 0:
		size = 1
	}

	// from = (current-1)*size не должен переполнять int
	if maxPage := math.MaxInt/size + 1; current > maxPage {
		current = maxPage
	}

	for _, opt := range state.Sort {
		if opt.Field == "" {
			return normalizedRequest{}, fmt.Errorf("%w: sort field is required", ErrInvalidConfig)
		}
		if opt.Direction != SortAsc && opt.Direction != SortDesc {
			return normalizedRequest{}, fmt.Errorf("%w: sort direction %q on %q", ErrUnsupported, opt.Direction, opt.Field)
		}
	}

	facetFields := make(map[string]struct{}, len(cfg.Facets))
	for _, fc := range cfg.Facets {
		facetFields[fc.Field] = struct{}{}
	}

	req := normalizedRequest{
		term: strings.TrimSpace(state.SearchTerm),
		from: (current - 1) * size,
		size: size,
		sort: state.Sort,
	}

	for _, clause := range state.Filters {
		if _, ok := facetFields[clause.Field]; ok {
			req.facetFilters = append(req.facetFilters, clause)
			continue
		}
		req.queryFilters = append(req.queryFilters, clause)
	}
	req.queryFilters = append(req.queryFilters, cfg.Filters...)

	return req, nil
}
