package config

import (
	"fmt"

	"github.com/rx3lixir/search-connector/internal/opensearch/search"
)

// QueryParams - конфигурация запросов в виде YAML/JSON.
// Тип фасета и комбинатор фильтра задаются строкой type.
type QueryParams struct {
	ResultFields      []ResultFieldParams `mapstructure:"result_fields" json:"result_fields" validate:"dive"`
	SearchFields      []SearchFieldParams `mapstructure:"search_fields" json:"search_fields" validate:"dive"`
	Facets            []FacetParams       `mapstructure:"facets" json:"facets" validate:"dive"`
	DisjunctiveFacets []string            `mapstructure:"disjunctive_facets" json:"disjunctive_facets" validate:"dive,required"`
	Filters           []FilterParams      `mapstructure:"filters" json:"filters" validate:"dive"`
}

type ResultFieldParams struct {
	Field   string         `mapstructure:"field" json:"field" validate:"required"`
	Snippet *SnippetParams `mapstructure:"snippet" json:"snippet"`
}

type SnippetParams struct {
	Size     *int `mapstructure:"size" json:"size" validate:"omitempty,min=1"`
	Fallback bool `mapstructure:"fallback" json:"fallback"`
}

type SearchFieldParams struct {
	Field  string   `mapstructure:"field" json:"field" validate:"required"`
	Weight *float64 `mapstructure:"weight" json:"weight" validate:"omitempty,gt=0"`
}

type FacetParams struct {
	Field  string        `mapstructure:"field" json:"field" validate:"required"`
	Type   string        `mapstructure:"type" json:"type" validate:"required"`
	Size   *int          `mapstructure:"size" json:"size" validate:"omitempty,min=1"`
	Sort   string        `mapstructure:"sort" json:"sort"`
	Ranges []RangeParams `mapstructure:"ranges" json:"ranges" validate:"dive"`
	Center string        `mapstructure:"center" json:"center"`
	Unit   string        `mapstructure:"unit" json:"unit"`
}

type RangeParams struct {
	Name string   `mapstructure:"name" json:"name" validate:"required"`
	From *float64 `mapstructure:"from" json:"from"`
	To   *float64 `mapstructure:"to" json:"to"`
}

// FilterParams - фильтр; элементы Values - скаляры или объекты {from, to}
type FilterParams struct {
	Type   string `mapstructure:"type" json:"type" validate:"required"`
	Field  string `mapstructure:"field" json:"field" validate:"required"`
	Values []any  `mapstructure:"values" json:"values" validate:"required,min=1"`
}

type SortParams struct {
	Field     string `mapstructure:"field" json:"field"`
	Direction string `mapstructure:"direction" json:"direction"`
}

// RequestParams - состояние запроса в JSON виде (CLI, HTTP)
type RequestParams struct {
	SearchTerm     string         `mapstructure:"search_term" json:"search_term"`
	Current        int            `mapstructure:"current" json:"current"`
	ResultsPerPage int            `mapstructure:"results_per_page" json:"results_per_page"`
	Filters        []FilterParams `mapstructure:"filters" json:"filters"`
	Sort           []SortParams   `mapstructure:"sort" json:"sort"`
}

// ToQueryConfig переводит конфигурацию в типизированный вид.
// Неизвестный type дает search.ErrUnsupported.
func (p QueryParams) ToQueryConfig() (search.QueryConfig, error) {
	cfg := search.QueryConfig{
		DisjunctiveFacets: append([]string(nil), p.DisjunctiveFacets...),
	}

	for _, rf := range p.ResultFields {
		field := search.ResultField{Field: rf.Field}
		if rf.Snippet != nil {
			field.Snippet = &search.Snippet{
				Size:     copyPtr(rf.Snippet.Size),
				Fallback: rf.Snippet.Fallback,
			}
		}
		cfg.ResultFields = append(cfg.ResultFields, field)
	}

	for _, sf := range p.SearchFields {
		cfg.SearchFields = append(cfg.SearchFields, search.SearchField{
			Field:  sf.Field,
			Weight: copyPtr(sf.Weight),
		})
	}

	for _, fp := range p.Facets {
		facet, err := fp.toFacet()
		if err != nil {
			return search.QueryConfig{}, err
		}
		cfg.Facets = append(cfg.Facets, search.FacetConfig{Field: fp.Field, Facet: facet})
	}

	filters, err := toFilterClauses(p.Filters)
	if err != nil {
		return search.QueryConfig{}, err
	}
	cfg.Filters = filters

	return cfg, nil
}

// ToRequestState переводит запрос в типизированный вид
func (p RequestParams) ToRequestState() (search.RequestState, error) {
	filters, err := toFilterClauses(p.Filters)
	if err != nil {
		return search.RequestState{}, err
	}

	state := search.RequestState{
		SearchTerm:     p.SearchTerm,
		Current:        p.Current,
		ResultsPerPage: p.ResultsPerPage,
		Filters:        filters,
	}
	for _, s := range p.Sort {
		state.Sort = append(state.Sort, search.SortOption{
			Field:     s.Field,
			Direction: search.SortDirection(s.Direction),
		})
	}
	return state, nil
}

func (fp FacetParams) toFacet() (search.Facet, error) {
	switch fp.Type {
	case "value":
		return search.ValueFacet{
			Size: copyPtr(fp.Size),
			Sort: search.FacetSort(fp.Sort),
		}, nil
	case "range":
		ranges := make([]search.NamedRange, 0, len(fp.Ranges))
		for _, r := range fp.Ranges {
			ranges = append(ranges, search.NamedRange{
				Name: r.Name,
				From: copyPtr(r.From),
				To:   copyPtr(r.To),
			})
		}
		return search.RangeFacet{
			Ranges: ranges,
			Center: fp.Center,
			Unit:   fp.Unit,
		}, nil
	default:
		return nil, fmt.Errorf("%w: facet type %q on %q", search.ErrUnsupported, fp.Type, fp.Field)
	}
}

func toFilterClauses(params []FilterParams) ([]search.FilterClause, error) {
	var clauses []search.FilterClause
	for _, fp := range params {
		clause := search.FilterClause{
			Combinator: search.Combinator(fp.Type),
			Field:      fp.Field,
		}
		switch clause.Combinator {
		case search.CombinatorAll, search.CombinatorAny, search.CombinatorNone:
		default:
			return nil, fmt.Errorf("%w: filter type %q on %q", search.ErrUnsupported, fp.Type, fp.Field)
		}

		for _, raw := range fp.Values {
			value, err := toFilterValue(fp.Field, raw)
			if err != nil {
				return nil, err
			}
			clause.Values = append(clause.Values, value)
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

// toFilterValue: объект с from/to - диапазон, иначе скаляр
func toFilterValue(field string, raw any) (search.Value, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return search.Term(raw), nil
	}

	var rv search.RangeValue
	for key, v := range obj {
		switch key {
		case "from", "to":
			f, ok := toFloat(v)
			if !ok {
				return nil, fmt.Errorf("%w: range bound %q on %q is not a number", search.ErrInvalidConfig, key, field)
			}
			if key == "from" {
				rv.From = &f
			} else {
				rv.To = &f
			}
		case "name":
			// имя диапазона из UI на запрос не влияет
		default:
			return nil, fmt.Errorf("%w: unknown range key %q on %q", search.ErrInvalidConfig, key, field)
		}
	}
	return rv, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
