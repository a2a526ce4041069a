package search

// RequestState - состояние поискового запроса пользователя.
// Не изменяется компилятором.
type RequestState struct {
	SearchTerm     string
	Current        int // номер страницы, начиная с 1
	ResultsPerPage int
	Filters        []FilterClause
	Sort           []SortOption
}

// SortOption - явная сортировка поверх сортировки по релевантности
type SortOption struct {
	Field     string
	Direction SortDirection
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// QueryConfig - конфигурация запроса. Передается по значению в каждый вызов,
// порядок слайсов определяет порядок полей в итоговом документе.
type QueryConfig struct {
	ResultFields      []ResultField
	SearchFields      []SearchField
	Facets            []FacetConfig
	DisjunctiveFacets []string
	Filters           []FilterClause
}

// ResultField - поле, возвращаемое в _source
type ResultField struct {
	Field   string
	Snippet *Snippet // nil - без подсветки
}

// Snippet - настройки подсветки поля
type Snippet struct {
	Size *int
	// Fallback принимается, но на документ не влияет
	Fallback bool
}

// SearchField - поле полнотекстового поиска с весом (nil - вес 1)
type SearchField struct {
	Field  string
	Weight *float64
}

// FacetConfig связывает поле с определением фасета
type FacetConfig struct {
	Field string
	Facet Facet
}

// Combinator - способ объединения значений одного фильтра
type Combinator string

const (
	CombinatorAll  Combinator = "all"
	CombinatorAny  Combinator = "any"
	CombinatorNone Combinator = "none"
)

// FilterClause - фильтр по одному полю
type FilterClause struct {
	Combinator Combinator
	Field      string
	Values     []Value
}

// Value - значение фильтра: TermValue или RangeValue
type Value interface {
	isFilterValue()
}

// TermValue - скалярное значение (string, число или bool)
type TermValue struct {
	Value any
}

// RangeValue - диапазон, хотя бы одна из границ обязательна
type RangeValue struct {
	From *float64
	To   *float64
}

func (TermValue) isFilterValue()  {}
func (RangeValue) isFilterValue() {}

// Term создает скалярное значение фильтра
func Term(v any) TermValue {
	return TermValue{Value: v}
}

// Bound возвращает указатель на границу диапазона
func Bound(v float64) *float64 {
	return &v
}

// Facet - определение фасета: ValueFacet или RangeFacet
type Facet interface {
	isFacet()
}

type FacetSort string

const (
	FacetSortCount FacetSort = "count"
	FacetSortValue FacetSort = "value"
)

// ValueFacet - фасет по значениям поля (terms агрегация).
// Пустой Sort равнозначен FacetSortCount, nil Size - размер по умолчанию.
type ValueFacet struct {
	Size *int
	Sort FacetSort
}

// RangeFacet - фасет по именованным диапазонам. Center и Unit вместе
// включают geo_distance агрегацию.
type RangeFacet struct {
	Ranges []NamedRange
	Center string
	Unit   string
}

// NamedRange - именованный диапазон фасета
type NamedRange struct {
	Name string
	From *float64
	To   *float64
}

func (ValueFacet) isFacet() {}
func (RangeFacet) isFacet() {}

// IsGeo сообщает, задан ли центр для geo_distance
func (f RangeFacet) IsGeo() bool {
	return f.Center != "" || f.Unit != ""
}
