package search

import (
	"fmt"
	"strconv"
)

// Стратегии multi_match, объединяемые через should
var matchStrategies = []struct {
	kind     string
	operator string
}{
	{kind: "best_fields", operator: "and"},
	{kind: "cross_fields"},
	{kind: "phrase"},
	{kind: "phrase_prefix"},
}

// buildTextMatch строит полнотекстовый запрос. Для пустого term возвращает nil.
func buildTextMatch(term string, searchFields []SearchField) (map[string]any, error) {
	if term == "" {
		return nil, nil
	}

	fields, err := formatSearchFields(searchFields)
	if err != nil {
		return nil, err
	}

	should := make([]any, 0, len(matchStrategies))
	for _, strategy := range matchStrategies {
		multiMatch := map[string]any{
			"query":  term,
			"fields": append([]string{}, fields...),
			"type":   strategy.kind,
		}
		if strategy.operator != "" {
			multiMatch["operator"] = strategy.operator
		}
		should = append(should, map[string]any{
			"multi_match": multiMatch,
		})
	}

	return map[string]any{
		"bool": map[string]any{
			"should":               should,
			"minimum_should_match": 1,
		},
	}, nil
}

// formatSearchFields возвращает поля вида "title^2". Вес пишется всегда,
// пустой список означает поиск по полям по умолчанию.
func formatSearchFields(searchFields []SearchField) ([]string, error) {
	fields := make([]string, 0, len(searchFields))
	for _, sf := range searchFields {
		if sf.Field == "" {
			return nil, fmt.Errorf("%w: search field name is required", ErrInvalidConfig)
		}

		weight := 1.0
		if sf.Weight != nil {
			weight = *sf.Weight
		}
		if weight <= 0 {
			return nil, fmt.Errorf("%w: search field %q weight must be positive", ErrInvalidConfig, sf.Field)
		}

		fields = append(fields, sf.Field+"^"+strconv.FormatFloat(weight, 'f', -1, 64))
	}
	return fields, nil
}
