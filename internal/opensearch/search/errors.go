package search

import "errors"

var (
	// ErrInvalidConfig - структурная ошибка в запросе или конфигурации
	ErrInvalidConfig = errors.New("invalid query configuration")
	// ErrUnsupported - неизвестный комбинатор, тип фасета или режим сортировки
	ErrUnsupported = errors.New("unsupported feature")
)
