package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rx3lixir/search-connector/internal/logger"
	"github.com/rx3lixir/search-connector/internal/opensearch/client"
	"github.com/rx3lixir/search-connector/pkg/metrics"
)

// Compile собирает документ запроса и пишет метрики компиляции
func Compile(state RequestState, cfg QueryConfig) (map[string]any, error) {
	start := time.Now()
	query, err := NewQueryBuilder().Build(state, cfg)
	metrics.RecordQueryCompilation(err, time.Since(start), ErrorKind)
	return query, err
}

// ErrorKind возвращает метку для ошибки компиляции
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	default:
		return "error"
	}
}

// Response - сырой ответ OpenSearch, разбор остается вызывающему
type Response struct {
	Body json.RawMessage
	Took time.Duration
}

// ResponseError - ответ OpenSearch с кодом ошибки
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("search failed with status %d: %s", e.StatusCode, e.Body)
}

type Searcher struct {
	client *client.Client
	logger logger.Logger
}

func NewSearcher(client *client.Client, logger logger.Logger) *Searcher {
	return &Searcher{
		client: client,
		logger: logger,
	}
}

// Search компилирует запрос и выполняет его в индексе клиента
func (s *Searcher) Search(ctx context.Context, state RequestState, cfg QueryConfig) (*Response, error) {
	query, err := Compile(state, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compile search query: %w", err)
	}

	queryBody, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	index := s.client.IndexName()
	native := s.client.Native()

	s.logger.Debugw("Executing OpenSearch query",
		"index", index,
		"search_term", state.SearchTerm,
		"from", query["from"],
		"size", query["size"],
	)

	start := time.Now()
	res, err := native.Search(
		native.Search.WithContext(ctx),
		native.Search.WithIndex(index),
		native.Search.WithBody(bytes.NewReader(queryBody)),
		native.Search.WithTrackTotalHits(true),
	)
	took := time.Since(start)

	if err != nil {
		metrics.RecordOpenSearchOperation("search", index, metrics.StatusFromError(err), took)
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.RecordOpenSearchOperation("search", index, "error", took)
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if res.IsError() {
		metrics.RecordOpenSearchOperation("search", index, "error", took)
		s.logger.Errorw("OpenSearch query failed",
			"status", res.Status(),
			"error_body", string(body),
			"query", string(queryBody),
		)
		return nil, &ResponseError{StatusCode: res.StatusCode, Body: string(body)}
	}

	metrics.RecordOpenSearchOperation("search", index, "success", took)
	metrics.RecordSearchRequest(searchType(query), took)

	s.logger.Infow("Search completed",
		"index", index,
		"search_term", state.SearchTerm,
		"search_time", took,
	)

	return &Response{Body: body, Took: took}, nil
}

func searchType(query map[string]any) string {
	if _, ok := query["query"]; !ok {
		return "browse"
	}
	boolQuery, _ := query["query"].(map[string]any)["bool"].(map[string]any)
	if _, ok := boolQuery["must"]; ok {
		return "text_search"
	}
	return "filter"
}
