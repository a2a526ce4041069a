package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rx3lixir/search-connector/internal/logger"
	"github.com/rx3lixir/search-connector/internal/opensearch/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clusterInfo = `{"version": {"number": "2.11.0", "distribution": "opensearch"}, "tagline": "The OpenSearch Project: https://opensearch.org/"}`

// fakeNode отвечает на корневой запрос как OpenSearch, остальное передает search
func fakeNode(t *testing.T, search http.HandlerFunc) *client.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			_, _ = io.WriteString(w, clusterInfo)
			return
		}
		search(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := client.DefaultConfig()
	cfg.URL = srv.URL
	cfg.IndexName = "products"

	c, err := client.New(cfg, logger.Nop())
	require.NoError(t, err)
	return c
}

func TestSearcher_Search(t *testing.T) {
	var gotBody, gotPath, gotTrackTotal string
	c := fakeNode(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotPath = r.URL.Path
		gotTrackTotal = r.URL.Query().Get("track_total_hits")
		_, _ = io.WriteString(w, `{"took": 3, "hits": {"total": {"value": 1}, "hits": []}}`)
	})

	res, err := NewSearcher(c, logger.Nop()).Search(context.Background(), testState(), testConfig())
	require.NoError(t, err)

	assert.JSONEq(t, `{"took": 3, "hits": {"total": {"value": 1}, "hits": []}}`, string(res.Body))
	assert.Equal(t, "/products/_search", gotPath)
	assert.Equal(t, "true", gotTrackTotal)

	want, err := NewQueryBuilder().Build(testState(), testConfig())
	require.NoError(t, err)
	assert.JSONEq(t, toJSON(t, want), gotBody)
}

func TestSearcher_ErrorStatus(t *testing.T) {
	c := fakeNode(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": {"type": "parsing_exception"}}`)
	})

	_, err := NewSearcher(c, logger.Nop()).Search(context.Background(), testState(), testConfig())
	require.Error(t, err)

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)
	assert.Contains(t, respErr.Body, "parsing_exception")
}

func TestSearcher_CompileErrorSkipsBackend(t *testing.T) {
	var calls atomic.Int32
	c := fakeNode(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	cfg := testConfig()
	cfg.Filters = []FilterClause{{Combinator: "xor", Field: "f", Values: []Value{Term(1)}}}

	_, err := NewSearcher(c, logger.Nop()).Search(context.Background(), testState(), cfg)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Zero(t, calls.Load())
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "success", ErrorKind(nil))
	assert.Equal(t, "invalid_config", ErrorKind(fmt.Errorf("%w: x", ErrInvalidConfig)))
	assert.Equal(t, "unsupported", ErrorKind(fmt.Errorf("%w: x", ErrUnsupported)))
	assert.Equal(t, "error", ErrorKind(errors.New("boom")))
}

func TestSearchType(t *testing.T) {
	text, err := NewQueryBuilder().Build(testState(), testConfig())
	require.NoError(t, err)
	assert.Equal(t, "text_search", searchType(text))

	state := testState()
	state.SearchTerm = ""
	filtered, err := NewQueryBuilder().Build(state, testConfig())
	require.NoError(t, err)
	assert.Equal(t, "filter", searchType(filtered))

	browse, err := NewQueryBuilder().Build(RequestState{}, QueryConfig{})
	require.NoError(t, err)
	assert.Equal(t, "browse", searchType(browse))
}
