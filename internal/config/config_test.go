package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rx3lixir/search-connector/internal/opensearch/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
service:
  name: catalog-search
  version: 1.2.0
logger:
  level: debug
  encoding: json
opensearch:
  url: http://opensearch:9200
  index_name: products
  timeout: 3s
server:
  addr: ":9000"
query:
  result_fields:
    - field: title
      snippet:
        size: 100
        fallback: true
    - field: price
  search_fields:
    - field: title
      weight: 2
    - field: description
  facets:
    - field: category.keyword
      type: value
    - field: price
      type: range
      ranges:
        - {name: "0-100", from: 0, to: 100}
        - {name: "100+", from: 100}
  disjunctive_facets: [category.keyword]
  filters:
    - type: all
      field: in_stock
      values: [true]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "catalog-search", cfg.Service.Name)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "http://opensearch:9200", cfg.OpenSearch.URL)
	assert.Equal(t, "products", cfg.OpenSearch.IndexName)
	assert.Equal(t, 3*time.Second, cfg.OpenSearch.Timeout)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, ":8091", cfg.Metrics.Addr)

	queryCfg, err := cfg.Query.ToQueryConfig()
	require.NoError(t, err)

	require.Len(t, queryCfg.ResultFields, 2)
	require.NotNil(t, queryCfg.ResultFields[0].Snippet)
	assert.Equal(t, 100, *queryCfg.ResultFields[0].Snippet.Size)
	assert.Nil(t, queryCfg.ResultFields[1].Snippet)

	require.Len(t, queryCfg.SearchFields, 2)
	assert.Equal(t, 2.0, *queryCfg.SearchFields[0].Weight)
	assert.Nil(t, queryCfg.SearchFields[1].Weight)

	require.Len(t, queryCfg.Facets, 2)
	assert.IsType(t, search.ValueFacet{}, queryCfg.Facets[0].Facet)
	rangeFacet, ok := queryCfg.Facets[1].Facet.(search.RangeFacet)
	require.True(t, ok)
	require.Len(t, rangeFacet.Ranges, 2)
	assert.Nil(t, rangeFacet.Ranges[1].To)

	require.Len(t, queryCfg.Filters, 1)
	assert.Equal(t, search.CombinatorAll, queryCfg.Filters[0].Combinator)
	assert.Equal(t, search.Term(true), queryCfg.Filters[0].Values[0])
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SEARCH_OPENSEARCH_INDEX_NAME", "from-env")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OpenSearch.IndexName)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad log level", "logger:\n  level: loud\n"},
		{"bad url", "opensearch:\n  url: not a url\n"},
		{"short timeout", "opensearch:\n  timeout: 10ms\n"},
		{"unknown facet type", "query:\n  facets:\n    - field: f\n      type: histogram\n"},
		{"filter without values", "query:\n  filters:\n    - type: all\n      field: f\n"},
		{"zero weight", "query:\n  search_fields:\n    - field: title\n      weight: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
