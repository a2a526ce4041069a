package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rx3lixir/search-connector/internal/logger"
	"github.com/rx3lixir/search-connector/internal/opensearch/search"
	"github.com/rx3lixir/search-connector/pkg/health"
	"github.com/rx3lixir/search-connector/pkg/metrics"
)

// Searcher выполняет скомпилированный запрос в OpenSearch
type Searcher interface {
	Search(ctx context.Context, state search.RequestState, cfg search.QueryConfig) (*search.Response, error)
}

type Server struct {
	searcher Searcher
	queryCfg search.QueryConfig
	health   *health.Health
	log      logger.Logger
}

func NewServer(searcher Searcher, queryCfg search.QueryConfig, h *health.Health, log logger.Logger) *Server {
	return &Server{
		searcher: searcher,
		queryCfg: queryCfg,
		health:   h,
		log:      log,
	}
}

// Routes возвращает роутер API
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	s.health.Routes(r)
	r.Post("/compile", s.compileHandler)
	r.Post("/search", s.searchHandler)

	return r
}

// compileHandler возвращает тело запроса без обращения к OpenSearch
func (s *Server) compileHandler(w http.ResponseWriter, r *http.Request) {
	state, err := decodeRequestState(w, r)
	if err != nil {
		s.writeError(w, "Compile", err)
		return
	}

	query, err := search.Compile(state, s.queryCfg)
	if err != nil {
		s.writeError(w, "Compile", err)
		return
	}

	writeJSON(w, http.StatusOK, query)
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	state, err := decodeRequestState(w, r)
	if err != nil {
		s.writeError(w, "Search", err)
		return
	}

	res, err := s.searcher.Search(r.Context(), state, s.queryCfg)
	if err != nil {
		s.writeError(w, "Search", err)
		return
	}

	s.log.Debugw("search request served",
		"method", "Search",
		"search_term", state.SearchTerm,
		"took", res.Took,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Body)
}
