package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rx3lixir/search-connector/internal/config"
	"github.com/rx3lixir/search-connector/internal/opensearch/search"
)

var errBadRequest = errors.New("bad request")

// maxRequestBytes ограничивает тело запроса состояния поиска
const maxRequestBytes = 1 << 20

func decodeRequestState(w http.ResponseWriter, r *http.Request) (search.RequestState, error) {
	var params config.RequestParams

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		return search.RequestState{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	return params.ToRequestState()
}

// statusFromError сопоставляет ошибку с HTTP статусом
func statusFromError(err error) int {
	var respErr *search.ResponseError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, search.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrUnsupported):
		return http.StatusUnprocessableEntity
	case errors.As(err, &respErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, method string, err error) {
	code := statusFromError(err)
	if code >= http.StatusInternalServerError {
		s.log.Errorw("request failed", "method", method, "error", err)
	} else {
		s.log.Warnw("request rejected", "method", method, "error", err)
	}

	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
