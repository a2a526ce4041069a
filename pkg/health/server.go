package health

import (
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
)

// Routes регистрирует /health, /live и /info
func (h *Health) Routes(r chi.Router) {
	r.Get("/health", h.healthHandler)
	r.Get("/live", h.liveHandler)
	r.Get("/info", h.infoHandler)
}

func (h *Health) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := h.Check(r.Context())

	statusCode := http.StatusOK
	if response.Status == StatusDown {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// liveHandler простая проверка живости сервиса
func (h *Health) liveHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ALIVE"))
}

func (h *Health) infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"service":    h.service,
		"version":    h.version,
		"go_version": runtime.Version(),
	})
}
