package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// CheckResult - результат одной проверки
type CheckResult struct {
	Status  Status         `json:"status"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Checker выполняет одну проверку
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// CheckerFunc позволяет использовать функцию как Checker
type CheckerFunc func(ctx context.Context) CheckResult

func (f CheckerFunc) Check(ctx context.Context) CheckResult {
	return f(ctx)
}

// Response - сводный ответ всех проверок
type Response struct {
	Status    Status                 `json:"status"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Health - реестр проверок
type Health struct {
	service string
	version string
	timeout time.Duration

	mu     sync.RWMutex
	checks map[string]Checker
}

type Option func(*Health)

// WithTimeout ограничивает время всех проверок одного вызова Check
func WithTimeout(timeout time.Duration) Option {
	return func(h *Health) {
		h.timeout = timeout
	}
}

func New(service, version string, opts ...Option) *Health {
	h := &Health{
		service: service,
		version: version,
		timeout: 5 * time.Second,
		checks:  make(map[string]Checker),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Health) AddCheck(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = checker
}

// Check запускает все проверки параллельно. Статус down, если упала хотя бы одна.
func (h *Health) Check(ctx context.Context) Response {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	checkers := make([]Checker, len(names))
	for i, name := range names {
		checkers[i] = h.checks[name]
	}
	h.mu.RUnlock()

	results := make([]CheckResult, len(names))
	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, checker Checker) {
			defer wg.Done()
			results[i] = checker.Check(ctx)
		}(i, checker)
	}
	wg.Wait()

	resp := Response{
		Status:    StatusUp,
		Service:   h.service,
		Version:   h.version,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]CheckResult, len(names)),
	}
	for i, name := range names {
		resp.Checks[name] = results[i]
		if results[i].Status != StatusUp {
			resp.Status = StatusDown
		}
	}
	return resp
}
