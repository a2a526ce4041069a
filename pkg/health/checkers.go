package health

import (
	"context"
	"time"
)

// Pinger - все, что умеет проверить доступность бэкенда
type Pinger interface {
	Check(ctx context.Context) error
}

// ClusterReporter отдает состояние кластера. Ошибка при непустых
// деталях означает, что кластер отвечает, но нездоров.
type ClusterReporter interface {
	ClusterDetails(ctx context.Context) (map[string]any, error)
}

// OpenSearchChecker проверка OpenSearch через ping. Если pinger
// реализует ClusterReporter, в детали попадает состояние кластера.
func OpenSearchChecker(pinger Pinger) Checker {
	return CheckerFunc(func(ctx context.Context) CheckResult {
		start := time.Now()
		err := pinger.Check(ctx)

		details := map[string]any{}
		if reporter, ok := pinger.(ClusterReporter); ok && err == nil {
			var cluster map[string]any
			cluster, err = reporter.ClusterDetails(ctx)
			for k, v := range cluster {
				details[k] = v
			}
		}
		details["duration_ms"] = time.Since(start).Milliseconds()

		if err != nil {
			return CheckResult{
				Status:  StatusDown,
				Error:   err.Error(),
				Details: details,
			}
		}

		return CheckResult{
			Status:  StatusUp,
			Details: details,
		}
	})
}

// QueryConfigChecker проверяет, что конфигурация запросов компилируется
func QueryConfigChecker(compile func() error) Checker {
	return CheckerFunc(func(ctx context.Context) CheckResult {
		if err := compile(); err != nil {
			return CheckResult{Status: StatusDown, Error: err.Error()}
		}
		return CheckResult{Status: StatusUp}
	})
}
