package client

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rx3lixir/search-connector/internal/logger"
)

// Backoff - повтор операции с экспоненциальной задержкой и джиттером
type Backoff struct {
	maxAttempts   int
	baseDelay     time.Duration
	maxDelay      time.Duration
	backoffFactor float64
	logger        logger.Logger
}

func NewBackoff(log logger.Logger) *Backoff {
	return &Backoff{
		maxAttempts:   5,
		baseDelay:     500 * time.Millisecond,
		maxDelay:      30 * time.Second,
		backoffFactor: 2.0,
		logger:        log,
	}
}

// WithMaxAttempts задает количество попыток
func (b *Backoff) WithMaxAttempts(n int) *Backoff {
	if n < 1 {
		n = 1
	}
	b.maxAttempts = n
	return b
}

// WithBaseDelay задает задержку перед второй попыткой
func (b *Backoff) WithBaseDelay(delay time.Duration) *Backoff {
	b.baseDelay = delay
	return b
}

// Do выполняет operation, пока она не вернет nil или не кончатся попытки
func (b *Backoff) Do(ctx context.Context, operation func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= b.maxAttempts; attempt++ {
		lastErr = operation(ctx)
		if lastErr == nil {
			if attempt > 1 {
				b.logger.Infow("Operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		b.logger.Warnw("Operation failed",
			"attempt", attempt,
			"max_attempts", b.maxAttempts,
			"error", lastErr,
		)

		// Не ждем после последней попытки
		if attempt == b.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.delay(attempt)):
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", b.maxAttempts, lastErr)
}

func (b *Backoff) delay(attempt int) time.Duration {
	delay := float64(b.baseDelay) * math.Pow(b.backoffFactor, float64(attempt-1))

	// джиттер ±25%
	jitterRange := delay * 0.25
	delay += 2*jitterRange*rand.Float64() - jitterRange

	if d := time.Duration(delay); d < b.maxDelay {
		return d
	}
	return b.maxDelay
}
