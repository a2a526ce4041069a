package client

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config - подключение к OpenSearch и индекс, в котором выполняется поиск
type Config struct {
	URL                string        `mapstructure:"url" validate:"required,url"`
	IndexName          string        `mapstructure:"index_name" validate:"required"`
	Timeout            time.Duration `mapstructure:"timeout" validate:"min=1s"`
	MaxRetries         int           `mapstructure:"max_retries" validate:"min=0,max=5"`
	MaxIdleConns       int           `mapstructure:"max_idle_conns" validate:"min=0"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	RetryOnStatus      []int         `mapstructure:"retry_on_status" validate:"dive,min=400,max=599"`
}

func DefaultConfig() Config {
	return Config{
		URL:           "http://localhost:9200",
		IndexName:     "documents",
		Timeout:       5 * time.Second,
		MaxRetries:    3,
		MaxIdleConns:  10,
		RetryOnStatus: []int{502, 503, 504, 429},
	}
}

// Validate проверяет теги validate; конструктор клиента вызывает его сам,
// так что клиент можно собрать и без internal/config
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid opensearch config: %w", err)
	}
	return nil
}
