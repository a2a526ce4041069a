package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rx3lixir/search-connector/internal/logger"
	"github.com/rx3lixir/search-connector/internal/opensearch/client"
	"github.com/spf13/viper"
)

const envPrefix = "SEARCH"

// Config - конфигурация приложения
type Config struct {
	Service    ServiceParams `mapstructure:"service"`
	Logger     logger.Config `mapstructure:"logger"`
	OpenSearch client.Config `mapstructure:"opensearch"`
	Server     ServerParams  `mapstructure:"server"`
	Metrics    MetricsParams `mapstructure:"metrics"`
	Query      QueryParams   `mapstructure:"query"`
}

type ServiceParams struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version"`
}

type ServerParams struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
}

type MetricsParams struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr" validate:"required_if=Enabled true"`
}

// Load читает конфигурацию из файла и переменных окружения SEARCH_*.
// Пустой path - поиск config.yaml в текущей директории, отсутствие файла не ошибка.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет теги validate и конфигурацию запросов
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Query.ToQueryConfig(); err != nil {
		return fmt.Errorf("invalid query config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	osDefaults := client.DefaultConfig()
	logDefaults := logger.DefaultConfig()

	v.SetDefault("service.name", "search-connector")
	v.SetDefault("service.version", "dev")

	v.SetDefault("logger.level", logDefaults.Level)
	v.SetDefault("logger.encoding", logDefaults.Encoding)

	v.SetDefault("opensearch.url", osDefaults.URL)
	v.SetDefault("opensearch.index_name", osDefaults.IndexName)
	v.SetDefault("opensearch.timeout", osDefaults.Timeout)
	v.SetDefault("opensearch.max_retries", osDefaults.MaxRetries)
	v.SetDefault("opensearch.max_idle_conns", osDefaults.MaxIdleConns)
	v.SetDefault("opensearch.retry_on_status", osDefaults.RetryOnStatus)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.addr", ":8091")
}
