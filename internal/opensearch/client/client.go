package client

import (
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/opensearch-project/opensearch-go"
	"github.com/rx3lixir/search-connector/internal/logger"
)

// Client держит opensearch-go клиент вместе с индексом поиска
type Client struct {
	native *opensearch.Client
	index  string
	logger logger.Logger
}

func New(cfg Config, log logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	native, err := opensearch.NewClient(opensearch.Config{
		Addresses:     []string{cfg.URL},
		Transport:     newTransport(cfg),
		RetryOnStatus: cfg.RetryOnStatus,
		MaxRetries:    cfg.MaxRetries,
		DisableRetry:  cfg.MaxRetries == 0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	log.Debugw("OpenSearch client created",
		"url", cfg.URL,
		"index", cfg.IndexName,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries,
	)

	return &Client{
		native: native,
		index:  cfg.IndexName,
		logger: log,
	}, nil
}

// newTransport ограничивает ожидание заголовков ответа таймаутом запроса
func newTransport(cfg Config) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = cfg.MaxIdleConns
	transport.ResponseHeaderTimeout = cfg.Timeout
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
	return transport
}

// Native возвращает клиент opensearch-go для низкоуровневых вызовов
func (c *Client) Native() *opensearch.Client {
	return c.native
}

func (c *Client) IndexName() string {
	return c.index
}
