package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type HealthChecker struct {
	client     *Client
	retryDelay time.Duration
}

func NewHealthChecker(client *Client) *HealthChecker {
	return &HealthChecker{
		client:     client,
		retryDelay: 500 * time.Millisecond,
	}
}

// Check пингует кластер
func (h *HealthChecker) Check(ctx context.Context) error {
	native := h.client.Native()
	res, err := native.Ping(native.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to ping opensearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch ping failed with status: %s", res.Status())
	}
	return nil
}

// WaitForHealthy ждет ответа кластера не более maxAttempts раз
func (h *HealthChecker) WaitForHealthy(ctx context.Context, maxAttempts int) error {
	backoff := NewBackoff(h.client.logger).
		WithMaxAttempts(maxAttempts).
		WithBaseDelay(h.retryDelay)
	if err := backoff.Do(ctx, h.Check); err != nil {
		return fmt.Errorf("opensearch not healthy: %w", err)
	}
	return nil
}

func (h *HealthChecker) ClusterHealth(ctx context.Context) (*ClusterHealth, error) {
	native := h.client.Native()
	res, err := native.Cluster.Health(native.Cluster.Health.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get cluster health: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("cluster health request failed: %s", res.Status())
	}

	var health ClusterHealth
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode cluster health response: %w", err)
	}
	return &health, nil
}

// ClusterDetails - состояние кластера для /health. Красный статус - ошибка,
// детали при этом все равно возвращаются.
func (h *HealthChecker) ClusterDetails(ctx context.Context) (map[string]any, error) {
	health, err := h.ClusterHealth(ctx)
	if err != nil {
		return nil, err
	}

	details := map[string]any{
		"cluster_name":      health.ClusterName,
		"cluster_status":    health.Status,
		"number_of_nodes":   health.NumberOfNodes,
		"unassigned_shards": health.UnassignedShards,
	}
	if !health.IsHealthy() {
		return details, fmt.Errorf("opensearch cluster status is %s", health.Status)
	}
	return details, nil
}

type ClusterHealth struct {
	ClusterName       string `json:"cluster_name"`
	Status            string `json:"status"`
	NumberOfNodes     int    `json:"number_of_nodes"`
	NumberOfDataNodes int    `json:"number_of_data_nodes"`
	ActiveShards      int    `json:"active_shards"`
	UnassignedShards  int    `json:"unassigned_shards"`
	TimedOut          bool   `json:"timed_out"`
}

func (ch *ClusterHealth) IsHealthy() bool {
	return ch.Status == "green" || ch.Status == "yellow"
}
