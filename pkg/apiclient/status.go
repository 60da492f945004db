package apiclient

import (
	"context"

	"github.com/marmos91/draftkeep/pkg/notify"
	"github.com/marmos91/draftkeep/pkg/storage"
)

// StorageStatus is the body of GET /health/storage.
type StorageStatus struct {
	Health   storage.HealthReport `json:"health" yaml:"health"`
	Estimate storage.Estimate     `json:"estimate" yaml:"estimate"`
	Strip    *notify.Notification `json:"strip,omitempty" yaml:"strip,omitempty"`
	Latency  string               `json:"latency" yaml:"latency"`
}

// AutosaveStatus is the body of GET /health/autosave.
type AutosaveStatus struct {
	State       string `json:"state" yaml:"state"`
	Dirty       bool   `json:"dirty" yaml:"dirty"`
	GuardArmed  bool   `json:"guard_armed" yaml:"guard_armed"`
	HasSnapshot bool   `json:"has_snapshot" yaml:"has_snapshot"`
}

// Ping checks GET /health.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

// Storage fetches the storage probe. When storage is not writable the
// status is returned together with an *UnhealthyError.
func (c *Client) Storage(ctx context.Context) (*StorageStatus, error) {
	var s StorageStatus
	err := c.get(ctx, "/health/storage", &s)
	if err != nil && !IsUnhealthy(err) {
		return nil, err
	}
	return &s, err
}

// Autosave fetches the change tracker state.
func (c *Client) Autosave(ctx context.Context) (*AutosaveStatus, error) {
	var s AutosaveStatus
	if err := c.get(ctx, "/health/autosave", &s); err != nil {
		return nil, err
	}
	return &s, nil
}
