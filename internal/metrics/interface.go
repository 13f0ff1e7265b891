package metrics

import (
	"context"
	"time"

	"codeberg.org/mutker/bulbctl/internal/status"
)

// MetricsCollector defines the core domain interface
type MetricsCollector interface {
	Record(ctx context.Context, snapshot *StateSnapshot) error
	Recent(ctx context.Context, device string, limit int) ([]StateSnapshot, error)
	Close() error
}

// MetricsRepository defines the interface for metrics data storage
type MetricsRepository interface {
	Record(snapshot *StateSnapshot) error
	Recent(ctx context.Context, device string, limit int) ([]StateSnapshot, error)
	Close() error
}

// StateSnapshot is one observation of a bulb
type StateSnapshot struct {
	Timestamp time.Time
	Device    string
	Reachable bool
	State     status.DeviceState
}

// NewSnapshot captures state for device at ts
func NewSnapshot(ts time.Time, device string, state status.DeviceState) *StateSnapshot {
	return &StateSnapshot{
		Timestamp: ts,
		Device:    device,
		Reachable: true,
		State:     state,
	}
}

// UnreachableSnapshot records a failed poll, carrying the last known state
func UnreachableSnapshot(ts time.Time, device string, last status.DeviceState) *StateSnapshot {
	return &StateSnapshot{
		Timestamp: ts,
		Device:    device,
		Reachable: false,
		State:     last,
	}
}
