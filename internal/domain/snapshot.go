package domain

import "time"

// SyncedBy records which trigger produced a snapshot.
type SyncedBy string

const (
	SyncedByCron   SyncedBy = "cron"
	SyncedByManual SyncedBy = "manual"
	SyncedByAPI    SyncedBy = "api"
)

// Valid reports whether s is a known sync trigger.
func (s SyncedBy) Valid() bool {
	switch s {
	case SyncedByCron, SyncedByManual, SyncedByAPI:
		return true
	}
	return false
}

// PricingSnapshot is a versioned, immutable capture of the parsed pricing
// table. At most one snapshot is active at any time; versions strictly
// increase and snapshots are never deleted.
type PricingSnapshot struct {
	Version  int         `json:"version"`
	Data     PricingData `json:"data"`
	SyncedAt time.Time   `json:"syncedAt"`
	SyncedBy SyncedBy    `json:"syncedBy"`
	Active   bool        `json:"active"`
}

// SnapshotInfo is the metadata of a snapshot without its payload.
type SnapshotInfo struct {
	Version  int       `json:"version"`
	SyncedAt time.Time `json:"syncedAt"`
	SyncedBy SyncedBy  `json:"syncedBy"`
	Active   bool      `json:"active"`
}

// Info strips the payload from a snapshot.
func (s PricingSnapshot) Info() SnapshotInfo {
	return SnapshotInfo{
		Version:  s.Version,
		SyncedAt: s.SyncedAt,
		SyncedBy: s.SyncedBy,
		Active:   s.Active,
	}
}

// SyncStatus is the outcome of one sync run.
type SyncStatus string

const (
	SyncSucceeded SyncStatus = "succeeded"
	SyncFailed    SyncStatus = "failed"
)

// SyncRun is one entry of the append-only sync audit log.
type SyncRun struct {
	ID         int64      `json:"id"`
	SyncedBy   SyncedBy   `json:"syncedBy"`
	Status     SyncStatus `json:"status"`
	Version    int        `json:"version,omitempty"` // 0 when the run failed before commit
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt"`
}
