package models

import "time"

// SyncStatus is the coarse engine state exposed to status consumers.
type SyncStatus string

const (
	SyncStatusIdle    SyncStatus = "idle"
	SyncStatusSyncing SyncStatus = "syncing"
	SyncStatusError   SyncStatus = "error"
)

// DrainKind distinguishes the two drain flavours the worker runs.
type DrainKind string

const (
	// DrainFull attempts every pending item in timestamp order.
	DrainFull DrainKind = "full"
	// DrainQuick attempts only a small batch of recently captured items,
	// giving producers faster feedback on fresh data.
	DrainQuick DrainKind = "quick"
)

// DrainResult is the aggregate outcome of one drain pass. Item-level errors
// never leave the drain loop; this is the only failure signal surfaced.
type DrainResult struct {
	Kind        DrainKind `json:"kind"`
	Attempted   int       `json:"attempted"`
	Sent        int       `json:"sent"`
	Failed      int       `json:"failed"`
	Conflicts   int       `json:"conflicts"`
	Quarantined int       `json:"quarantined"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// StatusSnapshot is the read-only projection served to external consumers.
// It is computed on demand and holds no state of its own.
type StatusSnapshot struct {
	PendingCount     int               `json:"pending_count"`
	QuarantinedCount int               `json:"quarantined_count"`
	SyncStatus       SyncStatus        `json:"sync_status"`
	LastSyncTime     *time.Time        `json:"last_sync_time,omitempty"`
	PendingConflicts []PendingConflict `json:"pending_conflicts,omitempty"`
}

// PendingConflict describes an item suspended under the manual strategy,
// waiting for an external terminal decision.
type PendingConflict struct {
	ItemID          string    `json:"item_id"`
	SessionID       string    `json:"session_id"`
	DataType        string    `json:"data_type"`
	LocalTimestamp  time.Time `json:"local_timestamp"`
	ServerTimestamp time.Time `json:"server_timestamp"`
	LocalPayload    Payload   `json:"local_payload"`
	ServerPayload   Payload   `json:"server_payload"`
	DetectedAt      time.Time `json:"detected_at"`
}
