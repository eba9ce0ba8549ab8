package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Recognized capture data types. The engine treats the data type as an opaque
// routing key; these constants cover the capture categories the collection
// devices produce today.
const (
	DataTypeMood          = "mood"
	DataTypeSDOH          = "sdoh"
	DataTypeEnvironmental = "environmental"
	DataTypeGeographic    = "geographic"
)

// Payload is a schemaless capture document. It is stored as a JSON text
// column and travels as a JSON object on the wire.
type Payload map[string]any

// Value implements driver.Valuer: the payload is persisted as JSON text.
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for the JSON text column.
func (p *Payload) Scan(src any) error {
	if src == nil {
		*p = nil
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported payload column type %T", src)
	}

	if len(raw) == 0 {
		*p = nil
		return nil
	}
	return json.Unmarshal(raw, p)
}

// Clone returns a shallow copy of the payload. Nested values are shared.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// QueueKey identifies a capture slot: the queue holds at most one pending
// item per key.
type QueueKey struct {
	SessionID string
	DataType  string
}

// SyncItem is one queued capture awaiting upload to the remote authority.
// Timestamp is the capture time assigned at enqueue; it orders drains and
// decides coalescing.
type SyncItem struct {
	ID          string     `json:"id"`
	DataType    string     `json:"data_type"`
	SessionID   string     `json:"session_id"`
	Payload     Payload    `json:"payload"`
	Timestamp   time.Time  `json:"timestamp"`
	Synced      bool       `json:"synced"`
	Quarantined bool       `json:"quarantined"`
	RetryCount  int        `json:"retry_count"`
	SyncedAt    *time.Time `json:"synced_at,omitempty"`
}

// Key returns the capture slot this item occupies.
func (i SyncItem) Key() QueueKey {
	return QueueKey{SessionID: i.SessionID, DataType: i.DataType}
}

// TableName returns the durable store table holding sync items.
func (i SyncItem) TableName() string {
	return "sync_items"
}
