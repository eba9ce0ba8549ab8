package models

import "time"

// SendRequest is the wire format for delivering one queued record to the
// remote authority. RetryCount is included so the backend can observe client
// retry behaviour.
type SendRequest struct {
	ID         string    `json:"id"`
	DataType   string    `json:"data_type"`
	SessionID  string    `json:"session_id"`
	Payload    Payload   `json:"payload"`
	Timestamp  time.Time `json:"timestamp"`
	RetryCount int       `json:"retry_count"`

	// Hash is the optional HMAC integrity hash of the payload, computed by
	// the transport layer when a hash key is configured.
	Hash string `json:"hash,omitempty"`
}

// ServerRecord is the remote authority's acknowledgement of an accepted item.
type ServerRecord struct {
	RecordID   string    `json:"record_id"`
	ClientID   string    `json:"client_id"`
	ReceivedAt time.Time `json:"received_at"`
}

// ConflictResponse is the body the remote authority returns alongside a
// conflict status: its current state for the diverged record.
type ConflictResponse struct {
	ServerPayload   Payload   `json:"server_payload"`
	ServerTimestamp time.Time `json:"server_timestamp"`
}

// SignInRequest authenticates the collection device against the backend.
type SignInRequest struct {
	DeviceID  string `json:"device_id"`
	AccessKey string `json:"access_key"`
}

// Token is a bearer token issued by the backend together with its parsed
// expiry, used to re-authenticate proactively.
type Token struct {
	SignedString string
	ExpiresAt    time.Time
}
