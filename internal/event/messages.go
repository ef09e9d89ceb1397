package event

import (
	"encoding/json"
	"time"
)

// RecordCreated is emitted after a record is persisted through the
// interactive write path. Consumers re-read the record by id; the
// message stays deliberately small.
type RecordCreated struct {
	OwnerID   int64     `json:"owner_id"`
	RecordID  int64     `json:"record_id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// ImportCompleted is emitted once per committed CSV import batch.
type ImportCompleted struct {
	OwnerID   int64     `json:"owner_id"`
	Accepted  int       `json:"accepted"`
	Rejected  int       `json:"rejected"`
	Timestamp time.Time `json:"timestamp"`
}

func (m RecordCreated) toJSON() ([]byte, error)   { return json.Marshal(m) }
func (m ImportCompleted) toJSON() ([]byte, error) { return json.Marshal(m) }
