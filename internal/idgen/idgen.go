// Package idgen generates identifiers for scan tasks and queue items.
package idgen

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewTaskID returns a UUIDv7 identifier string for a scan task.
// If UUIDv7 generation fails, it falls back to a random UUIDv4.
func NewTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewItemID returns a ULID for a queue item. ULIDs sort lexicographically by
// creation time, which makes the item id a stable FIFO tie-break for rows
// created within the same timestamp.
func NewItemID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}
