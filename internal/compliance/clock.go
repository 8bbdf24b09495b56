package compliance

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time. Injected so report generation is fully
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock
type SystemClock struct{}

// Now returns the current wall-clock time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// IDGenerator supplies unique tokens for report and issue identifiers
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator is the production IDGenerator backed by random UUIDs
type UUIDGenerator struct{}

// NewID returns a random UUID string
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
