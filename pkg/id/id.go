package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a ULID string (time-sortable identifier).
//
// Monotonic entropy keeps IDs generated within the same millisecond in
// generation order, so journal rows sort naturally by primary key.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(time.Now().UTC()), entropy)
	if err != nil {
		// Only possible if the system clock or entropy source fails.
		panic(err)
	}
	return u.String()
}
