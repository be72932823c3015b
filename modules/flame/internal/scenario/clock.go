package scenario

import (
	"sync"
	"time"
)

// Epoch is the virtual time at which every replay starts.
var Epoch = time.Date(2009, time.January, 1, 0, 0, 0, 0, time.UTC)

// ManualClock is a virtual clock that only moves when told to.
type ManualClock struct {
	mu    sync.Mutex
	epoch time.Time
	now   time.Time
}

// NewManualClock creates a new clock stopped at the given epoch.
func NewManualClock(epoch time.Time) *ManualClock {
	return &ManualClock{
		epoch: epoch,
		now:   epoch,
	}
}

// Now returns the current virtual time.
func (m *ManualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

// Set moves the clock to the given offset from its epoch.
//
// Moving backwards is allowed.
func (m *ManualClock) Set(offset time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.epoch.Add(offset)
}

// Elapsed returns the offset of the current time from the epoch.
func (m *ManualClock) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now.Sub(m.epoch)
}
