// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mockable

import (
	"sync"
	"time"
)

// Clock is the block clock every ledger operation reads its timestamp from.
// It follows the wall clock until a time is Set, after which it only moves
// when Set or Advance is called. Unix never reports a value lower than one it
// already returned. It is safe for concurrent use.
type Clock struct {
	mu    sync.Mutex
	faked bool
	time  time.Time
	last  uint64
}

// Set the time on the clock
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faked = true
	c.time = t
}

// Advance moves the clock forward by d. A clock following the wall clock is
// pinned to the current wall time first.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.faked {
		c.faked = true
		c.time = time.Now()
	}
	if d > 0 {
		c.time = c.time.Add(d)
	}
}

// Sync this clock with global time
func (c *Clock) Sync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faked = false
}

// Time returns the time on this clock
func (c *Clock) Time() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now()
}

// Unix returns the unix timestamp on this clock, clamped so that it is
// non-decreasing across calls.
func (c *Clock) Unix() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	unix := uint64(max(c.now().Unix(), 0))
	if unix < c.last {
		return c.last
	}
	c.last = unix
	return unix
}

func (c *Clock) now() time.Time {
	if c.faked {
		return c.time
	}
	return time.Now()
}
