// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package hwmon

import (
	"sync"
	"time"
)

// PsuInterval is the staleness limit of PSU status registers.
const PsuInterval = 1500 * time.Millisecond

// Cache serializes a device's register reads and limits them to one per
// Interval.
type Cache struct {
	Interval time.Duration
	// Now defaults to time.Now
	Now func() time.Time

	mutex sync.Mutex
	valid bool
	last  time.Time
}

// Show runs update if the cached registers are invalid or stale, then
// show with their validity. A failed update invalidates the registers
// until the next successful update. Both run with the device locked.
func (c *Cache) Show(update func() error,
	show func(valid bool) (string, error)) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	now := c.now()
	if !c.valid || now.Sub(c.last) > c.Interval {
		c.valid = false
		if err := update(); err == nil {
			c.last = now
			c.valid = true
		}
	}
	return show(c.valid)
}

// Invalidate forces an update by the next Show.
func (c *Cache) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.valid = false
}

func (c *Cache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
