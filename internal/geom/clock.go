//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package geom

import (
	"sync"
	"time"
)

// Clock - schedules callbacks; swapped out in tests
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type wallclock struct{}

func (wallclock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// WallClock - the real thing
var WallClock Clock = wallclock{}

//
// THREAD SAFE INFRASTRUCTURE: MUTEX
//

// Debouncer - every Trigger pushes the pending call back by the full delay
type Debouncer struct {
	delay time.Duration
	clock Clock
	timer Timer
	gen   uint64
	mtx   sync.Mutex
}

func NewDebouncer(delay time.Duration, c Clock) *Debouncer {
	if c == nil {
		c = WallClock
	}
	return &Debouncer{delay: delay, clock: c}
}

// Trigger - forget whatever was pending and run fn once the delay passes quietly
func (d *Debouncer) Trigger(fn func()) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	mine := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mtx.Lock()
		current := mine == d.gen
		if current {
			d.timer = nil
		}
		d.mtx.Unlock()
		if current {
			fn()
		}
	})
}

// Cancel - report whether something was pending
func (d *Debouncer) Cancel() bool {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

// Pending - is a call waiting to fire?
func (d *Debouncer) Pending() bool {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.timer != nil
}
