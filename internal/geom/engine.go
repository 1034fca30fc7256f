//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package geom

import (
	"errors"
	"fmt"
	"sync"

	"github.com/e-gun/GinzaGoServer/internal/metrics"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/vv"
)

var (
	ErrAlreadyAttached = errors.New("an engine is already attached to this container")
)

// Engine - owns the click regions of one content container and the popup anchored in it
type Engine struct {
	Container  string
	Popup      *Popup
	regions    []str.ClickRegion
	layout     []str.SpanLayout
	deb        *Debouncer
	destroyed  bool
	recomputes int
	gen        uint64
	mtx        sync.RWMutex
}

func NewEngine(container string, c Clock) *Engine {
	return &Engine{
		Container: container,
		Popup:     NewPopup(c, nil),
		deb:       NewDebouncer(vv.RECOMPUTEDEBOUNCE, c),
	}
}

// Recompute - rebuild every region from scratch; on failure the previous regions stay in place.
// Any debounced rebuild still waiting (or already running) is superseded.
func (e *Engine) Recompute(layout []str.SpanLayout) error {
	e.deb.Cancel()
	e.mtx.Lock()
	e.gen++
	mine := e.gen
	e.mtx.Unlock()
	return e.recompute(layout, mine)
}

// RequestRecompute - what a resize calls; bursts collapse into one rebuild with the last layout
func (e *Engine) RequestRecompute(layout []str.SpanLayout) {
	e.deb.Trigger(func() {
		e.mtx.RLock()
		mine := e.gen
		e.mtx.RUnlock()
		_ = e.recompute(layout, mine)
	})
}

// Refresh - rebuild from the last good layout; a pending resize is left alone
func (e *Engine) Refresh() error {
	e.mtx.RLock()
	l := e.layout
	mine := e.gen
	e.mtx.RUnlock()
	return e.recompute(l, mine)
}

// recompute - install the regions only if no newer Recompute started in the meantime
func (e *Engine) recompute(layout []str.SpanLayout, gen uint64) (err error) {
	const (
		FAIL = "Engine.Recompute() [%s]: %s"
		PNC  = "panic: %v"
		OLD  = "Engine.Recompute() [%s]: superseded"
	)

	stale := false
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf(PNC, r)
		}
		if err != nil {
			Msg.TMI(fmt.Sprintf(FAIL, e.Container, err.Error()))
			metrics.GeometryRecomputes.WithLabelValues("failed").Inc()
			return
		}
		if stale {
			Msg.TMI(fmt.Sprintf(OLD, e.Container))
			metrics.GeometryRecomputes.WithLabelValues("superseded").Inc()
			return
		}
		metrics.GeometryRecomputes.WithLabelValues("ok").Inc()
	}()

	e.mtx.RLock()
	gone := e.destroyed
	e.mtx.RUnlock()
	if gone {
		return ErrDetached
	}

	if err = ValidateLayout(layout); err != nil {
		return err
	}

	rr := ComputeClickRegions(layout)

	e.mtx.Lock()
	defer e.mtx.Unlock()
	if e.destroyed {
		return ErrDetached
	}
	if gen != e.gen {
		stale = true
		return nil
	}
	e.regions = rr
	e.layout = layout
	e.recomputes++
	return nil
}

// Regions - a copy of the current regions
func (e *Engine) Regions() []str.ClickRegion {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	out := make([]str.ClickRegion, len(e.regions))
	copy(out, e.regions)
	return out
}

// Region - the regions that belong to one apparatus
func (e *Engine) Region(key string) []str.ClickRegion {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	var out []str.ClickRegion
	for _, r := range e.regions {
		if r.Key == key {
			out = append(out, r)
		}
	}
	return out
}

func (e *Engine) Recomputes() int {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	return e.recomputes
}

func (e *Engine) Pending() bool {
	return e.deb.Pending()
}

// Destroy - drop the regions and any pending rebuild; the engine cannot be reused
func (e *Engine) Destroy() {
	e.deb.Cancel()
	e.Popup.Reset()
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.destroyed = true
	e.regions = nil
	e.layout = nil
}

func (e *Engine) Destroyed() bool {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	return e.destroyed
}

//
// THREAD SAFE INFRASTRUCTURE: MUTEX
//

// EngineVault - at most one live engine per content container
type EngineVault struct {
	engines map[string]*Engine
	clock   Clock
	mutex   sync.RWMutex
}

// MakeEngineVault - nil means the wall clock
func MakeEngineVault(c Clock) *EngineVault {
	if c == nil {
		c = WallClock
	}
	return &EngineVault{engines: make(map[string]*Engine), clock: c}
}

// Attach - a new engine for the container; ErrAlreadyAttached while a live one exists
func (ev *EngineVault) Attach(container string) (*Engine, error) {
	ev.mutex.Lock()
	defer ev.mutex.Unlock()
	if old, ok := ev.engines[container]; ok && !old.Destroyed() {
		return old, ErrAlreadyAttached
	}
	e := NewEngine(container, ev.clock)
	ev.engines[container] = e
	return e, nil
}

// Get - the live engine for the container
func (ev *EngineVault) Get(container string) (*Engine, bool) {
	ev.mutex.RLock()
	defer ev.mutex.RUnlock()
	e, ok := ev.engines[container]
	if !ok || e.Destroyed() {
		return nil, false
	}
	return e, true
}

// Detach - destroy and forget the container's engine
func (ev *EngineVault) Detach(container string) bool {
	ev.mutex.Lock()
	defer ev.mutex.Unlock()
	e, ok := ev.engines[container]
	if !ok {
		return false
	}
	e.Destroy()
	delete(ev.engines, container)
	return true
}

// DetachAll - teardown
func (ev *EngineVault) DetachAll() int {
	ev.mutex.Lock()
	defer ev.mutex.Unlock()
	n := len(ev.engines)
	for k, e := range ev.engines {
		e.Destroy()
		delete(ev.engines, k)
	}
	return n
}

func (ev *EngineVault) Len() int {
	ev.mutex.RLock()
	defer ev.mutex.RUnlock()
	n := 0
	for _, e := range ev.engines {
		if !e.Destroyed() {
			n++
		}
	}
	return n
}
