//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package geom

import (
	"sync"
	"time"

	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/vv"
)

type PopupState int

const (
	PopupClosed PopupState = iota
	PopupOpening
	PopupOpen
	PopupClosing
)

func (s PopupState) String() string {
	switch s {
	case PopupOpening:
		return "opening"
	case PopupOpen:
		return "open"
	case PopupClosing:
		return "closing"
	default:
		return "closed"
	}
}

// Popup - Closed -> Opening -> Open -> Closing -> Closed; every scheduled step can be called off
//
// Opening waits one frame so the content has been laid out before it is measured and placed,
// then a second frame for the fade-in. Closing waits out the fade. Opening again while Closing
// calls off the close.
type Popup struct {
	state     PopupState
	req       str.PopupRequest
	placement str.PopupPlacement
	clock     Clock
	timer     Timer
	gen       uint64
	onchange  func(from PopupState, to PopupState)
	mtx       sync.Mutex
}

// NewPopup - onchange (may be nil) hears about every transition
func NewPopup(c Clock, onchange func(from PopupState, to PopupState)) *Popup {
	if c == nil {
		c = WallClock
	}
	return &Popup{clock: c, onchange: onchange}
}

func (p *Popup) State() PopupState {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.state
}

// Placement - where the popup was last put
func (p *Popup) Placement() str.PopupPlacement {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.placement
}

// Open - start (or restart) the opening sequence for a new anchor
func (p *Popup) Open(req str.PopupRequest) {
	p.mtx.Lock()
	p.req = req
	from := p.transition(PopupOpening)
	p.schedule(vv.FRAMEINTERVAL, func() func() {
		p.placement = PlacePopup(p.req)
		p.schedule(vv.FRAMEINTERVAL, func() func() {
			return p.change(PopupOpen)
		})
		return nil
	})
	p.mtx.Unlock()
	p.tell(from, PopupOpening)
}

// Close - fade out; nothing to do if already closed or closing
func (p *Popup) Close() {
	p.mtx.Lock()
	if p.state == PopupClosed || p.state == PopupClosing {
		p.mtx.Unlock()
		return
	}
	from := p.transition(PopupClosing)
	p.schedule(vv.POPUPFADE, func() func() {
		return p.change(PopupClosed)
	})
	p.mtx.Unlock()
	p.tell(from, PopupClosing)
}

// Reset - straight to Closed with nothing pending
func (p *Popup) Reset() {
	p.mtx.Lock()
	from := p.transition(PopupClosed)
	p.mtx.Unlock()
	p.tell(from, PopupClosed)
}

// transition - caller holds the lock; calls off whatever was scheduled
func (p *Popup) transition(to PopupState) PopupState {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
	from := p.state
	p.state = to
	return from
}

// schedule - caller holds the lock; fn runs with the lock held unless a later transition got there first;
// whatever fn returns runs after the lock is released
func (p *Popup) schedule(d time.Duration, fn func() func()) {
	mine := p.gen
	p.timer = p.clock.AfterFunc(d, func() {
		p.mtx.Lock()
		if mine != p.gen {
			p.mtx.Unlock()
			return
		}
		p.timer = nil
		after := fn()
		p.mtx.Unlock()
		if after != nil {
			after()
		}
	})
}

// change - caller holds the lock; returns the notification to send once it is released
func (p *Popup) change(to PopupState) func() {
	from := p.transition(to)
	return func() { p.tell(from, to) }
}

func (p *Popup) tell(from PopupState, to PopupState) {
	if p.onchange != nil && from != to {
		p.onchange(from, to)
	}
}
