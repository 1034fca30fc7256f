//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package geom

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/e-gun/GinzaGoServer/internal/str"
)

//
// a clock that only moves when told to
//

type manualclock struct {
	now     time.Duration
	pending []*manualtimer
	mtx     sync.Mutex
}

type manualtimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
	c       *manualclock
}

func (t *manualtimer) Stop() bool {
	t.c.mtx.Lock()
	defer t.c.mtx.Unlock()
	live := !t.stopped && !t.fired
	t.stopped = true
	return live
}

func (c *manualclock) AfterFunc(d time.Duration, f func()) Timer {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	t := &manualtimer{at: c.now + d, f: f, c: c}
	c.pending = append(c.pending, t)
	return t
}

// Advance - fire everything that falls due, in order, including timers scheduled by the callbacks
func (c *manualclock) Advance(d time.Duration) {
	c.mtx.Lock()
	target := c.now + d
	c.mtx.Unlock()
	for {
		c.mtx.Lock()
		var next *manualtimer
		for _, t := range c.pending {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mtx.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mtx.Unlock()
		next.f()
	}
}

func testlayout() []str.SpanLayout {
	return []str.SpanLayout{
		{SpanID: "s1", Key: "K", Level: 1, Rects: []str.Rect{
			{Left: 0, Top: 0, Width: 50, Height: 17},
			{Left: 200, Top: 0, Width: 30, Height: 16},
			{Left: 55, Top: 1, Width: 40, Height: 16},
			{Left: 0, Top: 20, Width: 60, Height: 16},
		}},
		{SpanID: "s2", Key: "K", Level: 1, Rects: []str.Rect{{Left: 96, Top: 0, Width: 20, Height: 16}}},
		{SpanID: "s3", Key: "N", Level: 2, Rects: []str.Rect{{Left: 10, Top: 0, Width: 20, Height: 16}}},
	}
}

func TestComputeClickRegions(t *testing.T) {
	got := ComputeClickRegions(testlayout())
	want := []str.ClickRegion{
		{Key: "K", Level: 1, Left: 0, Top: 19, Width: 116, Height: 4, SpanIDs: []string{"s1", "s2"}},
		{Key: "K", Level: 1, Left: 200, Top: 18, Width: 30, Height: 4, SpanIDs: []string{"s1"}},
		{Key: "K", Level: 1, Left: 0, Top: 38, Width: 60, Height: 4, SpanIDs: []string{"s1"}},
		{Key: "N", Level: 2, Left: 10, Top: 22, Width: 20, Height: 4, SpanIDs: []string{"s3"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeClickRegions():\n got %+v\nwant %+v", got, want)
	}

	// a rebuild is a rebuild
	if again := ComputeClickRegions(testlayout()); !reflect.DeepEqual(again, got) {
		t.Errorf("second computation differs from the first")
	}
}

func TestValidateLayout(t *testing.T) {
	if err := ValidateLayout(nil); !errors.Is(err, ErrEmptyLayout) {
		t.Errorf("expected ErrEmptyLayout, got %v", err)
	}
	bad := []str.SpanLayout{{SpanID: "x", Key: "K", Rects: []str.Rect{{Left: math.NaN(), Width: 3, Height: 3}}}}
	var br *BadRectError
	if err := ValidateLayout(bad); !errors.As(err, &br) || br.SpanID != "x" {
		t.Errorf("expected *BadRectError for span x, got %v", err)
	}
	if err := ValidateLayout(testlayout()); err != nil {
		t.Errorf("good layout rejected: %v", err)
	}
}

func TestPlacePopup(t *testing.T) {
	base := str.PopupRequest{
		Width:     200,
		Height:    100,
		ViewportW: 800,
		ViewportH: 600,
		Container: str.Rect{Left: 0, Top: 0, Width: 800, Height: 2000},
	}
	tests := []struct {
		name   string
		modify func(r *str.PopupRequest)
		want   str.PopupPlacement
	}{
		{"room below", func(r *str.PopupRequest) {
			r.Anchor = str.Rect{Left: 100, Top: 100, Width: 50, Height: 16}
		}, str.PopupPlacement{Left: 25, Top: 122, Below: true}},
		{"only room above", func(r *str.PopupRequest) {
			r.Anchor = str.Rect{Left: 100, Top: 550, Width: 50, Height: 16}
		}, str.PopupPlacement{Left: 25, Top: 444, Below: false}},
		{"no room anywhere", func(r *str.PopupRequest) {
			r.ViewportH = 150
			r.Anchor = str.Rect{Left: 100, Top: 60, Width: 50, Height: 16}
		}, str.PopupPlacement{Left: 25, Top: 82, Below: true}},
		{"clamped right", func(r *str.PopupRequest) {
			r.Container.Width = 400
			r.Anchor = str.Rect{Left: 380, Top: 100, Width: 20, Height: 16}
		}, str.PopupPlacement{Left: 200, Top: 122, Below: true}},
		{"clamped left", func(r *str.PopupRequest) {
			r.Container.Left = 20
			r.Anchor = str.Rect{Left: 0, Top: 100, Width: 10, Height: 16}
		}, str.PopupPlacement{Left: 20, Top: 122, Below: true}},
		{"scrolled", func(r *str.PopupRequest) {
			r.ScrollX, r.ScrollY = 10, 300
			r.Anchor = str.Rect{Left: 100, Top: 100, Width: 50, Height: 16}
		}, str.PopupPlacement{Left: 35, Top: 422, Below: true}},
		{"scroll area is shorter than the viewport", func(r *str.PopupRequest) {
			r.ScrollArea = str.Rect{Left: 0, Top: 0, Width: 800, Height: 300}
			r.Anchor = str.Rect{Left: 100, Top: 250, Width: 50, Height: 16}
		}, str.PopupPlacement{Left: 25, Top: 144, Below: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.modify(&req)
			if got := PlacePopup(req); got != tt.want {
				t.Errorf("PlacePopup() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEngineVault(t *testing.T) {
	ev := MakeEngineVault(&manualclock{})
	e1, err := ev.Attach("col-A")
	if err != nil {
		t.Fatalf("first Attach() failed: %v", err)
	}
	if _, err = ev.Attach("col-A"); !errors.Is(err, ErrAlreadyAttached) {
		t.Errorf("second Attach() should fail with ErrAlreadyAttached, got %v", err)
	}
	if _, err = ev.Attach("col-B"); err != nil {
		t.Errorf("a different container should attach: %v", err)
	}

	e1.Destroy()
	e2, err := ev.Attach("col-A")
	if err != nil || e2 == e1 {
		t.Errorf("Attach() after Destroy() should yield a fresh engine; err = %v", err)
	}
	if !ev.Detach("col-A") || ev.Detach("col-A") {
		t.Errorf("Detach() should succeed exactly once")
	}
	if _, ok := ev.Get("col-A"); ok {
		t.Errorf("detached engine still visible")
	}
	if ev.Len() != 1 {
		t.Errorf("expected 1 live engine, got %d", ev.Len())
	}
	if ev.DetachAll() != 1 || ev.Len() != 0 {
		t.Errorf("DetachAll() did not clear the vault")
	}
}

func TestEngineRecompute(t *testing.T) {
	e := NewEngine("c", &manualclock{})
	if err := e.Recompute(testlayout()); err != nil {
		t.Fatalf("Recompute() failed: %v", err)
	}
	good := e.Regions()
	if len(good) != 4 || len(e.Region("N")) != 1 {
		t.Fatalf("unexpected regions: %+v", good)
	}

	if err := e.Recompute(nil); err == nil {
		t.Errorf("empty layout should be reported")
	}
	if !reflect.DeepEqual(e.Regions(), good) {
		t.Errorf("a failed recompute must keep the previous regions")
	}

	e.Destroy()
	if err := e.Recompute(testlayout()); !errors.Is(err, ErrDetached) {
		t.Errorf("expected ErrDetached, got %v", err)
	}
	if len(e.Regions()) != 0 {
		t.Errorf("Destroy() should drop the regions")
	}
}

func TestEngineDebounce(t *testing.T) {
	clk := &manualclock{}
	e := NewEngine("c", clk)
	last := []str.SpanLayout{{SpanID: "z", Key: "Z", Level: 1, Rects: []str.Rect{{Left: 1, Top: 1, Width: 5, Height: 5}}}}

	e.RequestRecompute(testlayout())
	clk.Advance(100 * time.Millisecond)
	e.RequestRecompute(testlayout())
	clk.Advance(100 * time.Millisecond)
	e.RequestRecompute(last)
	clk.Advance(149 * time.Millisecond)
	if e.Recomputes() != 0 {
		t.Fatalf("recompute fired before the burst went quiet")
	}
	clk.Advance(time.Millisecond)
	if e.Recomputes() != 1 {
		t.Fatalf("expected exactly one recompute, got %d", e.Recomputes())
	}
	rr := e.Regions()
	if len(rr) != 1 || rr[0].Key != "Z" {
		t.Errorf("the last layout should win: %+v", rr)
	}

	e.RequestRecompute(testlayout())
	e.Destroy()
	clk.Advance(time.Second)
	if e.Recomputes() != 1 {
		t.Errorf("Destroy() should cancel the pending recompute")
	}
}

func TestEngineRecomputeSupersedesPendingResize(t *testing.T) {
	clk := &manualclock{}
	e := NewEngine("c", clk)
	fresh := []str.SpanLayout{{SpanID: "n", Key: "new", Level: 1, Rects: []str.Rect{{Left: 2, Top: 2, Width: 8, Height: 8}}}}

	e.RequestRecompute(testlayout())
	if err := e.Recompute(fresh); err != nil {
		t.Fatalf("Recompute() failed: %v", err)
	}
	if e.Pending() {
		t.Errorf("Recompute() should cancel the waiting resize")
	}
	clk.Advance(300 * time.Millisecond)

	rr := e.Regions()
	if len(rr) != 1 || rr[0].Key != "new" {
		t.Errorf("an older resize overwrote the current regions: %+v", rr)
	}
	if e.Recomputes() != 1 {
		t.Errorf("expected one recompute, got %d", e.Recomputes())
	}

	// a stale generation never installs
	e.mtx.RLock()
	old := e.gen
	e.mtx.RUnlock()
	if err := e.Recompute(fresh); err != nil {
		t.Fatalf("Recompute() failed: %v", err)
	}
	if err := e.recompute(testlayout(), old); err != nil {
		t.Errorf("a superseded rebuild is not an error: %v", err)
	}
	if rr = e.Regions(); len(rr) != 1 || rr[0].Key != "new" {
		t.Errorf("a superseded rebuild replaced the regions: %+v", rr)
	}
}

func TestPopupStateMachine(t *testing.T) {
	clk := &manualclock{}
	var seen []string
	var mtx sync.Mutex
	p := NewPopup(clk, func(from PopupState, to PopupState) {
		mtx.Lock()
		defer mtx.Unlock()
		seen = append(seen, from.String()+">"+to.String())
	})
	req := str.PopupRequest{
		Anchor:    str.Rect{Left: 100, Top: 100, Width: 50, Height: 16},
		Width:     200,
		Height:    100,
		ViewportW: 800,
		ViewportH: 600,
	}

	p.Open(req)
	if p.State() != PopupOpening {
		t.Fatalf("expected opening, got %s", p.State())
	}
	clk.Advance(16 * time.Millisecond)
	if p.State() != PopupOpening || p.Placement().Top != 122 {
		t.Fatalf("after one frame: state %s placement %+v", p.State(), p.Placement())
	}
	clk.Advance(16 * time.Millisecond)
	if p.State() != PopupOpen {
		t.Fatalf("expected open after two frames, got %s", p.State())
	}

	p.Close()
	clk.Advance(100 * time.Millisecond)
	if p.State() != PopupClosing {
		t.Fatalf("expected closing mid-fade, got %s", p.State())
	}
	p.Open(req)
	clk.Advance(300 * time.Millisecond)
	if p.State() != PopupOpen {
		t.Fatalf("reopening should cancel the pending close; got %s", p.State())
	}

	p.Close()
	p.Close()
	clk.Advance(200 * time.Millisecond)
	if p.State() != PopupClosed {
		t.Fatalf("expected closed, got %s", p.State())
	}

	want := []string{
		"closed>opening", "opening>open", "open>closing",
		"closing>opening", "opening>open", "open>closing", "closing>closed",
	}
	mtx.Lock()
	defer mtx.Unlock()
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("transitions:\n got %v\nwant %v", seen, want)
	}
}

func TestRegionsHTML(t *testing.T) {
	h := RegionsHTML(ComputeClickRegions(testlayout()))
	for _, want := range []string{
		`class="variant-region"`,
		`data-key="K"`,
		`data-spans="s1 s2"`,
		`left:0.0px;top:19.0px;width:116.0px;height:4.0px`,
	} {
		if !strings.Contains(h, want) {
			t.Errorf("RegionsHTML() lacks %s:\n%s", want, h)
		}
	}
}
