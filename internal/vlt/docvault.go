//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/e-gun/GinzaGoServer/internal/gen"
	"github.com/e-gun/GinzaGoServer/internal/search"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/tei"
	"github.com/e-gun/GinzaGoServer/internal/wit"
	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ErrSuperseded = errors.New("index build superseded by a newer one")
	ErrNoDocument = errors.New("no document loaded")
)

//
// THREAD SAFE INFRASTRUCTURE: MUTEX
//

// DocVault - owns the registry, the pages and the two indices; only it may rebuild them
type DocVault struct {
	reg     *wit.Registry
	ms      []str.Page
	tr      []str.Page
	msmap   map[int]str.Page
	trmap   map[int]str.Page
	msidx   *search.Index
	tridx   *search.Index
	gen     uint64
	cancel  context.CancelFunc
	workers int
	hub     *BuildInfoHub
	mutex   sync.RWMutex
}

// MakeDocVault - hub may be nil if nobody wants to watch builds
func MakeDocVault(workers int, hub *BuildInfoHub) *DocVault {
	return &DocVault{workers: workers, hub: hub}
}

// Load - install a new document; any build in flight is called off and the old indices are dropped
func (dv *DocVault) Load(doc str.Document) error {
	var reg *wit.Registry
	if doc.WitnessXML != "" {
		r, err := wit.Parse(doc.WitnessXML)
		if err != nil {
			return fmt.Errorf("witness list: %w", err)
		}
		reg = r
	} else {
		reg = wit.New(doc.Witnesses)
	}

	dv.mutex.Lock()
	defer dv.mutex.Unlock()
	dv.invalidate()
	dv.reg = reg
	dv.ms = doc.Manuscript
	dv.tr = doc.Translation
	dv.msmap = str.PageMap(doc.Manuscript)
	dv.trmap = str.PageMap(doc.Translation)
	return nil
}

// invalidate - caller holds the lock
func (dv *DocVault) invalidate() {
	if dv.cancel != nil {
		dv.cancel()
		dv.cancel = nil
	}
	dv.gen++
	if dv.msidx != nil {
		dv.msidx.Clear()
	}
	if dv.tridx != nil {
		dv.tridx.Clear()
	}
	dv.msidx, dv.tridx = nil, nil
}

// RebuildIndices - build both indices from scratch and swap them in together;
// a newer rebuild (or a teardown) makes this one return ErrSuperseded without touching the live indices
func (dv *DocVault) RebuildIndices(ctx context.Context) error {
	const (
		MSG = "RebuildIndices(): %d manuscript tokens, %d translation tokens"
	)

	dv.mutex.Lock()
	if dv.reg == nil {
		dv.mutex.Unlock()
		return ErrNoDocument
	}
	if dv.cancel != nil {
		dv.cancel()
	}
	dv.gen++
	mygen := dv.gen
	bctx, cancel := context.WithCancel(ctx)
	dv.cancel = cancel
	reg, ms, tr := dv.reg, dv.ms, dv.tr
	dv.mutex.Unlock()
	defer cancel()

	id := uuid.New().String()
	total := len(ms) + len(tr)
	dv.report(func(h *BuildInfoHub) {
		h.Insert(BuildInfo{ID: id, Pages: total, Remain: total, Launched: time.Now()})
	})

	opts := search.BuildOptions{Workers: dv.workers}
	opts.Progress = func(r int) { dv.report(func(h *BuildInfoHub) { h.Remain(id, r+len(tr)) }) }
	msidx, err := search.BuildManuscriptIndex(bctx, ms, reg, opts)
	if err != nil {
		dv.report(func(h *BuildInfoHub) { h.Finish(id, 0, err) })
		return dv.why(err, mygen)
	}

	opts.Progress = func(r int) { dv.report(func(h *BuildInfoHub) { h.Remain(id, r) }) }
	tridx, err := search.BuildTranslationIndex(bctx, tr, opts)
	if err != nil {
		dv.report(func(h *BuildInfoHub) { h.Finish(id, 0, err) })
		return dv.why(err, mygen)
	}

	dv.mutex.Lock()
	if mygen != dv.gen {
		dv.mutex.Unlock()
		dv.report(func(h *BuildInfoHub) { h.Finish(id, 0, ErrSuperseded) })
		return ErrSuperseded
	}
	dv.msidx, dv.tridx = msidx, tridx
	dv.cancel = nil
	dv.mutex.Unlock()

	dv.report(func(h *BuildInfoHub) { h.Finish(id, msidx.Len()+tridx.Len(), nil) })
	m := message.NewPrinter(language.English)
	Msg.PEEK(m.Sprintf(MSG, msidx.Len(), tridx.Len()))
	return nil
}

// why - a build cancelled because a newer one started is superseded; anything else is the caller's own cancellation
func (dv *DocVault) why(err error, mygen uint64) error {
	dv.mutex.RLock()
	defer dv.mutex.RUnlock()
	if mygen != dv.gen && errors.Is(err, context.Canceled) {
		return ErrSuperseded
	}
	return err
}

func (dv *DocVault) report(fnc func(h *BuildInfoHub)) {
	if dv.hub != nil {
		fnc(dv.hub)
	}
}

// InstallIndices - indices that came from somewhere other than a build (e.g. a snapshot); calls off any build in flight
func (dv *DocVault) InstallIndices(ms *search.Index, tr *search.Index) {
	dv.mutex.Lock()
	defer dv.mutex.Unlock()
	if dv.cancel != nil {
		dv.cancel()
		dv.cancel = nil
	}
	dv.gen++
	dv.msidx, dv.tridx = ms, tr
}

// Teardown - cancel, clear, forget
func (dv *DocVault) Teardown() {
	dv.mutex.Lock()
	defer dv.mutex.Unlock()
	dv.invalidate()
	dv.reg = nil
	dv.ms, dv.tr = nil, nil
	dv.msmap, dv.trmap = nil, nil
}

func (dv *DocVault) Registry() *wit.Registry {
	dv.mutex.RLock()
	defer dv.mutex.RUnlock()
	return dv.reg
}

func (dv *DocVault) ManuscriptIndex() *search.Index {
	dv.mutex.RLock()
	defer dv.mutex.RUnlock()
	return dv.msidx
}

func (dv *DocVault) TranslationIndex() *search.Index {
	dv.mutex.RLock()
	defer dv.mutex.RUnlock()
	return dv.tridx
}

// Ready - both indices are in place
func (dv *DocVault) Ready() bool {
	dv.mutex.RLock()
	defer dv.mutex.RUnlock()
	return dv.msidx != nil && dv.tridx != nil
}

func (dv *DocVault) Page(n int) (str.Page, bool) {
	dv.mutex.RLock()
	defer dv.mutex.RUnlock()
	p, ok := dv.msmap[n]
	return p, ok
}

func (dv *DocVault) TranslationPage(n int) (str.Page, bool) {
	dv.mutex.RLock()
	defer dv.mutex.RUnlock()
	p, ok := dv.trmap[n]
	return p, ok
}

// Pages - the manuscript pages in document order
func (dv *DocVault) Pages() []str.Page {
	dv.mutex.RLock()
	defer dv.mutex.RUnlock()
	return append([]str.Page(nil), dv.ms...)
}

// PageNumbers - sorted
func (dv *DocVault) PageNumbers() []int {
	dv.mutex.RLock()
	defer dv.mutex.RUnlock()
	return gen.SortedKeys(dv.msmap)
}

// Line - the XML of one manuscript line
func (dv *DocVault) Line(pg int, ln int) (str.Line, bool) {
	p, ok := dv.Page(pg)
	if !ok {
		return str.Line{}, false
	}
	for _, l := range p.Lines {
		if l.N == ln {
			return l, true
		}
	}
	return str.Line{}, false
}

// TranslationLine - the translation of one line, if there is one
func (dv *DocVault) TranslationLine(pg int, ln int) (str.Line, bool) {
	p, ok := dv.TranslationPage(pg)
	if !ok {
		return str.Line{}, false
	}
	for _, l := range p.Lines {
		if l.N == ln {
			return l, true
		}
	}
	return str.Line{}, false
}

// LoadXML - split a source and a translation into pages and install them
func (dv *DocVault) LoadXML(witnessxml string, source string, translation string) error {
	ms, err := tei.SplitPages(source)
	if err != nil {
		return fmt.Errorf("manuscript: %w", err)
	}
	var tr []str.Page
	if translation != "" {
		tr, err = tei.SplitPages(translation)
		if err != nil {
			return fmt.Errorf("translation: %w", err)
		}
	}
	if witnessxml == "" {
		witnessxml = source
	}
	return dv.Load(str.Document{WitnessXML: witnessxml, Manuscript: ms, Translation: tr})
}
