//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package search

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/e-gun/GinzaGoServer/internal/app"
	"github.com/e-gun/GinzaGoServer/internal/metrics"
	"github.com/e-gun/GinzaGoServer/internal/mm"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/tei"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/e-gun/GinzaGoServer/internal/wit"
)

var (
	Msg = mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION)
)

const (
	KINDMS = "manuscript"
	KINDTR = "translation"
)

// BuildOptions - Progress (may be nil) hears how many pages are still waiting to be fed
type BuildOptions struct {
	Workers  int
	Progress func(remaining int)
	Resolver *app.Resolver
}

// pagework - everything one page contributes to an index
type pagework func(p str.Page) []str.IndexEntry

// BuildManuscriptIndex - every line of every page resolved for every witness
func BuildManuscriptIndex(ctx context.Context, pages []str.Page, reg *wit.Registry, opts BuildOptions) (*Index, error) {
	res := opts.Resolver
	if res == nil {
		res = app.NewResolver(reg)
	}
	ww := reg.Witnesses()

	work := func(p str.Page) []str.IndexEntry {
		var ee []str.IndexEntry
		for _, l := range p.Lines {
			nn, ok := parseline(p.N, l)
			if !ok {
				continue
			}
			for _, w := range ww {
				txt := app.GlyphText(res.ResolveNodes(nn, w.ID))
				metrics.LinesResolved.Inc()
				if txt == "" {
					continue
				}
				ee = append(ee, str.IndexEntry{Page: p.N, Line: l.N, Text: txt, WitnessID: w.ID, Siglum: w.Siglum})
			}
		}
		return ee
	}

	return build(ctx, KINDMS, pages, opts, work)
}

// BuildTranslationIndex - the translation read straight through
func BuildTranslationIndex(ctx context.Context, pages []str.Page, opts BuildOptions) (*Index, error) {
	work := func(p str.Page) []str.IndexEntry {
		var ee []str.IndexEntry
		for _, l := range p.Lines {
			nn, ok := parseline(p.N, l)
			if !ok {
				continue
			}
			txt := app.GlyphText(app.ResolveNodes(nn, ""))
			if txt == "" {
				continue
			}
			ee = append(ee, str.IndexEntry{Page: p.N, Line: l.N, Text: txt, IsTranslation: true})
		}
		return ee
	}

	return build(ctx, KINDTR, pages, opts, work)
}

// parseline - a line that will not parse is logged and left out of the index
func parseline(pg int, l str.Line) ([]tei.Node, bool) {
	const (
		FAIL = "index: skipping page %d line %d: %s"
	)
	nn, err := tei.ParseFragment(l.XML)
	if err != nil {
		Msg.WARN(fmt.Sprintf(FAIL, pg, l.N, err.Error()))
		metrics.ParseErrors.WithLabelValues("index").Inc()
		return nil, false
	}
	return nn, true
}

// build - feed pages to a pool of indexers; fan their output in; collate into a fresh index
func build(ctx context.Context, kind string, pages []str.Page, opts BuildOptions, work pagework) (*Index, error) {
	const (
		MSG = "%s index: %d tokens from %d pages"
	)
	start := time.Now()

	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	// [a] load the pages into a channel
	pagechannel := PageFeeder(ctx, pages, workers, opts.Progress)

	// [b] fan out to index pages in parallel
	entrychannels := make([]<-chan []str.IndexEntry, workers)
	for i := 0; i < workers; i++ {
		entrychannels[i] = PageIndexer(ctx, pagechannel, work)
	}

	// [c] fan in to gather the entries into a single channel
	resultchan := EntryChannelAggregator(ctx, entrychannels...)

	// [d] pull the entries off of the result channel and collate them
	idx, err := FinalIndexCollation(ctx, resultchan)
	metrics.RecordBuild(kind, err, time.Since(start))
	if err != nil {
		return nil, err
	}

	metrics.IndexTokens.WithLabelValues(kind).Set(float64(idx.Len()))
	Msg.PEEK(fmt.Sprintf(MSG, kind, idx.Len(), len(pages)))
	return idx, nil
}

// PageFeeder - emit the pages to a channel; they will be consumed by the PageIndexer
func PageFeeder(ctx context.Context, pages []str.Page, buffer int, progress func(int)) <-chan str.Page {
	emitpages := make(chan str.Page, buffer)

	feed := func() {
		defer close(emitpages)
		for i := 0; i < len(pages); i++ {
			remainder := len(pages) - i - 1
			if progress != nil && remainder%vv.POLLEVERYNPAGES == 0 {
				progress(remainder)
			}
			select {
			case <-ctx.Done():
				return
			case emitpages <- pages[i]:
			}
		}
	}

	go feed()

	return emitpages
}

// PageIndexer - grab a page; do the work; emit the entries to a channel
func PageIndexer(ctx context.Context, pagechannel <-chan str.Page, work pagework) <-chan []str.IndexEntry {
	foundentrieschannel := make(chan []str.IndexEntry)

	consume := func() {
		defer close(foundentrieschannel)
		for p := range pagechannel {
			ee := work(p)
			select {
			case <-ctx.Done():
				return
			case foundentrieschannel <- ee:
			}
		}
	}

	go consume()

	return foundentrieschannel
}

// EntryChannelAggregator - gather all entries from the indexer channels into one place and then feed them to FinalIndexCollation
func EntryChannelAggregator(ctx context.Context, entrychannels ...<-chan []str.IndexEntry) <-chan []str.IndexEntry {
	var wg sync.WaitGroup
	resultchann := make(chan []str.IndexEntry)

	broadcast := func(eec <-chan []str.IndexEntry) {
		defer wg.Done()
		for ee := range eec {
			select {
			case resultchann <- ee:
			case <-ctx.Done():
				return
			}
		}
	}

	wg.Add(len(entrychannels))
	for _, ec := range entrychannels {
		go broadcast(ec)
	}

	go func() {
		wg.Wait()
		close(resultchann)
	}()

	return resultchann
}

// FinalIndexCollation - file every entry; a cancelled build yields no index at all
func FinalIndexCollation(ctx context.Context, found <-chan []str.IndexEntry) (*Index, error) {
	idx := NewIndex()
	for {
		select {
		case <-ctx.Done():
			go drain(found)
			return nil, ctx.Err()
		case ee, ok := <-found:
			if !ok {
				// the channel can close because the context ended
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				return idx, nil
			}
			for _, e := range ee {
				idx.AddLine(e)
			}
		}
	}
}

// drain - let the upstream goroutines finish their sends and exit
func drain[T any](c <-chan T) {
	for range c {
	}
}
