//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package search

import (
	"sync"

	"github.com/e-gun/GinzaGoServer/internal/gen"
	"github.com/e-gun/GinzaGoServer/internal/str"
)

//
// THREAD SAFE INFRASTRUCTURE: MUTEX
//

// dedupkey - a token may point at a given line of a given witness only once
type dedupkey struct {
	page int
	line int
	wid  string
}

// Index - token -> entries
type Index struct {
	entries map[string][]str.IndexEntry
	seen    map[string]map[dedupkey]struct{}
	mutex   sync.RWMutex
}

func NewIndex() *Index {
	return &Index{
		entries: make(map[string][]str.IndexEntry),
		seen:    make(map[string]map[dedupkey]struct{}),
	}
}

// Add - false if the token already points at this (page, line, witness)
func (ix *Index) Add(token string, e str.IndexEntry) bool {
	ix.mutex.Lock()
	defer ix.mutex.Unlock()
	return ix.add(token, e)
}

func (ix *Index) add(token string, e str.IndexEntry) bool {
	k := dedupkey{page: e.Page, line: e.Line, wid: e.WitnessID}
	s, ok := ix.seen[token]
	if !ok {
		s = make(map[dedupkey]struct{})
		ix.seen[token] = s
	}
	if _, dup := s[k]; dup {
		return false
	}
	s[k] = struct{}{}
	ix.entries[token] = append(ix.entries[token], e)
	return true
}

// AddLine - file the entry under every token of its text; returns how many were new
func (ix *Index) AddLine(e str.IndexEntry) int {
	tt := Tokenize(e.Text)
	ix.mutex.Lock()
	defer ix.mutex.Unlock()
	n := 0
	for _, t := range tt {
		if ix.add(t, e) {
			n++
		}
	}
	return n
}

// Merge - fold another index into this one; the dedup rule makes this commutative and idempotent
func (ix *Index) Merge(other *Index) {
	if other == nil || other == ix {
		return
	}
	other.mutex.RLock()
	snapshot := make(map[string][]str.IndexEntry, len(other.entries))
	for t, ee := range other.entries {
		snapshot[t] = append([]str.IndexEntry(nil), ee...)
	}
	other.mutex.RUnlock()

	ix.mutex.Lock()
	defer ix.mutex.Unlock()
	for _, t := range gen.SortedKeys(snapshot) {
		for _, e := range snapshot[t] {
			ix.add(t, e)
		}
	}
}

// Lookup - a copy of the entries for one token
func (ix *Index) Lookup(token string) []str.IndexEntry {
	ix.mutex.RLock()
	defer ix.mutex.RUnlock()
	return append([]str.IndexEntry(nil), ix.entries[token]...)
}

// Len - distinct tokens
func (ix *Index) Len() int {
	ix.mutex.RLock()
	defer ix.mutex.RUnlock()
	return len(ix.entries)
}

// Size - entries across all tokens
func (ix *Index) Size() int {
	ix.mutex.RLock()
	defer ix.mutex.RUnlock()
	n := 0
	for _, ee := range ix.entries {
		n += len(ee)
	}
	return n
}

// Tokens - sorted
func (ix *Index) Tokens() []string {
	ix.mutex.RLock()
	defer ix.mutex.RUnlock()
	return gen.SortedKeys(ix.entries)
}

// Snapshot - token -> entries, copied; for export
func (ix *Index) Snapshot() map[string][]str.IndexEntry {
	ix.mutex.RLock()
	defer ix.mutex.RUnlock()
	out := make(map[string][]str.IndexEntry, len(ix.entries))
	for t, ee := range ix.entries {
		out[t] = append([]str.IndexEntry(nil), ee...)
	}
	return out
}

// Clear - empty the index in place
func (ix *Index) Clear() {
	ix.mutex.Lock()
	defer ix.mutex.Unlock()
	ix.entries = make(map[string][]str.IndexEntry)
	ix.seen = make(map[string]map[dedupkey]struct{})
}
