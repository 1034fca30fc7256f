//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package search

import (
	"sort"
	"strings"

	"github.com/e-gun/GinzaGoServer/internal/str"
)

// Search - the first term must be a word of the line; every other term need only occur somewhere in it.
// Results come back ordered by page, then line, then siglum.
func Search(idx *Index, query string) []str.IndexEntry {
	if idx == nil {
		return nil
	}
	// query words are cleaned exactly as line words are when indexed
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}
	first := terms[0]

	var found []str.IndexEntry
	for _, e := range idx.Lookup(first) {
		if containsall(Normalize(e.Text), terms[1:]) {
			found = append(found, e)
		}
	}

	SortEntries(found)
	return found
}

func containsall(text string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

// SortEntries - page, line, siglum; the translation after the witnesses
func SortEntries(ee []str.IndexEntry) {
	sort.SliceStable(ee, func(i, j int) bool {
		a, b := ee[i], ee[j]
		switch {
		case a.Page != b.Page:
			return a.Page < b.Page
		case a.Line != b.Line:
			return a.Line < b.Line
		case a.IsTranslation != b.IsTranslation:
			return !a.IsTranslation
		default:
			return a.Siglum < b.Siglum
		}
	})
}
