//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package disp

import (
	"fmt"

	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/tei"
)

// VariantStats - how often each witness and each cause turns up in the apparatus of a document
type VariantStats struct {
	Apparatus   int            `json:"apparatus"`
	Readings    int            `json:"readings"`
	ByWitness   map[string]int `json:"bywitness"`
	ByCause     map[string]int `json:"bycause"`
	Unparseable int            `json:"unparseable"`
}

// Stats - walk every line of every page; nested apparatus inside readings counts too
func Stats(pages []str.Page) VariantStats {
	const (
		FAIL = "Stats(): page %d line %d: %s"
	)
	st := VariantStats{ByWitness: make(map[string]int), ByCause: make(map[string]int)}
	for _, p := range pages {
		for _, l := range p.Lines {
			nn, err := tei.ParseFragment(l.XML)
			if err != nil {
				st.Unparseable++
				Msg.TMI(fmt.Sprintf(FAIL, p.N, l.N, err.Error()))
				continue
			}
			st.count(nn)
		}
	}
	return st
}

func (st *VariantStats) count(nn []tei.Node) {
	for _, n := range nn {
		switch x := n.(type) {
		case *tei.ElementNode:
			st.count(x.Children)
		case *tei.VariantNode:
			if x.IsVariants() {
				st.Apparatus++
			}
			st.count(x.Lemma.Children)
			for _, rd := range x.Readings {
				if x.IsVariants() {
					st.Readings++
					st.ByCause[NormalizeCause(rd.Cause)]++
					for _, w := range rd.Witnesses {
						st.ByWitness[w]++
					}
				}
				st.count(rd.Children)
			}
		}
	}
}
