//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package disp

import (
	"sort"
	"strings"

	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/tei"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/e-gun/GinzaGoServer/internal/wit"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PopupRow - one reading as the variant popup lists it
type PopupRow struct {
	Reading    string   `json:"reading"`
	Cause      string   `json:"cause"`
	CauseLabel string   `json:"label"`
	Sigla      []string `json:"sigla"`
}

// Summarize - one row per reading, sorted by the siglum of each reading's first witness
func Summarize(ann *str.VariantAnnotation, reg *wit.Registry) []PopupRow {
	rows := make([]PopupRow, 0, len(ann.Variants))
	for _, v := range ann.Variants {
		r := PopupRow{
			Reading:    v.Reading,
			Cause:      v.Cause,
			CauseLabel: vv.CauseLabels[NormalizeCause(v.Cause)],
		}
		for _, id := range tei.SplitWitnesses(v.Witnesses) {
			if reg != nil {
				r.Sigla = append(r.Sigla, reg.Siglum(id))
			} else {
				r.Sigla = append(r.Sigla, id)
			}
		}
		rows = append(rows, r)
	}

	// readings nobody claims go last
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := firstsiglum(rows[i]), firstsiglum(rows[j])
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a < b
	})
	return rows
}

func firstsiglum(r PopupRow) string {
	if len(r.Sigla) == 0 {
		return ""
	}
	return r.Sigla[0]
}

// PopupHTML - the lemma followed by the rows
func PopupHTML(lemma string, rows []PopupRow) string {
	box := div("variant-popup")
	head := div("popup-lemma")
	head.AppendChild(&html.Node{Type: html.TextNode, Data: lemma + "]"})
	box.AppendChild(head)

	for _, r := range rows {
		row := div("popup-row")
		row.AppendChild(classed("reading", r.Reading))
		row.AppendChild(&html.Node{Type: html.TextNode, Data: " "})
		row.AppendChild(classed("sigla", strings.Join(r.Sigla, " ")))
		if r.CauseLabel != "" {
			row.AppendChild(&html.Node{Type: html.TextNode, Data: " "})
			row.AppendChild(classed("cause", "("+r.CauseLabel+")"))
		}
		box.AppendChild(row)
	}

	var sb strings.Builder
	if err := html.Render(&sb, box); err != nil {
		Msg.EC(err)
	}
	return sb.String()
}

func div(class string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div, Attr: []html.Attribute{{Key: "class", Val: class}}}
}

func classed(class string, text string) *html.Node {
	s := spannode(class)
	s.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return s
}
