//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package wit

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/e-gun/GinzaGoServer/internal/gen"
	"github.com/e-gun/GinzaGoServer/internal/mm"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/tei"
	"github.com/e-gun/GinzaGoServer/internal/vv"
)

var (
	Msg = mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION)
)

const (
	WITXPATH    = "//*[local-name()='witness']"
	SIGLUMXPATH = "./*[local-name()='idno'][@type='siglum']"
	TITLEXPATH  = "./*[local-name()='title']"
)

// MissingWitnessError - a wit reference that the registry has never heard of
type MissingWitnessError struct {
	ID string
}

func (e *MissingWitnessError) Error() string {
	return fmt.Sprintf("no witness registered as '%s'", e.ID)
}

// Registry - id -> witness; built once per document load and read-only thereafter
type Registry struct {
	byid  map[string]str.Witness
	order []string
}

// Parse - read every witness[@xml:id] in a listWit (or in a whole TEI header)
func Parse(xml string) (*Registry, error) {
	const (
		DUPE  = "wit.Parse(): duplicate witness id '%s' ignored"
		NOID  = "wit.Parse(): skipping a witness without an xml:id"
		FOUND = "wit.Parse(): %d witnesses registered"
	)

	doc, err := xmlquery.Parse(strings.NewReader(xml))
	if err != nil {
		return nil, &tei.ParseError{Fragment: xml, Err: err}
	}

	var ww []str.Witness
	for _, n := range xmlquery.Find(doc, WITXPATH) {
		id := xmlid(n)
		if id == "" {
			Msg.WARN(NOID)
			continue
		}
		w := str.Witness{ID: id, Siglum: id}
		if s := xmlquery.FindOne(n, SIGLUMXPATH); s != nil {
			if sg := gen.CollapseWhiteSpace(s.InnerText()); sg != "" {
				w.Siglum = sg
			}
		}
		if t := xmlquery.FindOne(n, TITLEXPATH); t != nil {
			w.Title = gen.CollapseWhiteSpace(t.InnerText())
		}
		ww = append(ww, w)
	}

	r := New(ww)
	if len(r.order) != len(ww) {
		for _, d := range duplicates(ww) {
			Msg.WARN(fmt.Sprintf(DUPE, d))
		}
	}
	Msg.PEEK(fmt.Sprintf(FOUND, r.Len()))
	return r, nil
}

// New - build a registry from records that did not come from XML; the first of any duplicate ids wins
func New(ww []str.Witness) *Registry {
	r := &Registry{byid: make(map[string]str.Witness, len(ww))}
	for _, w := range ww {
		if _, ok := r.byid[w.ID]; ok {
			continue
		}
		if w.Siglum == "" {
			w.Siglum = w.ID
		}
		r.byid[w.ID] = w
		r.order = append(r.order, w.ID)
	}
	return r
}

// xmlid - xml:id by preference, a bare id if that is all there is
func xmlid(n *xmlquery.Node) string {
	var bare string
	for _, a := range n.Attr {
		if a.Name.Local != "id" {
			continue
		}
		if a.Name.Space != "" {
			return strings.TrimSpace(a.Value)
		}
		bare = strings.TrimSpace(a.Value)
	}
	return bare
}

func duplicates(ww []str.Witness) []string {
	seen := make(map[string]int)
	var dd []string
	for _, w := range ww {
		seen[w.ID]++
		if seen[w.ID] == 2 {
			dd = append(dd, w.ID)
		}
	}
	return dd
}

// Lookup - the witness registered under id, or a MissingWitnessError
func (r *Registry) Lookup(id string) (str.Witness, error) {
	w, ok := r.byid[id]
	if !ok {
		return str.Witness{}, &MissingWitnessError{ID: id}
	}
	return w, nil
}

// Has - is id registered?
func (r *Registry) Has(id string) bool {
	_, ok := r.byid[id]
	return ok
}

// Siglum - the display code for id; the id itself if the witness is unknown
func (r *Registry) Siglum(id string) string {
	if w, ok := r.byid[id]; ok {
		return w.Siglum
	}
	return id
}

// IDs - in document order
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Sigla - display codes in document order
func (r *Registry) Sigla() []string {
	out := make([]string, len(r.order))
	for i, id := range r.order {
		out[i] = r.byid[id].Siglum
	}
	return out
}

// Witnesses - in document order
func (r *Registry) Witnesses() []str.Witness {
	out := make([]str.Witness, len(r.order))
	for i, id := range r.order {
		out[i] = r.byid[id]
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}
