//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package app

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/e-gun/GinzaGoServer/internal/gen"
	"github.com/e-gun/GinzaGoServer/internal/mm"
	"github.com/e-gun/GinzaGoServer/internal/tei"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/e-gun/GinzaGoServer/internal/wit"
)

var (
	Msg       = mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION)
	ambigonce sync.Once
	plain     = &Resolver{}

	// where the one-off notices go
	noteambiguous = func(s string) { Msg.NOTE(s) }
	warnmissing   = func(s string) { Msg.WARN(s) }
)

// AmbiguousVariantWarning - more than one rdg of an app claims the same witness; the first one wins
type AmbiguousVariantWarning struct {
	WitnessID string
	Claims    int
}

func (w *AmbiguousVariantWarning) Error() string {
	return fmt.Sprintf("%d readings claim witness '%s'; using the first in document order", w.Claims, w.WitnessID)
}

// Resolver - turns a line into the plain text one witness reads there
type Resolver struct {
	reg     *wit.Registry
	missing sync.Map
}

// NewResolver - with a registry every wit reference is checked; nil accepts any id
func NewResolver(reg *wit.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Resolve - parse a line fragment and resolve it for one witness
func Resolve(fragment string, wid string) (string, error) {
	return plain.Resolve(fragment, wid)
}

// ResolveNodes - resolve an already parsed line for one witness
func ResolveNodes(nn []tei.Node, wid string) string {
	return plain.ResolveNodes(nn, wid)
}

func (r *Resolver) Resolve(fragment string, wid string) (string, error) {
	nn, err := tei.ParseFragment(fragment)
	if err != nil {
		return "", err
	}
	return r.ResolveNodes(nn, wid), nil
}

func (r *Resolver) ResolveNodes(nn []tei.Node, wid string) string {
	return gen.CollapseWhiteSpace(r.nodes(nn, wid))
}

// nodes - element siblings get a single space between them unless whitespace text already separates them
func (r *Resolver) nodes(nn []tei.Node, wid string) string {
	var sb strings.Builder
	prevel := false
	for _, n := range nn {
		if t, ok := n.(*tei.TextNode); ok {
			sb.WriteString(t.Text)
			prevel = false
			continue
		}
		if prevel {
			sb.WriteString(" ")
		}
		sb.WriteString(r.node(n, wid))
		prevel = true
	}
	return sb.String()
}

func (r *Resolver) node(n tei.Node, wid string) string {
	switch x := n.(type) {
	case *tei.TextNode:
		return x.Text
	case *tei.GlyphNode:
		return GlyphToken(x.Ref, x.Text)
	case *tei.ElementNode:
		return r.nodes(x.Children, wid)
	case *tei.VariantNode:
		return r.variant(x, wid)
	}
	return ""
}

// variant - the first rdg that claims the witness, "" if that rdg is empty, otherwise the lem
func (r *Resolver) variant(v *tei.VariantNode, wid string) string {
	var chosen *tei.ReadingNode
	claims := 0
	for _, rd := range v.Readings {
		if !r.claims(rd, wid) {
			continue
		}
		claims++
		if chosen == nil {
			chosen = rd
		}
	}

	if claims > 1 {
		warnambiguous(&AmbiguousVariantWarning{WitnessID: wid, Claims: claims})
	}

	switch {
	case chosen == nil:
		return r.nodes(v.Lemma.Children, wid)
	case chosen.IsEmpty():
		return ""
	default:
		return r.nodes(chosen.Children, wid)
	}
}

// claims - a reading listing an unregistered id is not a match for that id
func (r *Resolver) claims(rd *tei.ReadingNode, wid string) bool {
	if wid == "" || !rd.HasWitness(wid) {
		return false
	}
	if r.reg == nil {
		return true
	}
	if _, err := r.reg.Lookup(wid); err != nil {
		var mw *wit.MissingWitnessError
		if errors.As(err, &mw) {
			if _, seen := r.missing.LoadOrStore(mw.ID, true); !seen {
				Msg.WARN(err.Error())
			}
		}
		return false
	}
	return true
}

func warnambiguous(w *AmbiguousVariantWarning) {
	ambigonce.Do(func() {
		noteambiguous(w.Error())
	})
}
