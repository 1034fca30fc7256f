//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package geom

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/e-gun/GinzaGoServer/internal/gen"
	"github.com/e-gun/GinzaGoServer/internal/mm"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	Msg            = mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION)
	ErrEmptyLayout = errors.New("layout has no measurable spans")
	ErrDetached    = errors.New("engine is no longer attached")
)

// BadRectError - a measurement that cannot have come from rendered text
type BadRectError struct {
	SpanID string
	Rect   str.Rect
}

func (e *BadRectError) Error() string {
	return fmt.Sprintf("span %s reported an unusable rect %+v", e.SpanID, e.Rect)
}

// piece - a measured rect plus the spans that contributed to it
type piece struct {
	box   r2.Box
	spans []string
}

// ValidateLayout - every rect finite and non-negative in size; at least one rect somewhere
func ValidateLayout(spans []str.SpanLayout) error {
	n := 0
	for _, s := range spans {
		for _, r := range s.Rects {
			if !finite(r.Left, r.Top, r.Width, r.Height) || r.Width < 0 || r.Height < 0 {
				return &BadRectError{SpanID: s.SpanID, Rect: r}
			}
			n++
		}
	}
	if n == 0 {
		return ErrEmptyLayout
	}
	return nil
}

func finite(ff ...float64) bool {
	for _, f := range ff {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// ComputeClickRegions - one strip per visual line of each distinct apparatus; nested apparatus sit lower
func ComputeClickRegions(spans []str.SpanLayout) []str.ClickRegion {
	var order []string
	groups := make(map[string][]str.SpanLayout)
	for _, s := range spans {
		if _, ok := groups[s.Key]; !ok {
			order = append(order, s.Key)
		}
		groups[s.Key] = append(groups[s.Key], s)
	}

	var out []str.ClickRegion
	for _, k := range order {
		g := groups[k]
		level := g[0].Level
		if level < 1 {
			level = 1
		}
		for _, p := range mergegroup(g) {
			sz := p.box.Size()
			out = append(out, str.ClickRegion{
				Key:     k,
				Level:   level,
				Left:    p.box.Min.X,
				Top:     p.box.Max.Y + vv.UNDERLINEBASE + float64(level-1)*vv.UNDERLINESTEP,
				Width:   sz.X,
				Height:  vv.REGIONHEIGHT,
				SpanIDs: gen.UniqueInOrder(p.spans),
			})
		}
	}
	return out
}

// mergegroup - flatten, split into visual lines, then merge rects that (nearly) touch
func mergegroup(g []str.SpanLayout) []piece {
	var pp []piece
	for _, s := range g {
		for _, r := range s.Rects {
			if r.Width <= 0 || r.Height <= 0 {
				continue
			}
			pp = append(pp, piece{
				box:   r2.NewBox(r.Left, r.Top, r.Right(), r.Bottom()),
				spans: []string{s.SpanID},
			})
		}
	}
	if len(pp) == 0 {
		return nil
	}

	sort.SliceStable(pp, func(i, j int) bool {
		if pp[i].box.Min.Y != pp[j].box.Min.Y {
			return pp[i].box.Min.Y < pp[j].box.Min.Y
		}
		return pp[i].box.Min.X < pp[j].box.Min.X
	})

	var merged []piece
	for _, line := range splitlines(pp) {
		merged = append(merged, mergeline(line)...)
	}
	return merged
}

// splitlines - a rect whose top is within tolerance of the first rect of the current line joins that line
func splitlines(pp []piece) [][]piece {
	var lines [][]piece
	var curr []piece
	var top float64
	for _, p := range pp {
		if len(curr) > 0 && math.Abs(p.box.Min.Y-top) > vv.LINETOLERANCE {
			lines = append(lines, curr)
			curr = nil
		}
		if len(curr) == 0 {
			top = p.box.Min.Y
		}
		curr = append(curr, p)
	}
	if len(curr) > 0 {
		lines = append(lines, curr)
	}
	return lines
}

func mergeline(line []piece) []piece {
	sort.SliceStable(line, func(i, j int) bool {
		return line[i].box.Min.X < line[j].box.Min.X
	})

	var out []piece
	curr := line[0]
	for _, p := range line[1:] {
		if p.box.Min.X-curr.box.Max.X < vv.MERGEGAP {
			curr = piece{box: curr.box.Union(p.box), spans: append(curr.spans, p.spans...)}
			continue
		}
		out = append(out, curr)
		curr = p
	}
	return append(out, curr)
}
