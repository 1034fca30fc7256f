//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package geom

import (
	"math"

	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"gonum.org/v1/gonum/spatial/r2"
)

// PlacePopup - below the anchor unless it only fits above; centred on the anchor but kept inside the content container.
// The request is in viewport coordinates; the answer is in page coordinates.
func PlacePopup(req str.PopupRequest) str.PopupPlacement {
	anchor := r2.NewBox(req.Anchor.Left, req.Anchor.Top, req.Anchor.Right(), req.Anchor.Bottom())

	ceiling, floor := 0.0, req.ViewportH
	if req.ScrollArea.Height > 0 {
		ceiling = math.Max(ceiling, req.ScrollArea.Top)
		floor = math.Min(floor, req.ScrollArea.Bottom())
	}

	needed := req.Height + vv.POPUPGAP
	below := floor - anchor.Max.Y
	above := anchor.Min.Y - ceiling

	var pl str.PopupPlacement
	pl.Below = below >= needed || above < needed
	if pl.Below {
		pl.Top = anchor.Max.Y + vv.POPUPGAP
	} else {
		pl.Top = anchor.Min.Y - needed
	}

	lo, hi := 0.0, req.ViewportW
	if req.Container.Width > 0 {
		lo, hi = req.Container.Left, req.Container.Right()
	}
	pl.Left = clamp(anchor.Center().X-req.Width/2, lo, hi-req.Width)

	pl.Left += req.ScrollX
	pl.Top += req.ScrollY
	return pl
}

// clamp - when the popup is wider than the room available it starts at lo
func clamp(x float64, lo float64, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Min(math.Max(x, lo), hi)
}
