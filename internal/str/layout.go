//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

//
// GEOMETRY: what the client measures and what it gets back
//

// Rect - a client rectangle in px
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// SpanLayout - the rendered rectangles of the text nodes inside one variant span
type SpanLayout struct {
	SpanID string `json:"span"`
	Key    string `json:"key"`
	Level  int    `json:"level"`
	Rects  []Rect `json:"rects"`
}

// ClickRegion - an absolutely positioned strip under (part of) a variant
type ClickRegion struct {
	Key     string   `json:"key"`
	Level   int      `json:"level"`
	Left    float64  `json:"left"`
	Top     float64  `json:"top"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	SpanIDs []string `json:"spans"`
}

// PopupRequest - the measurements needed to place a popup next to a clicked region
type PopupRequest struct {
	Anchor     Rect    `json:"anchor"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	ViewportW  float64 `json:"viewportw"`
	ViewportH  float64 `json:"viewporth"`
	ScrollArea Rect    `json:"scrollarea"`
	Container  Rect    `json:"container"`
	ScrollX    float64 `json:"scrollx"`
	ScrollY    float64 `json:"scrolly"`
}

// PopupPlacement - where the popup goes, in page coordinates
type PopupPlacement struct {
	Left  float64 `json:"left"`
	Top   float64 `json:"top"`
	Below bool    `json:"below"`
}
