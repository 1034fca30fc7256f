//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package geom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/e-gun/GinzaGoServer/internal/str"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	REGIONCLASS = "variant-region"
	REGIONSTYLE = "position:absolute;left:%.1fpx;top:%.1fpx;width:%.1fpx;height:%.1fpx"
)

// RegionsHTML - the absolutely positioned strips; data-spans points back at the variant spans
func RegionsHTML(rr []str.ClickRegion) string {
	var sb strings.Builder
	for _, r := range rr {
		d := &html.Node{
			Type:     html.ElementNode,
			Data:     "div",
			DataAtom: atom.Div,
			Attr: []html.Attribute{
				{Key: "class", Val: REGIONCLASS},
				{Key: "data-key", Val: r.Key},
				{Key: "data-level", Val: strconv.Itoa(r.Level)},
				{Key: "data-spans", Val: strings.Join(r.SpanIDs, " ")},
				{Key: "style", Val: fmt.Sprintf(REGIONSTYLE, r.Left, r.Top, r.Width, r.Height)},
			},
		}
		if err := html.Render(&sb, d); err != nil {
			Msg.EC(err)
		}
	}
	return sb.String()
}
