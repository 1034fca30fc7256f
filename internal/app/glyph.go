//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package app

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/e-gun/GinzaGoServer/internal/vv"
)

var (
	glyphpattern = regexp.MustCompile(`\{\{g:([^|}]*)\|([^}]*)\}\}`)

	// the token delimiters never appear raw inside a ref or a text
	glyphescape   = strings.NewReplacer("%", "%25", "|", "%7C", "{", "%7B", "}", "%7D")
	glyphunescape = strings.NewReplacer("%7C", "|", "%7B", "{", "%7D", "}", "%25", "%")
)

// Glyph - what a {{g:REF|TEXT}} token carries
type Glyph struct {
	Ref  string
	Text string
}

// GlyphToken - the placeholder that stands in for g[@ref] in resolved text
func GlyphToken(ref string, text string) string {
	return fmt.Sprintf(vv.GLYPHTOKEN, glyphescape.Replace(ref), glyphescape.Replace(text))
}

// GlyphText - replace every glyph token with the text it carries
func GlyphText(s string) string {
	return glyphpattern.ReplaceAllStringFunc(s, func(tok string) string {
		m := glyphpattern.FindStringSubmatch(tok)
		return glyphunescape.Replace(m[2])
	})
}

// GlyphTokens - every glyph token in s, in order
func GlyphTokens(s string) []Glyph {
	var gg []Glyph
	for _, m := range glyphpattern.FindAllStringSubmatch(s, -1) {
		gg = append(gg, Glyph{Ref: glyphunescape.Replace(m[1]), Text: glyphunescape.Replace(m[2])})
	}
	return gg
}
