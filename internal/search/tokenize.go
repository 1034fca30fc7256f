//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package search

import (
	"strings"

	"github.com/e-gun/GinzaGoServer/internal/app"
	"github.com/e-gun/GinzaGoServer/internal/gen"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize - NFC, glyph tokens unwrapped, lowercased; a Caser is stateful so each call gets its own
func Normalize(s string) string {
	s = app.GlyphText(norm.NFC.String(s))
	return cases.Lower(language.Und).String(s)
}

// Tokenize - the distinct words of a line in order of first appearance
func Tokenize(text string) []string {
	var tt []string
	for _, f := range strings.Fields(Normalize(text)) {
		f = gen.Purgechars(vv.TOKENPUNCT, f)
		if f != "" {
			tt = append(tt, f)
		}
	}
	return gen.UniqueInOrder(tt)
}
