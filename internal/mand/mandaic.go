//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mand

import (
	"strings"
	"unicode/utf8"

	"github.com/e-gun/GinzaGoServer/internal/vv"
	"golang.org/x/text/unicode/norm"
)

var (
	Reducer   = getrunereducer()
	Digraphs  = getdigraphs()
	skipspans = [][2]string{{vv.GLYPHOPEN, vv.GLYPHCLOSE}, {"[", "]"}, {"<", ">"}}
)

// Convert - Latin transliteration to Mandaic script; markers, markup and glyph tokens are copied through untouched
func Convert(text string) string {
	s := norm.NFC.String(text)
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); {
		if n := skiplen(s[i:]); n > 0 {
			sb.WriteString(s[i : i+n])
			i += n
			continue
		}
		if i+1 < len(s) {
			if m, ok := Digraphs[strings.ToLower(s[i:i+2])]; ok {
				sb.WriteRune(m)
				i += 2
				continue
			}
		}
		r, w := utf8.DecodeRuneInString(s[i:])
		if m, ok := Reducer[r]; ok {
			sb.WriteRune(m)
		} else {
			sb.WriteString(s[i : i+w])
		}
		i += w
	}
	return sb.String()
}

// skiplen - the length of a verbatim span that starts at the head of s, or 0
func skiplen(s string) int {
	for _, sp := range skipspans {
		if !strings.HasPrefix(s, sp[0]) {
			continue
		}
		if end := strings.Index(s[len(sp[0]):], sp[1]); end >= 0 {
			return len(sp[0]) + end + len(sp[1])
		}
	}
	return 0
}

//
// THE HELPERS/FEEDERS
//

func getrunereducer() map[rune]rune {
	reducer := make(map[rune]rune)
	for f := range RuneFd {
		for _, r := range RuneFd[f] {
			reducer[r] = f
		}
	}
	return reducer
}

// RuneFd - each Mandaic letter and the transliteration runes that yield it
var RuneFd = map[rune][]rune{
	'\u0840': []rune("aA"),     // halqa
	'\u0841': []rune("bB"),     // ab
	'\u0842': []rune("gG"),     // ag
	'\u0843': []rune("dD"),     // ad
	'\u0844': []rune("hH"),     // ah
	'\u0845': []rune("uUwWoO"), // ushenna
	'\u0846': []rune("zZ"),     // az
	'\u0847': []rune("ḥḤ"),     // it
	'\u0848': []rune("ṭṬ"),     // att
	'\u0849': []rune("iIyY"),   // aksa
	'\u084A': []rune("kK"),     // ak
	'\u084B': []rune("lL"),     // al
	'\u084C': []rune("mM"),     // am
	'\u084D': []rune("nN"),     // an
	'\u084E': []rune("sS"),     // as
	'\u084F': []rune("eEʿ"),    // in
	'\u0850': []rune("pP"),     // ap
	'\u0851': []rune("ṣṢ"),     // asz
	'\u0852': []rune("qQ"),     // aq
	'\u0853': []rune("rR"),     // ar
	'\u0854': []rune("šŠ"),     // ash
	'\u0855': []rune("tT"),     // at
	'\u0856': []rune("ḏḎ"),     // dushenna
}

// getdigraphs - keys are lower case; tried before any single rune
func getdigraphs() map[string]rune {
	return map[string]rune{
		"kd": '\u0857', // kad
		"sh": '\u0854', // ash
		"dh": '\u0856', // dushenna
	}
}
