//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mand

import (
	"testing"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single letters", "abg", "ࡀࡁࡂ"},
		{"upper case", "ABG", "ࡀࡁࡂ"},
		{"digraph kd", "kd", "ࡗ"},
		{"digraph sh", "Shlama", "ࡔࡋࡀࡌࡀ"},
		{"digraph dh", "dh", "ࡖ"},
		{"digraphs before singles", "kdk", "ࡗࡊ"},
		{"diacritics", "ḥṭṣšḏ", "ࡇࡈࡑࡔࡖ"},
		{"vowel letters", "uwoiye", "ࡅࡅࡅࡉࡉࡏ"},
		{"decomposed input", "ḥ", "ࡇ"},
		{"digits and punctuation", "1, 2.", "1, 2."},
		{"unmapped latin", "fxcj", "fxcj"},
		{"editorial marker", "a [lacuna] b", "ࡀ [lacuna] ࡁ"},
		{"markup placeholder", "<lb n=3/>", "<lb n=3/>"},
		{"glyph token", "m{{g:kd|sh}}n", "ࡌ{{g:kd|sh}}ࡍ"},
		{"unclosed bracket", "[ab", "[ࡀࡁ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Convert(tt.in); got != tt.want {
				t.Errorf("Convert(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvertPlaceholderPassThrough(t *testing.T) {
	for _, p := range []string{"[...]", "[sic]", "<gap/>", "{{g:x1|?}}", "[unreadable line 4]"} {
		if got := Convert(p); got != p {
			t.Errorf("Convert(%q) = %q; placeholders must pass through", p, got)
		}
	}
}

func TestConvertMandaicPassThrough(t *testing.T) {
	once := Convert("manda")
	if twice := Convert(once); twice != once {
		t.Errorf("Mandaic script should pass through a second conversion: %q -> %q", once, twice)
	}
}
