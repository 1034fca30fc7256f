//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

// IndexEntry - one line of one witness (or of the translation) that contains a token
type IndexEntry struct {
	Page          int    `json:"page"`
	Line          int    `json:"line"`
	Text          string `json:"text"`
	WitnessID     string `json:"witness,omitempty"`
	Siglum        string `json:"siglum,omitempty"`
	IsTranslation bool   `json:"translation,omitempty"`
}
