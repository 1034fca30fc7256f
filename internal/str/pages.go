//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

// Line - the raw XML for one line of one page; parsing is deferred to whoever consumes it
type Line struct {
	N   int    `json:"line"`
	XML string `json:"xml"`
}

// Page - the lines between two page breaks
type Page struct {
	N     int    `json:"page"`
	Lines []Line `json:"lines"`
}

// Document - everything a source yields: the witness list and the two parallel texts
type Document struct {
	WitnessXML  string
	Witnesses   []Witness // set instead of WitnessXML by sources that do not hold XML
	Manuscript  []Page
	Translation []Page
}

// PageMap - map[pagenumber]Page
func PageMap(pp []Page) map[int]Page {
	m := make(map[int]Page, len(pp))
	for _, p := range pp {
		m[p.N] = p
	}
	return m
}
