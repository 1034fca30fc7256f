//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package tei

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/e-gun/GinzaGoServer/internal/gen"
	"github.com/e-gun/GinzaGoServer/internal/str"
)

//
// PAGES AND LINES: pb starts a page; lb starts a line
//

const (
	BODYXPATH  = "//*[local-name()='body']"
	BREAKXPATH = ".//*[local-name()='lb' or local-name()='pb']"
)

type pagesplitter struct {
	pages    []str.Page
	page     *str.Page
	implicit bool
	linenum  int
	started  bool
	content  []Node
	rawtail  []string
}

// SplitPages - cut a whole TEI document (or just a text/body) into pages of line fragments
func SplitPages(document string) ([]str.Page, error) {
	doc, err := xmlquery.Parse(strings.NewReader(document))
	if err != nil {
		return nil, &ParseError{Fragment: document, Err: err}
	}

	body := xmlquery.FindOne(doc, BODYXPATH)
	if body == nil {
		body = firstelement(doc)
	}
	if body == nil {
		return nil, &ParseError{Fragment: document, Err: ErrNoRoot}
	}

	ps := &pagesplitter{}
	ps.walk(body)
	ps.flushline()
	ps.flushpage()
	return ps.pages, nil
}

func (ps *pagesplitter) walk(n *xmlquery.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			ps.add(c)
			continue
		}
		switch c.Data {
		case "pb":
			ps.newpage(c.SelectAttr("n"))
		case "lb":
			ps.newline(c.SelectAttr("n"))
		case "app":
			// an apparatus entry is atomic even if a witness breaks the line inside it
			ps.add(c)
		default:
			if xmlquery.FindOne(c, BREAKXPATH) != nil {
				// the wrapper is dropped; its breaks matter more than its tag
				ps.walk(c)
			} else {
				ps.add(c)
			}
		}
	}
}

func (ps *pagesplitter) add(c *xmlquery.Node) {
	if ps.page == nil {
		if c.Type != xmlquery.ElementNode && gen.IsBlank(c.Data) {
			return
		}
		// content before the first pb belongs to page 1
		ps.newpage("")
		ps.implicit = true
	}
	cn, err := convert(c)
	if err != nil {
		// keep the raw XML: the line will fail again (and be reported) when somebody parses it
		ps.rawtail = append(ps.rawtail, Serialize(ps.content)+c.OutputXML(true))
		ps.content = nil
		return
	}
	if cn != nil {
		ps.content = append(ps.content, cn)
	}
}

func (ps *pagesplitter) newpage(n string) {
	ps.flushline()
	ps.flushpage()
	num, ok := leadingint(n)
	if !ok {
		num = 1
		if len(ps.pages) > 0 {
			num = ps.pages[len(ps.pages)-1].N + 1
		}
	}
	ps.page = &str.Page{N: num}
	ps.implicit = false
	ps.linenum = 0
	ps.started = false
}

func (ps *pagesplitter) newline(n string) {
	if ps.page == nil {
		ps.newpage("")
		ps.implicit = true
	}
	ps.flushline()
	num, ok := leadingint(n)
	if !ok {
		num = ps.linenum + 1
	}
	ps.linenum = num
	ps.started = true
}

func (ps *pagesplitter) flushline() {
	if ps.page == nil {
		return
	}
	x := strings.Join(ps.rawtail, "") + Serialize(ps.content)
	ps.content = nil
	ps.rawtail = nil

	if !ps.started && gen.IsBlank(x) {
		// whitespace between pb and the first lb
		return
	}
	ps.page.Lines = append(ps.page.Lines, str.Line{N: ps.linenum, XML: x})
}

func (ps *pagesplitter) flushpage() {
	if ps.page == nil {
		return
	}
	if !ps.implicit || len(ps.page.Lines) > 0 {
		ps.pages = append(ps.pages, *ps.page)
	}
	ps.page = nil
}

// leadingint - "12" and "12a" --> 12; "" and "xii" --> false
func leadingint(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// LineNodes - parse every line of a page; the failures come back keyed by line number
func LineNodes(p str.Page) (map[int][]Node, map[int]error) {
	parsed := make(map[int][]Node, len(p.Lines))
	failed := make(map[int]error)
	for _, l := range p.Lines {
		nn, err := ParseFragment(l.XML)
		if err != nil {
			failed[l.N] = fmt.Errorf("page %d line %d: %w", p.N, l.N, err)
			continue
		}
		parsed[l.N] = nn
	}
	return parsed, failed
}
