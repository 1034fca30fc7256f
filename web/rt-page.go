//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/e-gun/GinzaGoServer/internal/app"
	"github.com/e-gun/GinzaGoServer/internal/disp"
	"github.com/e-gun/GinzaGoServer/internal/mand"
	"github.com/e-gun/GinzaGoServer/internal/metrics"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/tei"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/labstack/echo/v4"
)

type JSColumn struct {
	ID     string `json:"id"`
	Siglum string `json:"siglum"`
	Script bool   `json:"mandaic"`
}

// JSLine - one line of the page: the display html plus the text of each session column
type JSLine struct {
	N     int               `json:"line"`
	HTML  string            `json:"html"`
	Texts map[string]string `json:"texts,omitempty"`
	Error bool              `json:"error,omitempty"`
}

type JSPage struct {
	Page        int        `json:"page"`
	Columns     []JSColumn `json:"columns"`
	Lines       []JSLine   `json:"lines"`
	Translation []JSLine   `json:"translation"`
}

type JSDisplay struct {
	Page        int                     `json:"page"`
	Line        int                     `json:"line"`
	HTML        string                  `json:"html"`
	Tree        *disp.Tree              `json:"tree"`
	Annotations []str.VariantAnnotation `json:"annotations"`
}

type JSResolved struct {
	Page    int    `json:"page"`
	Line    int    `json:"line"`
	Witness string `json:"witness"`
	Siglum  string `json:"siglum"`
	Text    string `json:"text"`
}

// PopupQuery - what the client posts when a click region is hit
type PopupQuery struct {
	Page int    `json:"page"`
	Line int    `json:"line"`
	Key  string `json:"key"`
}

type JSPopup struct {
	Key  string          `json:"key"`
	Rows []disp.PopupRow `json:"rows"`
	HTML string          `json:"html"`
}

//
// ROUTING
//

// RtPage - every line of a page: display html and the resolved text of each column
func (s *Server) RtPage(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtPage()") })

	user := s.Sessions.ReadUUIDCookie(c)

	pg, err := strconv.Atoi(c.Param("num"))
	if err != nil {
		return JSONfailure(c, http.StatusBadRequest, "bad page number")
	}

	p, ok := s.Docs.Page(pg)
	if !ok {
		return JSONfailure(c, http.StatusNotFound, fmt.Sprintf("no page %d", pg))
	}

	sess := s.Sessions.SetPage(user, pg)
	reg := s.Docs.Registry()
	res := app.NewResolver(reg)

	jsp := JSPage{Page: pg}
	for _, wid := range sess.Columns {
		jc := JSColumn{ID: wid, Siglum: wid, Script: sess.ScriptMode(wid)}
		if reg != nil {
			jc.Siglum = reg.Siglum(wid)
		}
		jsp.Columns = append(jsp.Columns, jc)
	}

	jsp.Lines = s.renderlines(p, func(nn []tei.Node) map[string]string {
		tt := make(map[string]string, len(jsp.Columns))
		for _, col := range jsp.Columns {
			txt := res.ResolveNodes(nn, col.ID)
			if col.Script {
				txt = mand.Convert(txt)
			}
			tt[col.ID] = txt
		}
		return tt
	})

	if tp, found := s.Docs.TranslationPage(pg); found {
		jsp.Translation = s.renderlines(tp, nil)
	}

	return JSONresponse(c, jsp)
}

// renderlines - each line is parsed exactly once; a line that will not parse becomes a placeholder
func (s *Server) renderlines(p str.Page, texts func(nn []tei.Node) map[string]string) []JSLine {
	const (
		FAIL = "RtPage(): %s"
	)
	parsed, failed := tei.LineNodes(p)

	out := make([]JSLine, 0, len(p.Lines))
	for _, l := range p.Lines {
		if e, bad := failed[l.N]; bad {
			Msg.WARN(fmt.Sprintf(FAIL, e.Error()))
			metrics.ParseErrors.WithLabelValues("render").Inc()
			out = append(out, JSLine{N: l.N, HTML: fmt.Sprintf(vv.LINEERRORHTML, l.N), Error: true})
			continue
		}
		nn := parsed[l.N]
		jl := JSLine{
			N:    l.N,
			HTML: disp.ConvertNodes(nn).HTML(disp.HTMLOptions{IDPrefix: lineprefix(p.N, l.N)}),
		}
		if texts != nil {
			jl.Texts = texts(nn)
		}
		out = append(out, jl)
	}
	return out
}

// RtLine - one line resolved for one witness
func (s *Server) RtLine(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtLine()") })

	user := s.Sessions.ReadUUIDCookie(c)

	pg, e1 := strconv.Atoi(c.Param("num"))
	ln, e2 := strconv.Atoi(c.Param("line"))
	if e1 != nil || e2 != nil {
		return JSONfailure(c, http.StatusBadRequest, "bad page or line number")
	}
	wid := c.Param("wit")

	l, ok := s.Docs.Line(pg, ln)
	if !ok {
		return JSONfailure(c, http.StatusNotFound, fmt.Sprintf("no line %d on page %d", ln, pg))
	}

	reg := s.Docs.Registry()
	if reg != nil && !reg.Has(wid) {
		return JSONfailure(c, http.StatusNotFound, fmt.Sprintf("no witness '%s'", wid))
	}

	txt, err := app.NewResolver(reg).Resolve(l.XML, wid)
	if err != nil {
		metrics.ParseErrors.WithLabelValues("render").Inc()
		return JSONfailure(c, http.StatusUnprocessableEntity, err.Error())
	}

	if s.Sessions.GetSess(user).ScriptMode(wid) {
		txt = mand.Convert(txt)
	}

	jsr := JSResolved{Page: pg, Line: ln, Witness: wid, Siglum: wid, Text: txt}
	if reg != nil {
		jsr.Siglum = reg.Siglum(wid)
	}
	return JSONresponse(c, jsr)
}

// RtDisplay - the display tree of one line
func (s *Server) RtDisplay(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtDisplay()") })

	pg, e1 := strconv.Atoi(c.Param("num"))
	ln, e2 := strconv.Atoi(c.Param("line"))
	if e1 != nil || e2 != nil {
		return JSONfailure(c, http.StatusBadRequest, "bad page or line number")
	}

	l, ok := s.Docs.Line(pg, ln)
	if !ok {
		return JSONfailure(c, http.StatusNotFound, fmt.Sprintf("no line %d on page %d", ln, pg))
	}

	tree, err := disp.Convert(l.XML)
	if err != nil {
		metrics.ParseErrors.WithLabelValues("render").Inc()
		return JSONfailure(c, http.StatusUnprocessableEntity, err.Error())
	}

	jsd := JSDisplay{
		Page:        pg,
		Line:        ln,
		HTML:        tree.HTML(disp.HTMLOptions{IDPrefix: lineprefix(pg, ln)}),
		Tree:        tree,
		Annotations: tree.Annotations(),
	}
	return JSONresponse(c, jsd)
}

// RtPopupVariant - the readings behind one annotation key
func (s *Server) RtPopupVariant(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtPopupVariant()") })

	var pq PopupQuery
	if err := c.Bind(&pq); err != nil {
		return JSONfailure(c, http.StatusBadRequest, "unparseable popup query")
	}

	l, ok := s.Docs.Line(pq.Page, pq.Line)
	if !ok {
		return JSONfailure(c, http.StatusNotFound, fmt.Sprintf("no line %d on page %d", pq.Line, pq.Page))
	}

	tree, err := disp.Convert(l.XML)
	if err != nil {
		return JSONfailure(c, http.StatusUnprocessableEntity, err.Error())
	}

	for _, ann := range tree.Annotations() {
		if ann.Key != pq.Key {
			continue
		}
		rows := disp.Summarize(&ann, s.Docs.Registry())
		return JSONresponse(c, JSPopup{Key: ann.Key, Rows: rows, HTML: disp.PopupHTML(ann.Lemma, rows)})
	}

	return JSONfailure(c, http.StatusNotFound, fmt.Sprintf("no apparatus '%s' on page %d line %d", pq.Key, pq.Page, pq.Line))
}

func lineprefix(pg int, ln int) string {
	return fmt.Sprintf("p%dl%d", pg, ln)
}
