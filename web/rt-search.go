//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/e-gun/GinzaGoServer/internal/gen"
	"github.com/e-gun/GinzaGoServer/internal/metrics"
	"github.com/e-gun/GinzaGoServer/internal/search"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/labstack/echo/v4"
)

// JSSearch - Truncated is set when more than MAXSEARCHRESULTS entries matched
type JSSearch struct {
	Query     string           `json:"query"`
	Kind      string           `json:"kind"`
	Found     int              `json:"found"`
	Truncated bool             `json:"truncated,omitempty"`
	Took      string           `json:"took"`
	Entries   []str.IndexEntry `json:"entries"`
}

//
// ROUTING
//

// RtSearchMS - search the manuscript witnesses: "/srch/ms?q=sator sat"
func (s *Server) RtSearchMS(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtSearchMS()") })
	return s.searchindex(c, search.KINDMS, s.Docs.ManuscriptIndex())
}

// RtSearchTR - search the translation
func (s *Server) RtSearchTR(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtSearchTR()") })
	return s.searchindex(c, search.KINDTR, s.Docs.TranslationIndex())
}

func (s *Server) searchindex(c echo.Context, kind string, idx *search.Index) error {
	if !s.Docs.Ready() || idx == nil {
		return JSONfailure(c, http.StatusServiceUnavailable, "the search indices are being built")
	}

	start := time.Now()
	q := cleaninput(c.QueryParam("q"))

	found := search.Search(idx, q)
	metrics.RecordSearch(kind, len(found))

	jss := JSSearch{Query: q, Kind: kind, Found: len(found), Entries: found}
	if len(found) > vv.MAXSEARCHRESULTS {
		jss.Entries = found[:vv.MAXSEARCHRESULTS]
		jss.Truncated = true
	}
	if jss.Entries == nil {
		jss.Entries = []str.IndexEntry{}
	}
	jss.Took = time.Since(start).String()

	return JSONresponse(c, jss)
}

// cleaninput - drop the unacceptable characters and cap the length (in runes)
func cleaninput(q string) string {
	q = gen.Purgechars(vv.UNACCEPTABLEINPUT, strings.TrimSpace(q))
	return strings.TrimSpace(gen.TrimToLen(q, vv.MAXINPUTLEN))
}
