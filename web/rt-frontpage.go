//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/e-gun/GinzaGoServer/internal/gen"
	"github.com/e-gun/GinzaGoServer/internal/lnch"
	"github.com/e-gun/GinzaGoServer/internal/mm"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/labstack/echo/v4"
)

const (
	FRONTPAGE = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.name}}</title></head>
<body>
<div id="frontpage">
	<p class="version">{{.longver}}</p>
	<p class="env">{{.env}}</p>
	<p class="source">{{.source}}: {{.pages}} pages; {{.witnesses}} witnesses</p>
	<p class="index">{{.index}}</p>
	<p class="columns">columns: {{.columns}}</p>
	<pre class="ticker">{{.ticker}}</pre>
</div>
</body>
</html>`
)

//
// ROUTING
//

// RtFrontpage - send the html for "/"
func (s *Server) RtFrontpage(c echo.Context) error {
	const (
		UPSTR    = "[%v] GGS uptime: %v [%s]"
		PADDING  = " ----------------- "
		STATTMPL = "%s: %d"
		SPACER   = "    "
		READY    = "search indices: %d manuscript tokens; %d translation tokens"
		NOTREADY = "search indices: not (yet) built"
	)
	c.Response().After(func() { Msg.LogPaths("RtFrontpage()") })

	// will set if missing
	user := s.Sessions.ReadUUIDCookie(c)
	sess := s.Sessions.GetSess(user)

	gc := lnch.GitCommit
	if gc == "" {
		gc = "UNKNOWN"
	}
	ver := fmt.Sprintf("Version: %s [git: %s]", vv.VERSION+lnch.VersSuppl, gc)

	env := fmt.Sprintf("%s: %s - %s (%d workers)", runtime.Version(), runtime.GOOS, runtime.GOARCH, s.Cfg.WorkerCount)

	// t() will give the uptime
	var mem runtime.MemStats

	t := func(up time.Duration) string {
		runtime.ReadMemStats(&mem)
		heap := fmt.Sprintf("%dM", mem.HeapAlloc/1024/1024)
		tick := fmt.Sprintf(UPSTR, time.Now().Format(time.TimeOnly), up.Truncate(time.Minute), heap)
		return PADDING + tick + PADDING
	}

	// svd() will report what requests have been made
	svd := func() string {
		ctr := mm.PathStats()
		var pairs []string
		for _, k := range gen.SortedKeys(ctr) {
			this := strings.TrimPrefix(k, "Rt")
			this = strings.TrimSuffix(this, "()")
			pairs = append(pairs, fmt.Sprintf(SPACER+STATTMPL, this, ctr[k]))
		}
		return strings.Join(pairs, "\n")
	}

	idx := NOTREADY
	if s.Docs.Ready() {
		idx = fmt.Sprintf(READY, s.Docs.ManuscriptIndex().Len(), s.Docs.TranslationIndex().Len())
	}

	nwit := 0
	if reg := s.Docs.Registry(); reg != nil {
		nwit = reg.Len()
	}

	srcname := "(no source)"
	if s.Source != nil {
		srcname = s.Source.Name()
	}

	subs := map[string]interface{}{
		"name":      vv.MYNAME,
		"longver":   ver,
		"env":       env,
		"source":    srcname,
		"pages":     len(s.Docs.PageNumbers()),
		"witnesses": nwit,
		"index":     idx,
		"columns":   strings.Join(sess.Columns, " "),
		"ticker":    t(time.Since(s.Launched)) + "\n\n" + svd(),
	}

	tmpl, e := template.New("fp").Parse(FRONTPAGE)
	Msg.EC(e)

	var b bytes.Buffer
	err := tmpl.Execute(&b, subs)
	Msg.EC(err)

	return c.HTML(http.StatusOK, b.String())
}

// RtWitnesses - the registry in document order
func (s *Server) RtWitnesses(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtWitnesses()") })
	reg := s.Docs.Registry()
	if reg == nil {
		return JSONresponse(c, []str.Witness{})
	}
	return JSONresponse(c, reg.Witnesses())
}
