//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/e-gun/GinzaGoServer/internal/geom"
	"github.com/e-gun/GinzaGoServer/internal/mm"
	"github.com/e-gun/GinzaGoServer/internal/store"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/vlt"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Msg = mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION)
)

// Server - everything a route needs; nothing in this package reaches for a global
type Server struct {
	Cfg      *str.CurrentConfiguration
	Docs     *vlt.DocVault
	Sessions *vlt.SessionVault
	Engines  *geom.EngineVault
	Hub      *vlt.BuildInfoHub
	WSPool   *vlt.WSPool
	Police   *vlt.Police
	Source   store.Source
	Launched time.Time
	ctx      context.Context
}

// NewServer - ctx bounds every background index build the routes start
func NewServer(ctx context.Context, cfg *str.CurrentConfiguration, docs *vlt.DocVault, hub *vlt.BuildInfoHub, src store.Source) *Server {
	return &Server{
		Cfg:      cfg,
		Docs:     docs,
		Sessions: vlt.MakeSessionVault(nil),
		Engines:  geom.MakeEngineVault(geom.WallClock),
		Hub:      hub,
		WSPool:   vlt.WSFillNewPool(hub),
		Source:   src,
		Launched: time.Now(),
		ctx:      ctx,
	}
}

// Echo - the configured server with every route in place
func (s *Server) Echo() *echo.Echo {
	const (
		LLOGFMT = "r: ${status}\tt: ${latency_human}\tu: ${uri}\n"
		RLOGFMT = "${remote_ip}\t${custom}\t${status}\t${bytes_out}\t${uri}\n"
	)

	// ctf - a CustomTagFunc return a short user agent
	ctf := func(c echo.Context, buf *bytes.Buffer) (int, error) {
		ua := strings.Split(c.Request().UserAgent(), " ")
		if len(ua) == 0 {
			return 0, nil
		}
		return buf.Write([]byte(ua[len(ua)-1]))
	}

	//
	// SETUP
	//

	e := echo.New()

	e.Server.ReadTimeout = vv.TIMEOUTRD
	e.Server.WriteTimeout = vv.TIMEOUTWR

	if s.Police != nil {
		// see "policerequestandresponse.go"
		e.Use(s.Police.PoliceRequestAndResponse)
	}

	switch s.Cfg.EchoLog {
	case 3:
		e.Use(middleware.Logger())
	case 2:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: RLOGFMT, CustomTagFunc: ctf}))
	case 1:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: LLOGFMT}))
	default:
		// do nothing
	}

	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(vv.MAXECHOREQPERSECONDPERIP)))

	e.Use(middleware.Recover())

	if s.Cfg.Gzip {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
	}

	//
	// GINZA ROUTES
	//

	// [a] frontpage and registry ("rt-frontpage.go")

	e.GET("/", s.RtFrontpage)
	e.GET("/witnesses", s.RtWitnesses)

	// [b] pages, lines, display trees ("rt-page.go")

	e.GET("/page/:num", s.RtPage)                 // "u: /page/3"
	e.GET("/page/:num/line/:line/:wit", s.RtLine) // "u: /page/3/line/7/A"
	e.GET("/display/:num/:line", s.RtDisplay)     // "u: /display/3/7"
	e.POST("/popup/variant", s.RtPopupVariant)    // {"page": 3, "line": 7, "key": "..."}

	// [c] columns ("rt-columns.go")

	e.GET("/columns/add/:wit", s.RtColumnAdd)
	e.GET("/columns/remove/:wit", s.RtColumnRemove)
	e.GET("/columns/script/:wit/:onoff", s.RtColumnScript) // "u: /columns/script/A/on"

	// [d] searching ("rt-search.go")

	e.GET("/srch/ms", s.RtSearchMS) // "u: /srch/ms?q=sator"
	e.GET("/srch/tr", s.RtSearchTR)

	// [e] geometry ("rt-geom.go")

	e.POST("/geom/attach/:container", s.RtGeomAttach)
	e.POST("/geom/regions/:container", s.RtGeomRegions)
	e.POST("/geom/resize/:container", s.RtGeomResize)
	e.GET("/geom/current/:container", s.RtGeomCurrent)
	e.POST("/geom/popup/:container", s.RtGeomPopup)
	e.GET("/geom/detach/:container", s.RtGeomDetach)

	// [f] charts ("rt-chart.go")

	e.GET("/chart/variants", s.RtChartVariants)

	// [g] resets ("rt-reset.go")

	e.GET("/reset/index", s.RtResetIndex)
	e.GET("/reset/teardown", s.RtResetTeardown)

	// [h] websocket ("rt-websocket.go")

	e.GET("/ws", s.RtWebsocket)

	// [i] metrics

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.HideBanner = true
	e.HidePort = false
	e.Debug = false
	e.DisableHTTP2 = true
	return e
}

// StartEchoServer - start serving; this blocks and does not return while the program remains alive
func (s *Server) StartEchoServer() {
	go s.WSPool.WSPoolStartListening()
	e := s.Echo()
	e.Logger.Fatal(e.Start(fmt.Sprintf("%s:%d", s.Cfg.HostIP, s.Cfg.HostPort)))
}
