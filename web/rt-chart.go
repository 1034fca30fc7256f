//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/e-gun/GinzaGoServer/internal/disp"
	"github.com/e-gun/GinzaGoServer/internal/gen"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/e-gun/GinzaGoServer/internal/wit"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/labstack/echo/v4"
)

const (
	CHARTWIDTH  = "900px"
	CHARTHEIGHT = "420px"
)

//
// ROUTING
//

// RtChartVariants - two bar charts: readings per witness and readings per cause
func (s *Server) RtChartVariants(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtChartVariants()") })

	reg := s.Docs.Registry()
	if reg == nil {
		return JSONfailure(c, http.StatusServiceUnavailable, "no document loaded")
	}

	st := disp.Stats(s.Docs.Pages())

	page := components.NewPage()
	page.AddCharts(witnesschart(st, reg), causechart(st))

	var b bytes.Buffer
	if err := page.Render(&b); err != nil {
		Msg.WARN(fmt.Sprintf("RtChartVariants(): %s", err.Error()))
		return JSONfailure(c, http.StatusInternalServerError, err.Error())
	}
	return c.HTMLBlob(http.StatusOK, b.Bytes())
}

// witnesschart - one bar per witness in registry order, labelled by siglum
func witnesschart(st disp.VariantStats, reg *wit.Registry) *charts.Bar {
	const (
		TTL = "Readings by witness"
		SUB = "%d apparatus entries; %d readings; %d unreadable lines"
	)
	bar := newbar(TTL, fmt.Sprintf(SUB, st.Apparatus, st.Readings, st.Unparseable))

	var x []string
	var y []opts.BarData
	for _, w := range reg.Witnesses() {
		x = append(x, w.Siglum)
		y = append(y, opts.BarData{Value: st.ByWitness[w.ID]})
	}

	bar.SetXAxis(x).AddSeries("readings", y)
	return bar
}

// causechart - one bar per category of variation
func causechart(st disp.VariantStats) *charts.Bar {
	const (
		TTL = "Readings by cause"
	)
	bar := newbar(TTL, "")

	var x []string
	var y []opts.BarData
	for _, k := range gen.SortedKeys(st.ByCause) {
		lab := vv.CauseLabels[k]
		if lab == "" {
			lab = k
		}
		x = append(x, lab)
		y = append(y, opts.BarData{Value: st.ByCause[k]})
	}

	bar.SetXAxis(x).AddSeries("readings", y)
	return bar
}

func newbar(title string, subtitle string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: vv.MYNAME,
			Width:     CHARTWIDTH,
			Height:    CHARTHEIGHT,
		}),
	)
	return bar
}
