//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/e-gun/GinzaGoServer/internal/geom"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/labstack/echo/v4"
)

// JSRegions - the click regions of one container and the html that draws them
type JSRegions struct {
	Container string            `json:"container"`
	Regions   []str.ClickRegion `json:"regions"`
	HTML      string            `json:"html"`
	Pending   bool              `json:"pending,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// PopupCommand - "open" carries a request; "close" does not
type PopupCommand struct {
	Action  string           `json:"action"`
	Request str.PopupRequest `json:"request"`
}

type JSPopupState struct {
	Container string             `json:"container"`
	State     string             `json:"state"`
	Placement str.PopupPlacement `json:"placement"`
}

// enginekey - containers are named by the page; two clients can show the same page
func enginekey(user string, container string) string {
	return user + "/" + container
}

func (s *Server) engine(c echo.Context) (*geom.Engine, bool) {
	user := s.Sessions.ReadUUIDCookie(c)
	return s.Engines.Get(enginekey(user, c.Param("container")))
}

func regionsof(e *geom.Engine) JSRegions {
	rr := e.Regions()
	return JSRegions{Container: e.Container, Regions: rr, HTML: geom.RegionsHTML(rr), Pending: e.Pending()}
}

func noengine(c echo.Context) error {
	return JSONfailure(c, http.StatusNotFound, fmt.Sprintf("nothing attached to '%s'", c.Param("container")))
}

// bindlayout - an empty body is an empty layout
func bindlayout(c echo.Context) ([]str.SpanLayout, error) {
	var layout []str.SpanLayout
	err := json.NewDecoder(c.Request().Body).Decode(&layout)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return layout, err
}

//
// ROUTING
//

// RtGeomAttach - one engine per container; a layout in the body is computed at once
func (s *Server) RtGeomAttach(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtGeomAttach()") })
	user := s.Sessions.ReadUUIDCookie(c)

	layout, err := bindlayout(c)
	if err != nil {
		return JSONfailure(c, http.StatusBadRequest, "unparseable layout")
	}

	e, err := s.Engines.Attach(enginekey(user, c.Param("container")))
	if errors.Is(err, geom.ErrAlreadyAttached) {
		return JSONfailure(c, http.StatusConflict, err.Error())
	}

	var rerr error
	if len(layout) > 0 {
		rerr = e.Recompute(layout)
	}

	jsr := regionsof(e)
	if rerr != nil {
		jsr.Error = rerr.Error()
	}
	return JSONresponse(c, jsr)
}

// RtGeomRegions - a full recompute from the layout in the body; on failure the old regions stand
func (s *Server) RtGeomRegions(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtGeomRegions()") })
	e, ok := s.engine(c)
	if !ok {
		return noengine(c)
	}

	layout, err := bindlayout(c)
	if err != nil {
		return JSONfailure(c, http.StatusBadRequest, "unparseable layout")
	}

	rerr := e.Recompute(layout)

	jsr := regionsof(e)
	if rerr != nil {
		jsr.Error = rerr.Error()
	}
	return JSONresponse(c, jsr)
}

// RtGeomResize - resize and scroll events arrive in bursts: debounce them
func (s *Server) RtGeomResize(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtGeomResize()") })
	e, ok := s.engine(c)
	if !ok {
		return noengine(c)
	}

	layout, err := bindlayout(c)
	if err != nil {
		return JSONfailure(c, http.StatusBadRequest, "unparseable layout")
	}

	e.RequestRecompute(layout)
	return c.JSON(http.StatusAccepted, regionsof(e))
}

// RtGeomCurrent - the regions as they stand
func (s *Server) RtGeomCurrent(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtGeomCurrent()") })
	e, ok := s.engine(c)
	if !ok {
		return noengine(c)
	}
	return JSONresponse(c, regionsof(e))
}

// RtGeomPopup - drive the container's popup; the placement comes back at once so the client need not wait a frame
func (s *Server) RtGeomPopup(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtGeomPopup()") })
	e, ok := s.engine(c)
	if !ok {
		return noengine(c)
	}

	var pc PopupCommand
	if err := c.Bind(&pc); err != nil {
		return JSONfailure(c, http.StatusBadRequest, "unparseable popup command")
	}

	jsp := JSPopupState{Container: e.Container}
	switch pc.Action {
	case "open":
		e.Popup.Open(pc.Request)
		jsp.Placement = geom.PlacePopup(pc.Request)
	case "close":
		e.Popup.Close()
		jsp.Placement = e.Popup.Placement()
	default:
		return JSONfailure(c, http.StatusBadRequest, fmt.Sprintf("unknown popup action '%s'", pc.Action))
	}
	jsp.State = e.Popup.State().String()

	return JSONresponse(c, jsp)
}

// RtGeomDetach - the container is gone
func (s *Server) RtGeomDetach(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtGeomDetach()") })
	user := s.Sessions.ReadUUIDCookie(c)
	if !s.Engines.Detach(enginekey(user, c.Param("container"))) {
		return noengine(c)
	}
	return JSONresponse(c, JSRegions{Container: c.Param("container"), Regions: []str.ClickRegion{}})
}
