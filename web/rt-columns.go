//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"net/http"

	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/labstack/echo/v4"
)

// JSColumns - the session's column layout after the change
type JSColumns struct {
	Columns     []string        `json:"columns"`
	ScriptModes map[string]bool `json:"scriptmodes"`
}

func columnsof(sess str.ServerSession) JSColumns {
	return JSColumns{Columns: sess.Columns, ScriptModes: sess.ScriptModes}
}

// knownwitness - an unknown id would only ever resolve to the lemma
func (s *Server) knownwitness(wid string) bool {
	reg := s.Docs.Registry()
	return reg != nil && reg.Has(wid)
}

func nowitness(c echo.Context, wid string) error {
	return JSONfailure(c, http.StatusNotFound, fmt.Sprintf("no witness '%s'", wid))
}

//
// ROUTING
//

// RtColumnAdd - show another witness
func (s *Server) RtColumnAdd(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtColumnAdd()") })
	user := s.Sessions.ReadUUIDCookie(c)
	wid := c.Param("wit")
	if !s.knownwitness(wid) {
		return nowitness(c, wid)
	}
	return JSONresponse(c, columnsof(s.Sessions.AddColumn(user, wid)))
}

// RtColumnRemove - stop showing a witness; its script mode is remembered
func (s *Server) RtColumnRemove(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtColumnRemove()") })
	user := s.Sessions.ReadUUIDCookie(c)
	return JSONresponse(c, columnsof(s.Sessions.RemoveColumn(user, c.Param("wit"))))
}

// RtColumnScript - "on", "off" or "toggle" Mandaic script for one witness
func (s *Server) RtColumnScript(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtColumnScript()") })
	user := s.Sessions.ReadUUIDCookie(c)
	wid := c.Param("wit")
	if !s.knownwitness(wid) {
		return nowitness(c, wid)
	}

	switch c.Param("onoff") {
	case "on", "yes":
		s.Sessions.SetScriptMode(user, wid, true)
	case "off", "no":
		s.Sessions.SetScriptMode(user, wid, false)
	case "toggle":
		s.Sessions.ToggleScriptMode(user, wid)
	default:
		return JSONfailure(c, http.StatusBadRequest, fmt.Sprintf("unknown script setting '%s'", c.Param("onoff")))
	}

	return JSONresponse(c, columnsof(s.Sessions.GetSess(user)))
}
