//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/e-gun/GinzaGoServer/internal/lnch"
	"github.com/e-gun/GinzaGoServer/internal/vlt"
	"github.com/labstack/echo/v4"
)

type JSReset struct {
	Status  string `json:"status"`
	Pages   int    `json:"pages"`
	Engines int    `json:"engines,omitempty"`
}

//
// ROUTING
//

// RtResetIndex - reload the document and rebuild the indices in the background; progress is on "/ws"
func (s *Server) RtResetIndex(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtResetIndex()") })

	const (
		FAIL1 = "RtResetIndex(): could not reload '%s': %s"
		FAIL2 = "RtResetIndex(): rebuild failed: %s"
		DROP  = "RtResetIndex(): rebuild abandoned: %s"
	)

	if s.Source != nil {
		doc, err := s.Source.Load(s.ctx)
		if err != nil {
			Msg.WARN(fmt.Sprintf(FAIL1, s.Source.Name(), err.Error()))
			return JSONfailure(c, http.StatusInternalServerError, err.Error())
		}
		if err = s.Docs.Load(doc); err != nil {
			Msg.WARN(fmt.Sprintf(FAIL1, s.Source.Name(), err.Error()))
			return JSONfailure(c, http.StatusInternalServerError, err.Error())
		}
		// the witness list may have changed under the reload
		s.Sessions.SetDefaultColumns(lnch.DefaultColumns(s.Docs.Registry()))
	}

	if s.Docs.Registry() == nil {
		return JSONfailure(c, http.StatusServiceUnavailable, vlt.ErrNoDocument.Error())
	}

	go func() {
		err := s.Docs.RebuildIndices(s.ctx)
		switch {
		case err == nil:
			// the hub has the details
		case errors.Is(err, vlt.ErrSuperseded):
			Msg.FYI(fmt.Sprintf(DROP, err.Error()))
		default:
			Msg.WARN(fmt.Sprintf(FAIL2, err.Error()))
		}
	}()

	return c.JSON(http.StatusAccepted, JSReset{Status: "rebuilding", Pages: len(s.Docs.PageNumbers())})
}

// RtResetTeardown - drop the document, the indices and every geometry engine
func (s *Server) RtResetTeardown(c echo.Context) error {
	c.Response().After(func() { Msg.LogPaths("RtResetTeardown()") })
	s.Docs.Teardown()
	n := s.Engines.DetachAll()
	return JSONresponse(c, JSReset{Status: "torn down", Engines: n})
}
