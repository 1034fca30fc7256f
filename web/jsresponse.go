//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSFailure - what the JS on the other side gets instead of the thing it asked for
type JSFailure struct {
	Error string `json:"error"`
}

func JSONresponse(c echo.Context, jsr any) error {
	// note that JSONPretty will end up strikingly prominent on the profiler: a waste of memory and cycles unless
	// you are debugging and want to be able to inspect the json manually
	return c.JSON(http.StatusOK, jsr)
}

func JSONfailure(c echo.Context, code int, why string) error {
	return c.JSON(code, JSFailure{Error: why})
}
