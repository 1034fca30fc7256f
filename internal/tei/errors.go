//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package tei

import (
	"errors"
	"fmt"

	"github.com/e-gun/GinzaGoServer/internal/gen"
)

var (
	ErrNoLemma = errors.New("app has no lem")
	ErrNoRoot  = errors.New("no root element")
)

// ParseError - the fragment could not be turned into a tree; the caller logs it and renders an empty line
type ParseError struct {
	Fragment string
	Err      error
}

func (e *ParseError) Error() string {
	const (
		MAXSHOWN = 48
	)
	return fmt.Sprintf("cannot parse '%s': %s", gen.TrimToLen(e.Fragment, MAXSHOWN), e.Err.Error())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
