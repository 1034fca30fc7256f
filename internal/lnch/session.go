//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"github.com/e-gun/GinzaGoServer/internal/wit"
)

// DefaultColumns - a new session shows every witness, in registry order
func DefaultColumns(reg *wit.Registry) []string {
	// note that the SessionVault clears every time the server restarts
	if reg == nil {
		return nil
	}
	return reg.IDs()
}
