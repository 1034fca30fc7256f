//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"github.com/e-gun/GinzaGoServer/internal/mm"
	"github.com/e-gun/GinzaGoServer/internal/str"
)

// ConfigureMessaging - every package's Msg picks up the configured loglevel and colors
func ConfigureMessaging(cfg *str.CurrentConfiguration) {
	mm.Configure(cfg.LogLevel, cfg.BlackAndWhite, cfg.ManualGC)
}
