//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/e-gun/GinzaGoServer/internal/db"
	"github.com/e-gun/GinzaGoServer/internal/lnch"
	"github.com/e-gun/GinzaGoServer/internal/mm"
	"github.com/e-gun/GinzaGoServer/internal/store"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/vlt"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/e-gun/GinzaGoServer/web"
	"github.com/pkg/profile"
)

// these next variables should be injected at build time: 'go build -ldflags "-X main.GitCommit=$GIT_COMMIT"', etc

var GitCommit string
var VersSuppl string
var BuildDate string
var PGOInfo string

var (
	Msg = mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION)
)

func main() {
	// go tool pprof --pdf ./GinzaGoServer /var/folders/d8/_gb2lcbn0klg22g_cbwcxgmh0000gn/T/profile1880749830/cpu.pprof > profile.pdf

	const (
		FAIL1 = "could not load the document from '%s': %s"
		FAIL2 = "could not restore the indices from '%s': %s"
		FAIL3 = "could not write the index snapshot '%s': %s"
		FAIL4 = "index build failed: %s"
		SNAPR = "indices restored from '%s'"
		SNAPW = "indices written to '%s'"
	)

	lnch.GitCommit = GitCommit
	lnch.VersSuppl = VersSuppl
	lnch.BuildDate = BuildDate
	lnch.PGOInfo = PGOInfo

	cfg := lnch.ConfigAtLaunch(os.Args[1:])

	if cfg.ProfileCPU {
		defer profile.Start().Stop()
	} else if cfg.ProfileMEM {
		defer profile.Start(profile.MemProfile).Stop()
	}

	if !cfg.QuietStart {
		lnch.PrintVersion(*cfg)
		lnch.PrintBuildInfo(*cfg)
		fmt.Println(Msg.Styled(fmt.Sprintf(vv.TERMINALTEXT, vv.PROJYEAR, vv.PROJAUTH, vv.PROJMAIL)))
	}

	go mm.PathInfoHub()

	ctx := context.Background()
	start := time.Now()
	previous := time.Now()

	src, err := source(ctx, cfg)
	if err != nil {
		Msg.MAND(err.Error())
		Msg.ExitOrHang(1)
	}

	doc, err := src.Load(ctx)
	if err != nil {
		Msg.MAND(fmt.Sprintf(FAIL1, src.Name(), err.Error()))
		Msg.ExitOrHang(1)
	}
	Msg.Timer("A1", fmt.Sprintf("%d pages loaded from '%s'", len(doc.Manuscript), src.Name()), start, previous)

	hub := vlt.StartBuildInfoHub()
	docs := vlt.MakeDocVault(cfg.WorkerCount, hub)

	previous = time.Now()
	if err = docs.Load(doc); err != nil {
		Msg.MAND(fmt.Sprintf(FAIL1, src.Name(), err.Error()))
		Msg.ExitOrHang(1)
	}
	Msg.Timer("A2", fmt.Sprintf("%d witnesses registered", docs.Registry().Len()), start, previous)

	srv := web.NewServer(ctx, cfg, docs, hub, src)
	srv.Sessions.SetDefaultColumns(lnch.DefaultColumns(docs.Registry()))
	srv.Police = vlt.StartPolice(vv.POLICESLOWDOWN)

	// the indices are either restored or built in the background; the server comes up either way
	restored := false
	if cfg.IndexRestore != "" {
		previous = time.Now()
		ms, tr, rerr := db.ImportSnapshot(ctx, cfg.IndexRestore)
		if rerr != nil {
			Msg.WARN(fmt.Sprintf(FAIL2, cfg.IndexRestore, rerr.Error()))
		} else {
			docs.InstallIndices(ms, tr)
			restored = true
			Msg.Timer("B1", fmt.Sprintf(SNAPR, cfg.IndexRestore), start, previous)
		}
	}

	if !restored {
		go func() {
			bstart := time.Now()
			if berr := docs.RebuildIndices(ctx); berr != nil {
				if !errors.Is(berr, vlt.ErrSuperseded) {
					Msg.CRIT(fmt.Sprintf(FAIL4, berr.Error()))
				}
				return
			}
			Msg.Timer("B1", "search indices built", start, bstart)

			if cfg.IndexSnapshot == "" {
				return
			}
			if serr := db.ExportSnapshot(ctx, cfg.IndexSnapshot, docs.ManuscriptIndex(), docs.TranslationIndex()); serr != nil {
				Msg.WARN(fmt.Sprintf(FAIL3, cfg.IndexSnapshot, serr.Error()))
				return
			}
			Msg.NOTE(fmt.Sprintf(SNAPW, cfg.IndexSnapshot))
		}()
	}

	srv.StartEchoServer()
}

// source - TEI files unless -pg (or the config file) asked for PostgreSQL
func source(ctx context.Context, cfg *str.CurrentConfiguration) (store.Source, error) {
	if !cfg.UsePostgres {
		// io/fs wants unrooted slash-separated paths
		return store.NewFS("/", rootless(cfg.Source), rootless(cfg.Translation)), nil
	}
	pool, err := db.FillDBConnectionPool(ctx, *cfg)
	if err != nil {
		return nil, err
	}
	return store.NewPG(pool), nil
}

func rootless(fn string) string {
	abs, err := filepath.Abs(fn)
	if err != nil {
		return fn
	}
	return strings.TrimPrefix(filepath.ToSlash(abs), "/")
}
