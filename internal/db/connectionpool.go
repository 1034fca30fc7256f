//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/e-gun/GinzaGoServer/internal/mm"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/jackc/pgx/v5/pgxpool"
)

var Msg = mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION)

// PostgresURI - the pool url for a login; min/max conns follow the worker count
func PostgresURI(pl str.PostgresLogin, workers int) string {
	const (
		UTPL = "postgres://%s:%s@%s:%d/%s?pool_min_conns=%d&pool_max_conns=%d"
	)
	if workers < 1 {
		workers = 1
	}
	return fmt.Sprintf(UTPL, pl.User, pl.Pass, pl.Host, pl.Port, pl.DBName, 1, workers)
}

// FillDBConnectionPool - build the pgxpool that the document loader will Acquire() from
func FillDBConnectionPool(ctx context.Context, cfg str.CurrentConfiguration) (*pgxpool.Pool, error) {
	// the loader reads once at launch and once per /reset/index: one connection per index worker is plenty

	const (
		FAIL1   = "Configuration error. Could not execute ParseConfig(url) for %s@%s"
		FAIL2   = "Could not connect to PostgreSQL"
		ERRRUN  = `dial error`
		FAILRUN = `'%s': the PostgreSQL server cannot be found; check that it is running and serving on port %d`
		ERRSRV  = `server error`
		FAILSRV = `'%s': there is configuration problem; see the following response from PostgreSQL:`
	)

	pl := cfg.PGLogin
	url := PostgresURI(pl, cfg.WorkerCount)

	config, e := pgxpool.ParseConfig(url)
	if e != nil {
		// do not log the url: it has the password in it
		Msg.MAND(fmt.Sprintf(FAIL1, pl.User, pl.Host))
		return nil, fmt.Errorf("pool config: %w", e)
	}

	thepool, e := pgxpool.NewWithConfig(ctx, config)
	if e == nil {
		e = thepool.Ping(ctx)
	}
	if e != nil {
		Msg.MAND(FAIL2)
		if strings.Contains(e.Error(), ERRRUN) {
			Msg.MAND(fmt.Sprintf(FAILRUN, ERRRUN, pl.Port))
		}
		if strings.Contains(e.Error(), ERRSRV) {
			Msg.MAND(fmt.Sprintf(FAILSRV, ERRSRV))
			parts := strings.Split(e.Error(), ERRSRV)
			Msg.CRIT(parts[len(parts)-1])
		}
		if thepool != nil {
			thepool.Close()
		}
		return nil, fmt.Errorf("pool connect: %w", e)
	}
	return thepool, nil
}
