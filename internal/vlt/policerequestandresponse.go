//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/e-gun/GinzaGoServer/internal/metrics"
	"github.com/labstack/echo/v4"
)

//
// RESPONSEPOLICING: count response codes; refuse addresses that keep earning strikes
//

const (
	FAILSALLOWED = 3
)

type BlackListRD struct {
	ip   string
	resp chan bool
}

type BlackListWR struct {
	ip   string
	resp chan bool
}

type StatListWR struct {
	code int
	ip   string
	uri  string
}

// Police - the channels that talk to the blacklist keeper and the stats keeper
type Police struct {
	BListWR  chan BlackListWR
	BListRD  chan BlackListRD
	SListWR  chan StatListWR
	Slowdown time.Duration
}

// StartPolice - build the channels and launch both keepers
func StartPolice(slowdown time.Duration) *Police {
	p := &Police{
		BListWR:  make(chan BlackListWR),
		BListRD:  make(chan BlackListRD),
		SListWR:  make(chan StatListWR, 16),
		Slowdown: slowdown,
	}
	go p.IPBlacklistKeeper()
	go p.ResponseStatsKeeper()
	return p
}

// Allowed - not (yet) on the blacklist
func (p *Police) Allowed(ip string) bool {
	rd := BlackListRD{ip: ip, resp: make(chan bool)}
	p.BListRD <- rd
	return <-rd.resp
}

// Strike - true if this strike put the address on the blacklist
func (p *Police) Strike(ip string) bool {
	wr := BlackListWR{ip: ip, resp: make(chan bool)}
	p.BListWR <- wr
	return <-wr.resp
}

// PoliceRequestAndResponse - track response code counts + block repeat offenders; this is custom middleware for an *echo.Echo
func (p *Police) PoliceRequestAndResponse(nextechohandler echo.HandlerFunc) echo.HandlerFunc {
	const (
		BLACK0 = `IP address %s was blacklisted: too many previous response code errors`
		BLACK1 = `IP address %s received a strike: invalid request prefix in URI "%s"`
	)

	return func(c echo.Context) error {
		// presumed guilty: 403
		registerresult := StatListWR{
			code: http.StatusForbidden,
			ip:   c.RealIP(),
			uri:  c.Request().RequestURI,
		}

		ok := p.Allowed(c.RealIP())

		// is something like 'http://journalseek.net/' in the request?
		rq := c.Request().RequestURI
		if strings.HasPrefix(rq, "http:") || strings.HasPrefix(rq, "https:") {
			ok = false
			if !p.Strike(c.RealIP()) {
				Msg.WARN(fmt.Sprintf(BLACK1, c.RealIP(), rq))
			}
		}

		if !ok {
			p.SListWR <- registerresult
			time.Sleep(p.Slowdown)
			return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf(BLACK0, c.RealIP()))
		}

		// do this before reading c.Response().Status or you will always get "200"
		if err := nextechohandler(c); err != nil {
			c.Error(err)
		}
		registerresult.code = c.Response().Status
		p.SListWR <- registerresult
		return nil
	}
}

// IPBlacklistKeeper - blacklist read/write; this loop never exits
func (p *Police) IPBlacklistKeeper() {
	const (
		BLACK0 = `IP address %s was blacklisted: too many previous response code errors; %d address(es) on the blacklist`
	)

	strikecount := make(map[string]int)
	blacklist := make(map[string]struct{})

	for {
		select {
		case rd := <-p.BListRD:
			_, bad := blacklist[rd.ip]
			rd.resp <- !bad
		case wr := <-p.BListWR:
			strikecount[wr.ip]++
			listed := false
			if _, already := blacklist[wr.ip]; !already && strikecount[wr.ip] > FAILSALLOWED {
				blacklist[wr.ip] = struct{}{}
				metrics.Blacklisted.Set(float64(len(blacklist)))
				Msg.NOTE(fmt.Sprintf(BLACK0, wr.ip, len(blacklist)))
				listed = true
			}
			wr.resp <- listed
		}
	}
}

// ResponseStatsKeeper - count echo responses; 404, 405 and 500 earn a strike
func (p *Police) ResponseStatsKeeper() {
	const (
		STRIKE = `IP address %s received a strike: %d for URI "%s"`
	)

	for {
		status := <-p.SListWR
		metrics.Responses.WithLabelValues(strconv.Itoa(status.code)).Inc()
		switch status.code {
		case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusInternalServerError:
			if !p.Strike(status.ip) {
				Msg.FYI(fmt.Sprintf(STRIKE, status.ip, status.code, status.uri))
			}
		default:
			// not interested: 200, 302, 101 from "/ws", ...
		}
	}
}
