//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import "runtime"

//
// CHANNEL-BASED PATHINFO REPORTING TO COMMUNICATE STATS BETWEEN ROUTINES
//

// PIReply - PathInfoHub helper struct for returning the PathInfo
type PIReply struct {
	Response chan map[string]int
}

var (
	PIUpdate  = make(chan string, 2*runtime.NumCPU())
	PIRequest = make(chan PIReply)
)

// PathInfoHub - log paths that pass through MessageMaker.LogPaths; the main loop never exits
func PathInfoHub() {
	var (
		PathsCalled = make(map[string]int)
	)

	increm := func(p string) {
		PathsCalled[p]++
	}

	snapshot := func() map[string]int {
		cp := make(map[string]int, len(PathsCalled))
		for k, v := range PathsCalled {
			cp[k] = v
		}
		return cp
	}

	for {
		select {
		case upd := <-PIUpdate:
			increm(upd)
		case req := <-PIRequest:
			req.Response <- snapshot()
		}
	}
}

// PathStats - ask PathInfoHub for the current counts
func PathStats() map[string]int {
	r := PIReply{Response: make(chan map[string]int)}
	PIRequest <- r
	return <-r.Response
}
