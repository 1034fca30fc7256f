//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"runtime"
	"time"
)

//
// CHANNEL-BASED BUILDINFO REPORTING TO COMMUNICATE PROGRESS BETWEEN ROUTINES: index builds write; websocket reads
//

// BuildInfo - what the websocket reports about an index build
type BuildInfo struct {
	ID       string
	Exists   bool
	Pages    int
	Remain   int
	Tokens   int
	Done     bool
	Err      string
	Launched time.Time
	Finished time.Time
}

// BIKVi - BuildInfoHub helper struct for setting an int Val on the item at map[Key]
type BIKVi struct {
	Key string
	Val int
}

// BIFinish - BuildInfoHub helper struct for closing out a build
type BIFinish struct {
	Key    string
	Tokens int
	Err    string
}

// BIReply - BuildInfoHub helper struct for returning the BuildInfo stored at map[Key]; "" asks for the latest build
type BIReply struct {
	Key      string
	Response chan BuildInfo
}

// BuildInfoHub - the channels that talk to the loop that owns every BuildInfo
type BuildInfoHub struct {
	UpdateRemain chan BIKVi
	InsertInfo   chan BuildInfo
	FinishInfo   chan BIFinish
	RequestInfo  chan BIReply
	Del          chan string
}

// StartBuildInfoHub - build the hub and start its loop
func StartBuildInfoHub() *BuildInfoHub {
	h := &BuildInfoHub{
		UpdateRemain: make(chan BIKVi, 2*runtime.NumCPU()),
		InsertInfo:   make(chan BuildInfo),
		FinishInfo:   make(chan BIFinish),
		RequestInfo:  make(chan BIReply),
		Del:          make(chan string),
	}
	go h.loop()
	return h
}

// loop - the only place the map is touched; it never exits
func (h *BuildInfoHub) loop() {
	var (
		allinfo = make(map[string]BuildInfo)
		latest  string
	)

	reporter := func(r BIReply) {
		k := r.Key
		if k == "" {
			k = latest
		}
		if bi, ok := allinfo[k]; ok {
			r.Response <- bi
		} else {
			// "false" ends the polling loop in the websocket route
			r.Response <- BuildInfo{ID: k, Exists: false}
		}
	}

	for {
		select {
		case rq := <-h.RequestInfo:
			reporter(rq)
		case bi := <-h.InsertInfo:
			bi.Exists = true
			allinfo[bi.ID] = bi
			latest = bi.ID
		case wr := <-h.UpdateRemain:
			if x, ok := allinfo[wr.Key]; ok && !x.Done {
				x.Remain = wr.Val
				allinfo[wr.Key] = x
			}
		case fin := <-h.FinishInfo:
			if x, ok := allinfo[fin.Key]; ok {
				x.Done = true
				x.Remain = 0
				x.Tokens = fin.Tokens
				x.Err = fin.Err
				x.Finished = time.Now()
				allinfo[fin.Key] = x
			}
		case del := <-h.Del:
			delete(allinfo, del)
		}
	}
}

func (h *BuildInfoHub) Insert(bi BuildInfo) {
	h.InsertInfo <- bi
}

func (h *BuildInfoHub) Remain(id string, n int) {
	h.UpdateRemain <- BIKVi{Key: id, Val: n}
}

func (h *BuildInfoHub) Finish(id string, tokens int, err error) {
	f := BIFinish{Key: id, Tokens: tokens}
	if err != nil {
		f.Err = err.Error()
	}
	h.FinishInfo <- f
}

// Fetch - "" fetches the most recent build
func (h *BuildInfoHub) Fetch(id string) BuildInfo {
	responder := BIReply{Key: id, Response: make(chan BuildInfo)}
	h.RequestInfo <- responder
	return <-responder.Response
}
