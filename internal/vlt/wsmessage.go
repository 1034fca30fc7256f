//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/e-gun/GinzaGoServer/internal/mm"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/gorilla/websocket"
)

var Msg = mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION)

//
// WEBSOCKET INFRASTRUCTURE: see https://tutorialedge.net/projects/chat-system-in-go-and-react/part-4-handling-multiple-clients/
//

type PollData struct {
	TotalWrk int    `json:"Poolofwork"`
	Remain   int    `json:"Remaining"`
	Tokens   int    `json:"Tokencount"`
	Elapsed  string `json:"Elapsed"`
	Err      string `json:"Error"`
	Done     bool   `json:"Done"`
	ID       string `json:"ID"`
}

type WSClient struct {
	ID   string
	Conn *websocket.Conn
	Pool *WSPool
}

type WSPool struct {
	Add       chan *WSClient
	Remove    chan *WSClient
	ClientMap map[*WSClient]bool
	JSO       chan *WSJSOut
	ReadID    chan string
	Hub       *BuildInfoHub
}

type WSJSOut struct {
	V     string `json:"value"`
	ID    string `json:"ID"`
	Close string `json:"close"`
}

// ReceiveID - get the build id from the client (an empty message means "the latest build"); record it; then exit
func (c *WSClient) ReceiveID() {
	const (
		FAIL1 = `WSClient.ReceiveID() failed`
	)

	c.Conn.SetReadDeadline(time.Now().Add(time.Second))
	_, m, err := c.Conn.ReadMessage()
	c.Conn.SetReadDeadline(time.Time{})
	if err != nil {
		Msg.FYI(FAIL1)
		return
	}
	c.ID = strings.Replace(strings.TrimSpace(string(m)), `"`, "", -1)
	c.Pool.ReadID <- c.ID
}

// WSMessageLoop - output the constantly updated build progress to the websocket; then exit
func (c *WSClient) WSMessageLoop() {
	const (
		FAIL    = `WSClient.WSMessageLoop() never found build '%s'`
		SUCCESS = `WSClient.WSMessageLoop() found build '%s'`
	)

	// wait for the build to exist
	quit := time.Now().Add(time.Second * 1)

	var bi BuildInfo
	for {
		bi = c.Pool.Hub.Fetch(c.ID)
		if bi.Exists {
			Msg.FYI(fmt.Sprintf(SUCCESS, bi.ID))
			break
		}

		if time.Now().After(quit) {
			Msg.FYI(fmt.Sprintf(FAIL, c.ID))
			c.Pool.Remove <- c
			return
		}
		time.Sleep(vv.WSPOLLINGPAUSE)
	}

	// "" may be bound to a different build by now: stick with the one found
	id := bi.ID

	// loop until the build finishes
	for {
		bi = c.Pool.Hub.Fetch(id)
		if !bi.Exists {
			break
		}

		pd := PollData{
			TotalWrk: bi.Pages,
			Remain:   bi.Remain,
			Tokens:   bi.Tokens,
			Err:      bi.Err,
			Done:     bi.Done,
			ID:       id,
			Elapsed:  fmt.Sprintf("%.1fs", elapsed(bi).Seconds()),
		}

		cl := "open"
		if bi.Done {
			cl = "close"
		}

		c.Pool.JSO <- &WSJSOut{
			V:     formatpoll(pd),
			ID:    c.ID,
			Close: cl,
		}

		if bi.Done {
			break
		}
		time.Sleep(vv.WSPOLLINGPAUSE)
	}
	c.Pool.Remove <- c
}

func elapsed(bi BuildInfo) time.Duration {
	if bi.Done {
		return bi.Finished.Sub(bi.Launched)
	}
	return time.Since(bi.Launched)
}

// WSPoolStartListening - the WSPool will listen for activity on its various channels (only called once at launch)
func (pool *WSPool) WSPoolStartListening() {
	const (
		MSG1 = "Starting polling loop for '%s'"
		MSG2 = "WSPool client failed on WriteMessage()"
	)

	writemsg := func(jso *WSJSOut) {
		for cl := range pool.ClientMap {
			if cl.ID == jso.ID {
				js, y := json.Marshal(jso)
				Msg.EC(y)
				e := cl.Conn.WriteMessage(websocket.TextMessage, js)
				if e != nil {
					Msg.WARN(MSG2)
					delete(pool.ClientMap, cl)
				}
			}
		}
	}

	for {
		select {
		case id := <-pool.Add:
			pool.ClientMap[id] = true
		case id := <-pool.Remove:
			delete(pool.ClientMap, id)
		case id := <-pool.ReadID:
			Msg.PEEK(fmt.Sprintf(MSG1, id))
		case wrt := <-pool.JSO:
			writemsg(wrt)
		}
	}
}

// WSFillNewPool - build a new WSPool (one and only one built at launch)
func WSFillNewPool(hub *BuildInfoHub) *WSPool {
	return &WSPool{
		Add:       make(chan *WSClient),
		Remove:    make(chan *WSClient),
		ClientMap: make(map[*WSClient]bool),
		JSO:       make(chan *WSJSOut),
		ReadID:    make(chan string),
		Hub:       hub,
	}
}

// formatpoll - build HTML to send to the JS on the other side
func formatpoll(pd PollData) string {
	// example:
	// Indexing: <span class="progress">31%</span> completed&nbsp;(0.3s)<br>

	const (
		IDX = `Indexing`
		PCT = `: <span class="progress">%s</span> completed&nbsp;(%s)<br>`
		FIN = `: finished&nbsp;(%s)<br>(<span class="progress">%d</span> tokens)<br>`
		BAD = `: failed&nbsp;(%s)<br><span class="lineerror">%s</span>`
		EL  = `&nbsp;(%s)`
	)

	htm := IDX

	switch {
	case pd.Done && pd.Err != "":
		htm += fmt.Sprintf(BAD, pd.Elapsed, pd.Err)
	case pd.Done:
		htm += fmt.Sprintf(FIN, pd.Elapsed, pd.Tokens)
	case pd.TotalWrk != 0:
		pctd := (float32(pd.TotalWrk-pd.Remain) / float32(pd.TotalWrk)) * 100
		htm += fmt.Sprintf(PCT, fmt.Sprintf("%.0f", pctd)+"%", pd.Elapsed)
	default:
		// nothing to count
		htm += fmt.Sprintf(EL, pd.Elapsed)
	}

	return htm
}
