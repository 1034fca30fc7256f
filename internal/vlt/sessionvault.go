//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/e-gun/GinzaGoServer/internal/metrics"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	COOKIENAME = "ID"
	COOKIELIFE = 4800 * time.Hour
)

//
// THREAD SAFE INFRASTRUCTURE: MUTEX
//

// MakeSessionVault - new sessions start with these witness columns
func MakeSessionVault(defaultcolumns []string) *SessionVault {
	return &SessionVault{
		SessionMap: make(map[string]str.ServerSession),
		defaults:   slices.Clone(defaultcolumns),
		mutex:      sync.RWMutex{},
	}
}

// SessionVault - all the sessions
type SessionVault struct {
	SessionMap map[string]str.ServerSession
	defaults   []string
	mutex      sync.RWMutex
}

// MakeDefaultSession - a fresh session on page 0 (i.e. "the first page there is")
func (sv *SessionVault) MakeDefaultSession(id string) str.ServerSession {
	sv.mutex.RLock()
	defer sv.mutex.RUnlock()
	return str.ServerSession{
		ID:          id,
		Columns:     slices.Clone(sv.defaults),
		ScriptModes: make(map[string]bool),
	}
}

// SetDefaultColumns - what new sessions will see; existing sessions are untouched
func (sv *SessionVault) SetDefaultColumns(cc []string) {
	sv.mutex.Lock()
	defer sv.mutex.Unlock()
	sv.defaults = slices.Clone(cc)
}

func (sv *SessionVault) InsertSess(s str.ServerSession) {
	sv.mutex.Lock()
	defer sv.mutex.Unlock()
	if _, ok := sv.SessionMap[s.ID]; !ok {
		metrics.ActiveSessions.Inc()
	}
	sv.SessionMap[s.ID] = clonesess(s)
}

func (sv *SessionVault) Delete(id string) {
	sv.mutex.Lock()
	defer sv.mutex.Unlock()
	if _, ok := sv.SessionMap[id]; ok {
		metrics.ActiveSessions.Dec()
	}
	delete(sv.SessionMap, id)
}

func (sv *SessionVault) IsInVault(id string) bool {
	sv.mutex.RLock()
	defer sv.mutex.RUnlock()
	_, b := sv.SessionMap[id]
	return b
}

func (sv *SessionVault) Len() int {
	sv.mutex.RLock()
	defer sv.mutex.RUnlock()
	return len(sv.SessionMap)
}

// GetSess - a copy; callers change sessions only through the vault
func (sv *SessionVault) GetSess(id string) str.ServerSession {
	sv.mutex.RLock()
	s, ok := sv.SessionMap[id]
	sv.mutex.RUnlock()
	if !ok {
		return sv.MakeDefaultSession(id)
	}
	return clonesess(s)
}

// update - read, modify and write a session under one lock
func (sv *SessionVault) update(id string, fnc func(s *str.ServerSession)) str.ServerSession {
	sv.mutex.Lock()
	defer sv.mutex.Unlock()
	s, ok := sv.SessionMap[id]
	if !ok {
		s = str.ServerSession{ID: id, Columns: slices.Clone(sv.defaults), ScriptModes: make(map[string]bool)}
		metrics.ActiveSessions.Inc()
	}
	s = clonesess(s)
	fnc(&s)
	sv.SessionMap[id] = s
	return clonesess(s)
}

// AddColumn - append a witness column unless it is already showing; its script mode is whatever it was last time
func (sv *SessionVault) AddColumn(id string, wid string) str.ServerSession {
	return sv.update(id, func(s *str.ServerSession) {
		if !slices.Contains(s.Columns, wid) {
			s.Columns = append(s.Columns, wid)
		}
	})
}

// RemoveColumn - drop a witness column; ScriptModes keeps its entry
func (sv *SessionVault) RemoveColumn(id string, wid string) str.ServerSession {
	return sv.update(id, func(s *str.ServerSession) {
		if i := slices.Index(s.Columns, wid); i >= 0 {
			s.Columns = slices.Delete(s.Columns, i, i+1)
		}
	})
}

// SetScriptMode - Mandaic on or off for one witness column
func (sv *SessionVault) SetScriptMode(id string, wid string, mandaic bool) str.ServerSession {
	return sv.update(id, func(s *str.ServerSession) {
		s.ScriptModes[wid] = mandaic
	})
}

// ToggleScriptMode - flip one witness column and report the new mode
func (sv *SessionVault) ToggleScriptMode(id string, wid string) bool {
	var now bool
	sv.update(id, func(s *str.ServerSession) {
		now = !s.ScriptModes[wid]
		s.ScriptModes[wid] = now
	})
	return now
}

func (sv *SessionVault) SetPage(id string, pg int) str.ServerSession {
	return sv.update(id, func(s *str.ServerSession) {
		s.Page = pg
	})
}

func clonesess(s str.ServerSession) str.ServerSession {
	s.Columns = slices.Clone(s.Columns)
	if s.ScriptModes == nil {
		s.ScriptModes = make(map[string]bool)
	} else {
		s.ScriptModes = maps.Clone(s.ScriptModes)
	}
	return s
}

// ReadUUIDCookie - find the ID of the client
func (sv *SessionVault) ReadUUIDCookie(c echo.Context) string {
	cookie, err := c.Cookie(COOKIENAME)
	if err != nil || cookie.Value == "" {
		return sv.WriteUUIDCookie(c)
	}
	id := cookie.Value

	if !sv.IsInVault(id) {
		sv.InsertSess(sv.MakeDefaultSession(id))
	}

	return id
}

// WriteUUIDCookie - set the ID of the client
func (sv *SessionVault) WriteUUIDCookie(c echo.Context) string {
	cookie := new(http.Cookie)
	cookie.Name = COOKIENAME
	cookie.Path = "/"
	cookie.Value = uuid.New().String()
	cookie.Expires = time.Now().Add(COOKIELIFE)
	c.SetCookie(cookie)
	sv.InsertSess(sv.MakeDefaultSession(cookie.Value))
	Msg.TMI(fmt.Sprintf("WriteUUIDCookie() - new ID set: %s", cookie.Value))
	return cookie.Value
}
