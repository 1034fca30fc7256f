//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/labstack/echo/v4"
)

func testdoc() str.Document {
	return str.Document{
		Witnesses: []str.Witness{{ID: "A", Siglum: "Pa"}, {ID: "B", Siglum: "Ox"}},
		Manuscript: []str.Page{
			{N: 3, Lines: []str.Line{
				{N: 7, XML: `ista <app type="variants"><lem>sator</lem><rdg wit="#A">satur</rdg></app> erat`},
			}},
			{N: 1, Lines: []str.Line{{N: 1, XML: `arepo tenet`}}},
		},
		Translation: []str.Page{
			{N: 3, Lines: []str.Line{{N: 7, XML: `that sower was`}}},
		},
	}
}

func TestSessionScriptModes(t *testing.T) {
	sv := MakeSessionVault([]string{"A", "B"})

	s := sv.GetSess("x")
	if !reflect.DeepEqual(s.Columns, []string{"A", "B"}) {
		t.Fatalf("default columns = %v", s.Columns)
	}

	sv.SetScriptMode("x", "B", true)
	s = sv.RemoveColumn("x", "B")
	if !reflect.DeepEqual(s.Columns, []string{"A"}) {
		t.Errorf("columns after remove = %v", s.Columns)
	}
	if !s.ScriptMode("B") {
		t.Error("removing a column reset its script mode")
	}

	s = sv.AddColumn("x", "C")
	s = sv.AddColumn("x", "B")
	s = sv.AddColumn("x", "B")
	if !reflect.DeepEqual(s.Columns, []string{"A", "C", "B"}) {
		t.Errorf("columns after add = %v", s.Columns)
	}
	if !s.ScriptMode("B") || s.ScriptMode("A") || s.ScriptMode("C") {
		t.Errorf("script modes after add = %v", s.ScriptModes)
	}

	if sv.ToggleScriptMode("x", "B") {
		t.Error("toggle should have turned B off")
	}

	// the copy handed out is not the one in the vault
	got := sv.GetSess("x")
	got.ScriptModes["A"] = true
	got.Columns[0] = "Z"
	again := sv.GetSess("x")
	if again.ScriptMode("A") || again.Columns[0] != "A" {
		t.Error("GetSess leaked the stored session")
	}
}

func TestSessionCookies(t *testing.T) {
	sv := MakeSessionVault([]string{"A"})
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	id := sv.ReadUUIDCookie(c)
	if id == "" || !sv.IsInVault(id) {
		t.Fatalf("no session for new client: %q", id)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), COOKIENAME+"="+id) {
		t.Errorf("cookie not set: %q", rec.Header().Get("Set-Cookie"))
	}

	rq := httptest.NewRequest(http.MethodGet, "/", nil)
	rq.AddCookie(&http.Cookie{Name: COOKIENAME, Value: "known"})
	c = e.NewContext(rq, httptest.NewRecorder())
	if got := sv.ReadUUIDCookie(c); got != "known" {
		t.Errorf("ReadUUIDCookie() = %q, want known", got)
	}
	if !sv.IsInVault("known") {
		t.Error("returning client was not given a session")
	}

	sv.Delete("known")
	if sv.IsInVault("known") || sv.Len() != 1 {
		t.Errorf("Delete failed; %d sessions", sv.Len())
	}
}

func TestDocVaultRebuild(t *testing.T) {
	hub := StartBuildInfoHub()
	dv := MakeDocVault(2, hub)

	if err := dv.RebuildIndices(context.Background()); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("rebuild with no document: %v", err)
	}

	if err := dv.Load(testdoc()); err != nil {
		t.Fatal(err)
	}
	if dv.Ready() {
		t.Fatal("ready before any build")
	}
	if !reflect.DeepEqual(dv.PageNumbers(), []int{1, 3}) {
		t.Errorf("PageNumbers() = %v", dv.PageNumbers())
	}
	if dv.Registry().Siglum("B") != "Ox" {
		t.Errorf("registry not loaded")
	}

	if err := dv.RebuildIndices(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !dv.Ready() {
		t.Fatal("not ready after build")
	}
	if n := len(dv.ManuscriptIndex().Lookup("satur")); n != 1 {
		t.Errorf("satur: %d entries", n)
	}
	if n := len(dv.TranslationIndex().Lookup("sower")); n != 1 {
		t.Errorf("sower: %d entries", n)
	}

	bi := hub.Fetch("")
	if !bi.Exists || !bi.Done || bi.Err != "" || bi.Pages != 3 || bi.Remain != 0 || bi.Tokens == 0 {
		t.Errorf("build info = %+v", bi)
	}

	if l, ok := dv.Line(3, 7); !ok || !strings.HasPrefix(l.XML, "ista") {
		t.Errorf("Line(3, 7) = %v %v", l, ok)
	}
	if _, ok := dv.TranslationLine(1, 1); ok {
		t.Error("page 1 has no translation")
	}

	// a fresh document drops the old indices
	old := dv.ManuscriptIndex()
	if err := dv.Load(testdoc()); err != nil {
		t.Fatal(err)
	}
	if dv.Ready() || old.Len() != 0 {
		t.Error("reload left the old indices live")
	}
}

func TestDocVaultCancelled(t *testing.T) {
	dv := MakeDocVault(2, nil)
	if err := dv.Load(testdoc()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := dv.RebuildIndices(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled rebuild returned %v", err)
	}
	if dv.Ready() {
		t.Error("a cancelled build installed indices")
	}

	if err := dv.RebuildIndices(context.Background()); err != nil {
		t.Fatal(err)
	}
	ms := dv.ManuscriptIndex()
	dv.Teardown()
	if dv.Ready() || dv.Registry() != nil || len(dv.Pages()) != 0 || ms.Len() != 0 {
		t.Error("teardown left state behind")
	}
}

func TestDocVaultLoadXML(t *testing.T) {
	const (
		src = `<TEI><teiHeader><listWit><witness xml:id="A"><idno type="siglum">Pa</idno></witness></listWit></teiHeader>` +
			`<text><body><pb n="2"/><lb n="1"/>sator <lb n="2"/>arepo</body></text></TEI>`
	)
	dv := MakeDocVault(1, nil)
	if err := dv.LoadXML("", src, ""); err != nil {
		t.Fatal(err)
	}
	if dv.Registry().Siglum("A") != "Pa" {
		t.Error("witness list not read from the source")
	}
	p, ok := dv.Page(2)
	if !ok || len(p.Lines) != 2 {
		t.Errorf("Page(2) = %+v %v", p, ok)
	}
	if err := dv.LoadXML("", "<TEI><body></TEI>", ""); err == nil {
		t.Error("malformed source accepted")
	}
}

func TestFormatPoll(t *testing.T) {
	tests := []struct {
		pd   PollData
		want string
	}{
		{PollData{TotalWrk: 4, Remain: 1, Elapsed: "0.2s"}, `Indexing: <span class="progress">75%</span> completed&nbsp;(0.2s)<br>`},
		{PollData{TotalWrk: 4, Done: true, Tokens: 9, Elapsed: "0.3s"}, `Indexing: finished&nbsp;(0.3s)<br>(<span class="progress">9</span> tokens)<br>`},
		{PollData{Done: true, Err: "boom", Elapsed: "0.1s"}, `Indexing: failed&nbsp;(0.1s)<br><span class="lineerror">boom</span>`},
		{PollData{Elapsed: "0.0s"}, `Indexing&nbsp;(0.0s)`},
	}
	for _, tt := range tests {
		if got := formatpoll(tt.pd); got != tt.want {
			t.Errorf("formatpoll(%+v) = %q, want %q", tt.pd, got, tt.want)
		}
	}
}

func TestPoliceStrikes(t *testing.T) {
	p := StartPolice(0)
	for i := 0; i < FAILSALLOWED; i++ {
		if p.Strike("10.0.0.1") {
			t.Fatalf("blacklisted after %d strikes", i+1)
		}
	}
	if !p.Allowed("10.0.0.1") {
		t.Fatal("refused before the limit")
	}
	if !p.Strike("10.0.0.1") {
		t.Error("strike over the limit did not blacklist")
	}
	if p.Allowed("10.0.0.1") || !p.Allowed("10.0.0.2") {
		t.Error("blacklist wrong")
	}

	e := echo.New()
	e.Use(p.PoliceRequestAndResponse)
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rq := httptest.NewRequest(http.MethodGet, "/", nil)
	rq.RemoteAddr = "10.0.0.1:999"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, rq)
	if rec.Code != http.StatusForbidden {
		t.Errorf("blacklisted address got %d", rec.Code)
	}

	rq = httptest.NewRequest(http.MethodGet, "/", nil)
	rq.RemoteAddr = "10.0.0.2:999"
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, rq)
	if rec.Code != http.StatusOK {
		t.Errorf("clean address got %d", rec.Code)
	}
}
