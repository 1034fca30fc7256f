//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/e-gun/GinzaGoServer/internal/search"
	"github.com/e-gun/GinzaGoServer/internal/str"
)

func TestGroupLines(t *testing.T) {
	ll := []DbLine{
		{Page: 3, Line: 1, XML: "a"},
		{Page: 3, Line: 2, XML: "b"},
		{Page: 5, Line: 1, XML: "c"},
		{Page: 3, Line: 3, XML: "d"},
	}
	want := []str.Page{
		{N: 3, Lines: []str.Line{{N: 1, XML: "a"}, {N: 2, XML: "b"}, {N: 3, XML: "d"}}},
		{N: 5, Lines: []str.Line{{N: 1, XML: "c"}}},
	}
	if got := GroupLines(ll); !reflect.DeepEqual(got, want) {
		t.Errorf("GroupLines() = %+v", got)
	}
	if got := GroupLines(nil); got != nil {
		t.Errorf("GroupLines(nil) = %+v", got)
	}
}

func TestPostgresURI(t *testing.T) {
	pl := str.PostgresLogin{Host: "127.0.0.1", Port: 5432, User: "ginza_rd", Pass: "pw", DBName: "ginzaDB"}
	got := PostgresURI(pl, 0)
	want := "postgres://ginza_rd:pw@127.0.0.1:5432/ginzaDB?pool_min_conns=1&pool_max_conns=1"
	if got != want {
		t.Errorf("PostgresURI() = %q", got)
	}
}

func TestSnapshot(t *testing.T) {
	ms := search.NewIndex()
	ms.AddLine(str.IndexEntry{Page: 3, Line: 7, Text: "ista satur erat", WitnessID: "A", Siglum: "Pa"})
	ms.AddLine(str.IndexEntry{Page: 3, Line: 7, Text: "ista sator erat", WitnessID: "B", Siglum: "Ox"})
	tr := search.NewIndex()
	tr.AddLine(str.IndexEntry{Page: 3, Line: 7, Text: "that sower was", IsTranslation: true})

	fn := filepath.Join(t.TempDir(), "snap.db")
	ctx := context.Background()
	if err := ExportSnapshot(ctx, fn, ms, tr); err != nil {
		t.Fatal(err)
	}
	// a second export replaces the first
	if err := ExportSnapshot(ctx, fn, ms, tr); err != nil {
		t.Fatal(err)
	}

	gotms, gottr, err := ImportSnapshot(ctx, fn)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotms.Snapshot(), ms.Snapshot()) {
		t.Errorf("manuscript index changed:\n%v\n%v", gotms.Snapshot(), ms.Snapshot())
	}
	if !reflect.DeepEqual(gottr.Snapshot(), tr.Snapshot()) {
		t.Errorf("translation index changed:\n%v\n%v", gottr.Snapshot(), tr.Snapshot())
	}
	if hits := search.Search(gotms, "sator sat"); len(hits) != 1 || hits[0].WitnessID != "B" {
		t.Errorf("search over imported index = %+v", hits)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "empty.db")
	ctx := context.Background()
	if err := ExportSnapshot(ctx, fn, search.NewIndex(), nil); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ImportSnapshot(ctx, fn); !errors.Is(err, ErrEmptySnapshot) {
		t.Errorf("empty snapshot: %v", err)
	}

	_, _, err := ImportSnapshot(ctx, filepath.Join(t.TempDir(), "never.db"))
	if err == nil || !strings.Contains(err.Error(), "snapinfo") {
		t.Errorf("missing snapshot: %v", err)
	}
}
