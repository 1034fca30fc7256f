//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package store

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

const (
	testsource = `<TEI><teiHeader><listWit>
<witness xml:id="A"><idno type="siglum">Pa</idno></witness>
</listWit></teiHeader>
<text><body><pb n="1"/><lb n="1"/>ista <app type="variants"><lem>sator</lem><rdg wit="#A">satur</rdg></app> erat</body></text></TEI>`
	testtrans = `<TEI><text><body><pb n="1"/><lb n="1"/>that sower was</body></text></TEI>`
)

func TestFSLoad(t *testing.T) {
	dir := fstest.MapFS{
		"ginza.xml":    {Data: []byte(testsource)},
		"ginza-tr.xml": {Data: []byte(testtrans)},
		"broken.xml":   {Data: []byte(`<TEI><body></TEI>`)},
	}

	var src Source = &FS{Dir: dir, Source: "ginza.xml", Translation: "ginza-tr.xml"}
	doc, err := src.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if doc.WitnessXML != testsource {
		t.Error("witness xml not carried")
	}
	if len(doc.Manuscript) != 1 || len(doc.Manuscript[0].Lines) != 1 {
		t.Errorf("manuscript = %+v", doc.Manuscript)
	}
	if len(doc.Translation) != 1 || doc.Translation[0].Lines[0].XML != "that sower was" {
		t.Errorf("translation = %+v", doc.Translation)
	}

	// a missing translation is not fatal
	doc, err = (&FS{Dir: dir, Source: "ginza.xml", Translation: "nope.xml"}).Load(context.Background())
	if err != nil || doc.Translation != nil {
		t.Errorf("missing translation: %v %v", err, doc.Translation)
	}

	if _, err = (&FS{Dir: dir, Source: "nope.xml"}).Load(context.Background()); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing source: %v", err)
	}
	if _, err = (&FS{Dir: dir, Source: "broken.xml"}).Load(context.Background()); err == nil {
		t.Error("broken source accepted")
	}
}
