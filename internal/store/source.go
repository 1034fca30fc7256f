//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/e-gun/GinzaGoServer/internal/db"
	"github.com/e-gun/GinzaGoServer/internal/mm"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/tei"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/jackc/pgx/v5/pgxpool"
)

var Msg = mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION)

// Source - somewhere a whole edition can be read from
type Source interface {
	Load(ctx context.Context) (str.Document, error)
	Name() string
}

//
// FILESYSTEM
//

// FS - TEI files on disk; the witness list is read out of the source's own header
type FS struct {
	Dir         fs.FS
	Source      string
	Translation string // optional
}

// NewFS - paths are relative to dir
func NewFS(dir string, source string, translation string) *FS {
	return &FS{Dir: os.DirFS(dir), Source: source, Translation: translation}
}

func (f *FS) Name() string {
	return "file:" + f.Source
}

func (f *FS) Load(ctx context.Context) (str.Document, error) {
	const (
		NOTR = "FS.Load(): no translation at '%s'; the translation index will be empty"
	)

	var doc str.Document

	src, err := fs.ReadFile(f.Dir, f.Source)
	if err != nil {
		return doc, fmt.Errorf("source: %w", err)
	}
	doc.WitnessXML = string(src)

	if err = ctx.Err(); err != nil {
		return doc, err
	}

	doc.Manuscript, err = tei.SplitPages(doc.WitnessXML)
	if err != nil {
		return doc, fmt.Errorf("%s: %w", f.Source, err)
	}

	if f.Translation == "" {
		return doc, nil
	}

	tr, err := fs.ReadFile(f.Dir, f.Translation)
	if errors.Is(err, fs.ErrNotExist) {
		Msg.NOTE(fmt.Sprintf(NOTR, f.Translation))
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("translation: %w", err)
	}

	doc.Translation, err = tei.SplitPages(string(tr))
	if err != nil {
		return doc, fmt.Errorf("%s: %w", f.Translation, err)
	}
	return doc, nil
}

//
// POSTGRESQL
//

// PG - an edition already loaded into line tables
type PG struct {
	Pool   *pgxpool.Pool
	Tables db.Tables
}

func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{
		Pool: pool,
		Tables: db.Tables{
			Witnesses:   vv.DEFAULTWITTABLE,
			Lines:       vv.DEFAULTLINETABLE,
			Translation: vv.DEFAULTTRANSTABLE,
		},
	}
}

func (p *PG) Name() string {
	return "postgres:" + p.Tables.Lines
}

func (p *PG) Load(ctx context.Context) (str.Document, error) {
	if err := db.CheckTables(ctx, p.Pool, p.Tables.Witnesses, p.Tables.Lines); err != nil {
		return str.Document{}, err
	}
	return db.LoadDocument(ctx, p.Pool, p.Tables)
}
