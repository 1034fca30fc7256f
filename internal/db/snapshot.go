//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/e-gun/GinzaGoServer/internal/gen"
	"github.com/e-gun/GinzaGoServer/internal/search"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	_ "modernc.org/sqlite"
)

//
// INDEX SNAPSHOTS: the two built indices written to (and read back from) a single SQLite file
//

const (
	SQLITEDRIVER = "sqlite"
	SNAPSCHEMA   = `
CREATE TABLE IF NOT EXISTS snapinfo (version TEXT, created INTEGER);
CREATE TABLE IF NOT EXISTS entries (
	kind TEXT NOT NULL,
	token TEXT NOT NULL,
	page INTEGER NOT NULL,
	line INTEGER NOT NULL,
	witness TEXT NOT NULL,
	siglum TEXT NOT NULL,
	translation INTEGER NOT NULL,
	text TEXT NOT NULL
);
DELETE FROM snapinfo;
DELETE FROM entries;`
	SNAPINSERT = `INSERT INTO entries (kind, token, page, line, witness, siglum, translation, text) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	SNAPSELECT = `SELECT kind, token, page, line, witness, siglum, translation, text FROM entries ORDER BY rowid`
)

var ErrEmptySnapshot = errors.New("snapshot holds no index entries")

// ExportSnapshot - write both indices into one transaction; an existing snapshot at fn is replaced
func ExportSnapshot(ctx context.Context, fn string, ms *search.Index, tr *search.Index) error {
	const (
		MSG = "ExportSnapshot(): %d rows written to %s"
	)

	sqldb, err := sql.Open(SQLITEDRIVER, fn)
	if err != nil {
		return fmt.Errorf("open %s: %w", fn, err)
	}
	defer sqldb.Close()

	tx, err := sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, SNAPSCHEMA); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO snapinfo (version, created) VALUES (?, ?)`, vv.VERSION, time.Now().Unix()); err != nil {
		return fmt.Errorf("snapinfo: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, SNAPINSERT)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	rows := 0
	write := func(kind string, idx *search.Index) error {
		if idx == nil {
			return nil
		}
		snap := idx.Snapshot()
		for _, tok := range gen.SortedKeys(snap) {
			for _, e := range snap[tok] {
				if _, err := stmt.ExecContext(ctx, kind, tok, e.Page, e.Line, e.WitnessID, e.Siglum, e.IsTranslation, e.Text); err != nil {
					return fmt.Errorf("insert %q: %w", tok, err)
				}
				rows++
			}
		}
		return nil
	}

	if err = write(search.KINDMS, ms); err != nil {
		return err
	}
	if err = write(search.KINDTR, tr); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	Msg.PEEK(fmt.Sprintf(MSG, rows, fn))
	return nil
}

// ImportSnapshot - read both indices back; a snapshot without a single entry is refused
func ImportSnapshot(ctx context.Context, fn string) (*search.Index, *search.Index, error) {
	const (
		MSG  = "ImportSnapshot(): %s written by version %s at %s"
		MSG2 = "ImportSnapshot(): unknown index kind '%s' in %s"
	)

	sqldb, err := sql.Open(SQLITEDRIVER, fn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", fn, err)
	}
	defer sqldb.Close()

	var (
		ver     string
		created int64
	)
	if err = sqldb.QueryRowContext(ctx, `SELECT version, created FROM snapinfo`).Scan(&ver, &created); err != nil {
		return nil, nil, fmt.Errorf("snapinfo in %s: %w", fn, err)
	}
	Msg.FYI(fmt.Sprintf(MSG, fn, ver, time.Unix(created, 0).Format(time.RFC822)))

	rows, err := sqldb.QueryContext(ctx, SNAPSELECT)
	if err != nil {
		return nil, nil, fmt.Errorf("entries in %s: %w", fn, err)
	}
	defer rows.Close()

	ms := search.NewIndex()
	tr := search.NewIndex()
	n := 0
	for rows.Next() {
		var (
			kind string
			tok  string
			e    str.IndexEntry
		)
		if err = rows.Scan(&kind, &tok, &e.Page, &e.Line, &e.WitnessID, &e.Siglum, &e.IsTranslation, &e.Text); err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", n, err)
		}
		switch kind {
		case search.KINDMS:
			ms.Add(tok, e)
		case search.KINDTR:
			tr.Add(tok, e)
		default:
			Msg.WARN(fmt.Sprintf(MSG2, kind, fn))
			continue
		}
		n++
	}
	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("entries in %s: %w", fn, err)
	}
	if n == 0 {
		return nil, nil, ErrEmptySnapshot
	}
	return ms, tr, nil
}
