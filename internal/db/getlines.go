//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"fmt"

	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	LINETEMPLATE    = `page, line, xml`
	WITNESSTEMPLATE = `id, siglum, title`
)

//
// This file should contain the *exhaustive* collection of functions that read the edition out of PostgreSQL
//

// DbLine - one row of a line table (nb: column order must satisfy RowToStructByPos)
type DbLine struct {
	Page int
	Line int
	XML  string
}

// Tables - where the edition lives
type Tables struct {
	Witnesses   string
	Lines       string
	Translation string
}

// GrabWitnesses - the witness table in document order
func GrabWitnesses(ctx context.Context, pool *pgxpool.Pool, table string) ([]str.Witness, error) {
	const (
		QTMPL = "SELECT %s FROM %s ORDER BY ord"
	)

	rows, err := pool.Query(ctx, fmt.Sprintf(QTMPL, WITNESSTEMPLATE, pgx.Identifier{table}.Sanitize()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table, err)
	}
	ww, err := pgx.CollectRows(rows, pgx.RowToStructByPos[str.Witness])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table, err)
	}
	return ww, nil
}

// GrabLines - every line of one table, ordered by page and line
func GrabLines(ctx context.Context, pool *pgxpool.Pool, table string) ([]DbLine, error) {
	const (
		QTMPL = "SELECT %s FROM %s ORDER BY page, line"
	)

	rows, err := pool.Query(ctx, fmt.Sprintf(QTMPL, LINETEMPLATE, pgx.Identifier{table}.Sanitize()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table, err)
	}
	ll, err := pgx.CollectRows(rows, pgx.RowToStructByPos[DbLine])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table, err)
	}
	return ll, nil
}

// GroupLines - rows into pages; pages appear in the order their first line does
func GroupLines(ll []DbLine) []str.Page {
	var pages []str.Page
	where := make(map[int]int)
	for _, l := range ll {
		i, ok := where[l.Page]
		if !ok {
			i = len(pages)
			where[l.Page] = i
			pages = append(pages, str.Page{N: l.Page})
		}
		pages[i].Lines = append(pages[i].Lines, str.Line{N: l.Line, XML: l.XML})
	}
	return pages
}

// LoadDocument - the whole edition; an empty Translation table name means "no translation"
func LoadDocument(ctx context.Context, pool *pgxpool.Pool, t Tables) (str.Document, error) {
	const (
		MSG = "LoadDocument(): %d witnesses, %d manuscript pages, %d translation pages"
	)

	var doc str.Document

	ww, err := GrabWitnesses(ctx, pool, t.Witnesses)
	if err != nil {
		return doc, err
	}
	doc.Witnesses = ww

	ll, err := GrabLines(ctx, pool, t.Lines)
	if err != nil {
		return doc, err
	}
	doc.Manuscript = GroupLines(ll)

	if t.Translation != "" {
		tl, err := GrabLines(ctx, pool, t.Translation)
		if err != nil {
			return doc, err
		}
		doc.Translation = GroupLines(tl)
	}

	Msg.PEEK(fmt.Sprintf(MSG, len(doc.Witnesses), len(doc.Manuscript), len(doc.Translation)))
	return doc, nil
}
