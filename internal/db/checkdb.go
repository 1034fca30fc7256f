//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MissingTablesError - the database is there but the edition has not been loaded into it
type MissingTablesError struct {
	Tables []string
}

func (e *MissingTablesError) Error() string {
	return fmt.Sprintf("missing tables: %v", e.Tables)
}

// CheckTables - do the tables the loader needs exist yet?
func CheckTables(ctx context.Context, pool *pgxpool.Pool, tables ...string) error {
	const (
		Q    = `SELECT to_regclass($1) IS NOT NULL`
		FAIL = `CheckTables(): '%s' is not in the database; has the edition been loaded?`
	)

	var missing []string
	for _, t := range tables {
		var ok bool
		if err := pool.QueryRow(ctx, Q, t).Scan(&ok); err != nil {
			return fmt.Errorf("checking %s: %w", t, err)
		}
		if !ok {
			Msg.WARN(fmt.Sprintf(FAIL, t))
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return &MissingTablesError{Tables: missing}
	}
	return nil
}
