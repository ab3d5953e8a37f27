package store

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// query runs a statement written with ? placeholders on the transaction in
// ctx, or on db when there is none.
func query(ctx context.Context, db *sqlx.DB, q string, args ...any) (*sqlx.Rows, error) {
	var conn queryer = db
	if tx, ok := TxFromContext(ctx); ok {
		conn = tx.Statement.ConnPool
	}

	rows, err := conn.QueryContext(ctx, db.Rebind(q), args...)
	if err != nil {
		return nil, Translate(err)
	}
	return &sqlx.Rows{Rows: rows, Mapper: db.Mapper}, nil
}

// Select scans every row of q into dest, a pointer to a slice of structs.
func Select(ctx context.Context, db *sqlx.DB, dest any, q string, args ...any) error {
	rows, err := query(ctx, db, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := sqlx.StructScan(rows, dest); err != nil {
		return Translate(err)
	}
	return nil
}

// Get scans the first row of q into the struct dest; no rows is ErrNotFound.
func Get(ctx context.Context, db *sqlx.DB, dest any, q string, args ...any) error {
	rows, err := query(ctx, db, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Translate(err)
		}
		return Translate(sql.ErrNoRows)
	}
	if err := rows.StructScan(dest); err != nil {
		return Translate(err)
	}
	return nil
}
