// Package postgres implements the repositories on PostgreSQL through pgx.
package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/db"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store implements repositories.Store on a PostgresDB
type Store struct {
	db *db.PostgresDB
}

// NewStore wraps an open database
func NewStore(pg *db.PostgresDB) *Store {
	return &Store{db: pg}
}

func bind(q DBTX) *repositories.Repositories {
	return &repositories.Repositories{
		Roles:       &roleRepo{q},
		Users:       &userRepo{q},
		Departments: &departmentRepo{q},
		Programs:    &programRepo{q},
		Semesters:   &semesterRepo{q},
		Courses:     &courseRepo{q},
		Offerings:   &offeringRepo{q},
		Faculty:     &facultyRepo{q},
		Students:    &studentRepo{q},
		Enrollments: &enrollmentRepo{q},
		Attendance:  &attendanceRepo{q},
		Exams:       &examRepo{q},
		Admissions:  &admissionRepo{q},
	}
}

func (s *Store) Repositories() *repositories.Repositories {
	return bind(s.db.Pool())
}

// WithinTx runs fn on repositories bound to a single transaction
func (s *Store) WithinTx(ctx context.Context, fn repositories.TxFn) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, bind(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() {
	s.db.Close()
}

// psql renders $n placeholders for pgx
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// selectAll runs a built SELECT and scans every row into a fresh T
func selectAll[T any](ctx context.Context, q DBTX, b sq.SelectBuilder, scan func(pgx.Row, *T) error) ([]*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	return collect(rows, err, scan)
}

func collect[T any](rows pgx.Rows, err error, scan func(pgx.Row, *T) error) ([]*T, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*T, error) {
		var v T
		if err := scan(row, &v); err != nil {
			return nil, err
		}
		return &v, nil
	})
}

func count(ctx context.Context, q DBTX, entity, query string, args ...any) (int, error) {
	var n int
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting %s: %w", entity, err)
	}
	return n, nil
}
