package store

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgQuerier is the subset of *pgxpool.Pool the Postgres slots need.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const pgCreateTable = `CREATE TABLE IF NOT EXISTS itinerary_slots (
	k TEXT PRIMARY KEY,
	v TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const pgTable = "itinerary_slots"

var pgBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresSlots stores slots in the itinerary_slots table.
type PostgresSlots struct {
	q     pgQuerier
	close func()
}

func NewPostgresSlots(q pgQuerier) *PostgresSlots {
	return &PostgresSlots{q: q}
}

// OpenPostgresSlots connects with dsn, pings, and creates the table if missing.
func OpenPostgresSlots(ctx context.Context, dsn string) (*PostgresSlots, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ConnConfig.RuntimeParams["application_name"] = "tajawal-cli"
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	s := &PostgresSlots{q: pool, close: pool.Close}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresSlots) Migrate(ctx context.Context) error {
	_, err := s.q.Exec(ctx, pgCreateTable)
	return err
}

func (s *PostgresSlots) Get(ctx context.Context, key string) ([]byte, error) {
	sql, args, err := pgBuilder.Select("v").From(pgTable).Where(squirrel.Eq{"k": key}).ToSql()
	if err != nil {
		return nil, err
	}
	var v string
	err = s.q.QueryRow(ctx, sql, args...).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (s *PostgresSlots) Put(ctx context.Context, key string, value []byte) error {
	sql, args, err := pgBuilder.Insert(pgTable).
		Columns("k", "v", "updated_at").
		Values(key, string(value), squirrel.Expr("now()")).
		Suffix("ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = now()").
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.q.Exec(ctx, sql, args...)
	return err
}

func (s *PostgresSlots) Delete(ctx context.Context, key string) error {
	sql, args, err := pgBuilder.Delete(pgTable).Where(squirrel.Eq{"k": key}).ToSql()
	if err != nil {
		return err
	}
	_, err = s.q.Exec(ctx, sql, args...)
	return err
}

// Keys matches the prefix literally; LIKE would treat % and _ in keys as wildcards.
func (s *PostgresSlots) Keys(ctx context.Context, prefix string) ([]string, error) {
	sql, args, err := pgBuilder.Select("k").From(pgTable).
		Where("left(k, ?) = ?", len([]rune(prefix)), prefix).
		OrderBy("k").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresSlots) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}
