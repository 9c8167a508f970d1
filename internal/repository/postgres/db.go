package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"khata/internal/config"
	"khata/internal/port"
)

// NewDB creates a new PostgreSQL connection pool.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	return db, nil
}

// Store implements port.Store on a sqlx connection pool.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open pool.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

var _ port.Store = (*Store)(nil)

func (s *Store) Series() port.SeriesRepository             { return &seriesRepo{q: s.db} }
func (s *Store) Documents() port.DocumentRepository         { return &documentRepo{q: s.db} }
func (s *Store) Jurisdictions() port.JurisdictionRepository { return &jurisdictionRepo{q: s.db} }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

// WithTx runs fn in a READ COMMITTED transaction. Row locks taken with
// SELECT ... FOR UPDATE inside fn are held until commit or rollback; under
// READ COMMITTED a waiter re-reads the row once the holder commits instead of
// failing with a serialization error.
func (s *Store) WithTx(ctx context.Context, fn port.TxFunc) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("postgres.WithTx begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, &txRepos{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres.WithTx commit: %w", err)
	}
	return nil
}

type txRepos struct {
	q *sqlx.Tx
}

func (t *txRepos) Series() port.SeriesTxRepository     { return &seriesRepo{q: t.q} }
func (t *txRepos) Documents() port.DocumentTxRepository { return &documentRepo{q: t.q} }

const uniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
