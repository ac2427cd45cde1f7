// Package postgres implements the repository against PostgreSQL. The
// store is a single kv_entries table so the persistence contract stays
// identical to the embedded backend while gaining transactional writes.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pr-risk-analyzer/config"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Postgres holds the pgx pool backing the kv_entries store.
type Postgres struct {
	baseCtx context.Context
	log     *zap.SugaredLogger
	db      *pgxpool.Pool
	cfg     config.PostgresConfig
}

// New creates a Postgres repository instance. The pool is opened in
// OnStart so a misconfigured DSN fails at startup, not on first use.
func New(ctx context.Context, log *zap.SugaredLogger, cfg *config.Config) *Postgres {
	return &Postgres{
		baseCtx: ctx,
		log:     log.Named("repo.postgres"),
		cfg:     cfg.Postgres,
	}
}

// OnStart opens the connection pool and brings the kv_entries schema
// up to date.
func (p *Postgres) OnStart(_ context.Context) error {
	pool, err := p.connect()
	if err != nil {
		return err
	}
	if err := p.migrate(); err != nil {
		pool.Close()
		return err
	}

	p.db = pool
	p.log.Infow("kv store ready",
		"backend", "postgres", "host", p.cfg.Host, "port", p.cfg.Port)
	return nil
}

func (p *Postgres) connect() (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(p.cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	poolCfg.MaxConns = p.cfg.MaxConns
	poolCfg.MinConns = p.cfg.MinConns

	ctx, cancel := context.WithTimeout(p.baseCtx, p.cfg.QueryTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pool: %w", err)
	}
	return pool, nil
}

// migrate runs goose over a short-lived database/sql handle; pgx does
// not expose one and goose needs it.
func (p *Postgres) migrate() error {
	sqlDB, err := sql.Open("postgres", p.cfg.DSN())
	if err != nil {
		return fmt.Errorf("open sql: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	ctx, cancel := context.WithTimeout(p.baseCtx, p.cfg.MigrateTimeout)
	defer cancel()

	if err := goose.UpContext(ctx, sqlDB, p.cfg.MigrationsDir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	version, err := goose.EnsureDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("migrate version: %w", err)
	}
	p.log.Infow("migrations applied", "version", version)
	return nil
}

// OnStop closes pool connections.
func (p *Postgres) OnStop(_ context.Context) error {
	if p.db != nil {
		p.db.Close()
	}
	return nil
}
