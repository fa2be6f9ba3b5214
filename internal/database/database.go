// Package database owns the connection to the guests datastore.
//
// The default datastore is an embedded SQLite file opened through
// mattn/go-sqlite3. PostgreSQL is available as an alternative dialect
// through the pgx stdlib driver. Both are exposed as a *sqlx.DB so the
// repositories only deal with one API.
//
// It handles:
//   - building a DSN from config
//   - opening and tuning the *sql.DB pool
//   - wiring query tracing/logging on PostgreSQL (pgx tracelog, New Relic nrpgx5)
//   - running the embedded schema migrations
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/deppfellow/guests-api/internal/config"
	loggerConfig "github.com/deppfellow/guests-api/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// Database wraps the shared *sqlx.DB handle and a logger.
type Database struct {
	DB *sqlx.DB

	// Driver is config.DriverSQLite or config.DriverPostgres.
	Driver string

	// SlowQueryThreshold is copied from the logging config; repositories
	// warn about statements that take longer.
	SlowQueryThreshold time.Duration

	cfg *config.Config
	log *zerolog.Logger
}

// multiTracer chains several pgx query tracers, since pgx only accepts one.
type multiTracer struct {
	tracers []pgx.QueryTracer
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		ctx = tracer.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		tracer.TraceQueryEnd(ctx, conn, data)
	}
}

// DatabasePingTimeout is the number of seconds to wait for the startup ping.
const DatabasePingTimeout = 10

// New opens the configured datastore, applies pool settings and pings it.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err = openPostgres(cfg, logger, loggerService)
	case config.DriverSQLite:
		db, err = openSQLite(cfg.Database)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	setPoolConfig(db, cfg.Database)

	database := &Database{
		DB:     db,
		Driver: cfg.Database.Driver,
		cfg:    cfg,
		log:    logger,
	}
	if cfg.Observability != nil {
		database.SlowQueryThreshold = cfg.Observability.Logging.SlowQueryThreshold
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", database.Driver).Msg("connected to the database")

	return database, nil
}

// sqliteDSN builds the mattn/go-sqlite3 connection string.
//
// WAL lets readers proceed while a writer holds the lock; the busy timeout
// makes concurrent writers wait instead of failing with SQLITE_BUSY.
func sqliteDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on&_journal_mode=WAL", cfg.Path, cfg.BusyTimeout)
}

func openSQLite(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open(config.DriverSQLite, sqliteDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", cfg.Path, err)
	}

	// Every connection to ":memory:" is a separate database.
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

// postgresDSN builds a postgres URL, escaping the password.
func postgresDSN(cfg config.DatabaseConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.User,
		url.QueryEscape(cfg.Password),
		hostPort,
		cfg.Name,
		cfg.SSLMode,
	)
}

func openPostgres(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*sqlx.DB, error) {
	connConfig, err := pgx.ParseConfig(postgresDSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx config: %w", err)
	}

	var tracers []pgx.QueryTracer

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	// SQL statement logging is noisy, so only in local env.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		})
	}

	switch len(tracers) {
	case 0:
	case 1:
		connConfig.Tracer = tracers[0]
	default:
		connConfig.Tracer = &multiTracer{tracers: tracers}
	}

	return sqlx.NewDb(stdlib.OpenDB(*connConfig), "pgx"), nil
}

func setPoolConfig(db *sqlx.DB, cfg config.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 && cfg.Path != ":memory:" {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
	}
}

// Ping checks that the datastore answers.
func (db *Database) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	return db.DB.Close()
}
