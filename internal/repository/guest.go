package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/deppfellow/guests-api/internal/config"
	"github.com/deppfellow/guests-api/internal/database"
	"github.com/deppfellow/guests-api/internal/model"
	"github.com/deppfellow/guests-api/internal/sqlerr"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const guestsTable = "guests"

const guestColumns = `guestid, name, phone, email, address`

// GuestRepository runs the SQL statements for the guests table.
type GuestRepository struct {
	db            *sqlx.DB
	driver        string
	log           *zerolog.Logger
	slowThreshold time.Duration
}

// NewGuestRepository binds the repository to an open datastore handle.
func NewGuestRepository(db *database.Database, logger *zerolog.Logger) *GuestRepository {
	return &GuestRepository{
		db:            db.DB,
		driver:        db.Driver,
		log:           logger,
		slowThreshold: db.SlowQueryThreshold,
	}
}

// observe warns about statements slower than the configured threshold.
func (r *GuestRepository) observe(op string, start time.Time) {
	elapsed := time.Since(start)
	if r.slowThreshold <= 0 || elapsed < r.slowThreshold {
		return
	}

	r.log.Warn().
		Str("table", guestsTable).
		Str("operation", op).
		Dur("duration", elapsed).
		Dur("threshold", r.slowThreshold).
		Msg("slow query")
}

// List returns every guest ordered by guestid. It never returns a nil slice.
func (r *GuestRepository) List(ctx context.Context) ([]model.Guest, error) {
	defer r.observe("list", time.Now())

	guests := []model.Guest{}
	query := `SELECT ` + guestColumns + ` FROM guests ORDER BY guestid`
	if err := r.db.SelectContext(ctx, &guests, query); err != nil {
		return nil, errors.Wrap(err, "listing guests")
	}

	return guests, nil
}

// GetByID returns the guest with the given id.
//
// A missing row is reported as a wrapped sql.ErrNoRows naming the table.
func (r *GuestRepository) GetByID(ctx context.Context, id int64) (*model.Guest, error) {
	defer r.observe("get", time.Now())

	var guest model.Guest
	query := r.db.Rebind(`SELECT ` + guestColumns + ` FROM guests WHERE guestid = ?`)
	if err := r.db.GetContext(ctx, &guest, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(err, "%s%s: guestid %d", sqlerr.TablePrefix, guestsTable, id)
		}
		return nil, errors.Wrapf(err, "getting guest %d", id)
	}

	return &guest, nil
}

// Create inserts a guest and returns its id.
//
// A supplied GuestID is inserted as is; otherwise the datastore assigns one.
// On PostgreSQL an explicit id does not move the identity sequence, so the
// sequence is pushed past it in the same transaction.
func (r *GuestRepository) Create(ctx context.Context, fields model.GuestFields) (int64, error) {
	defer r.observe("create", time.Now())

	if fields.GuestID == nil {
		query := `INSERT INTO guests (name, phone, email, address) VALUES (?, ?, ?, ?) RETURNING guestid`

		var id int64
		err := r.db.QueryRowxContext(ctx, r.db.Rebind(query),
			fields.Name, fields.Phone, fields.Email, fields.Address).Scan(&id)
		if err != nil {
			return 0, errors.Wrap(err, "inserting guest")
		}
		return id, nil
	}

	if r.driver != config.DriverPostgres {
		id, err := insertWithID(ctx, r.db, fields)
		if err != nil {
			return 0, errors.Wrap(err, "inserting guest")
		}
		return id, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning guest insert")
	}
	defer func() { _ = tx.Rollback() }()

	id, err := insertWithID(ctx, tx, fields)
	if err != nil {
		return 0, errors.Wrap(err, "inserting guest")
	}

	if _, err := tx.ExecContext(ctx, syncIdentitySQL, id); err != nil {
		return 0, errors.Wrap(err, "advancing guestid sequence")
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing guest insert")
	}

	return id, nil
}

// syncIdentitySQL moves the guestid identity sequence to at least $1.
const syncIdentitySQL = `SELECT setval(pg_get_serial_sequence('guests', 'guestid'), ` +
	`GREATEST($1, (SELECT COALESCE(MAX(guestid), 0) FROM guests)))`

type queryRower interface {
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	Rebind(query string) string
}

func insertWithID(ctx context.Context, q queryRower, fields model.GuestFields) (int64, error) {
	query := q.Rebind(`INSERT INTO guests (guestid, name, phone, email, address) VALUES (?, ?, ?, ?, ?) RETURNING guestid`)

	var id int64
	err := q.QueryRowxContext(ctx, query,
		*fields.GuestID, fields.Name, fields.Phone, fields.Email, fields.Address).Scan(&id)
	return id, err
}

// Update overwrites the four mutable columns of a guest and reports the
// number of rows affected.
func (r *GuestRepository) Update(ctx context.Context, id int64, fields model.GuestFields) (int64, error) {
	defer r.observe("update", time.Now())

	query := r.db.Rebind(`UPDATE guests SET name = ?, phone = ?, email = ?, address = ? WHERE guestid = ?`)
	result, err := r.db.ExecContext(ctx, query, fields.Name, fields.Phone, fields.Email, fields.Address, id)
	if err != nil {
		return 0, errors.Wrapf(err, "updating guest %d", id)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "reading affected rows")
	}

	return affected, nil
}

// Delete removes a guest and reports the number of rows affected.
func (r *GuestRepository) Delete(ctx context.Context, id int64) (int64, error) {
	defer r.observe("delete", time.Now())

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM guests WHERE guestid = ?`), id)
	if err != nil {
		return 0, errors.Wrapf(err, "deleting guest %d", id)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "reading affected rows")
	}

	return affected, nil
}
