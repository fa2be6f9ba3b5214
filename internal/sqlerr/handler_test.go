package sqlerr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/guests-api/internal/errs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	db.MustExec(`CREATE TABLE guests (guestid INTEGER PRIMARY KEY, name TEXT NOT NULL)`)

	return db
}

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)

	return httpErr
}

func TestHandleError_SQLitePrimaryKeyConflict(t *testing.T) {
	db := newMemoryDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO guests (guestid, name) VALUES (1, 'Alice')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO guests (guestid, name) VALUES (1, 'Bob')`)
	require.Error(t, err)
	assert.Equal(t, UniqueViolation, ErrCode(err))

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "GUEST_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "guest with this guestid already exists", httpErr.Message)
}

func TestHandleError_SQLiteNotNull(t *testing.T) {
	db := newMemoryDB(t)

	_, err := db.Exec(`INSERT INTO guests (guestid, name) VALUES (2, NULL)`)
	require.Error(t, err)

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "GUEST_REQUIRED", httpErr.Code)
	assert.Equal(t, []string{"name is required"}, httpErr.Errors)
}

func TestHandleError_PgUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		TableName:      "guests",
		ConstraintName: "guests_pkey",
	}

	httpErr := asHTTPError(t, HandleError(fmt.Errorf("insert: %w", pgErr)))
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "guest with this identifier already exists", httpErr.Message)
}

func TestHandleError_Table(t *testing.T) {
	tests := []struct {
		desc    string
		err     error
		status  int
		message string
	}{
		{"http error passes through", errs.GuestNotFoundError(), http.StatusNotFound, "guest not found"},
		{"no rows with table", fmt.Errorf("%sguests: %w", TablePrefix, sql.ErrNoRows), http.StatusNotFound, "guest not found"},
		{"no rows without table", sql.ErrNoRows, http.StatusNotFound, "resource not found"},
		{"unknown error", errors.New("disk I/O error"), http.StatusInternalServerError, errs.MessageInternal},
		{"pg other", &pgconn.PgError{Code: "XX000", Message: "boom"}, http.StatusInternalServerError, errs.MessageInternal},
		{"pg check", &pgconn.PgError{Code: "23514", ColumnName: "name"}, http.StatusBadRequest,
			"The Name value does not meet required conditions"},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(tc.err))
			assert.Equal(t, tc.status, httpErr.Status)
			assert.Equal(t, tc.message, httpErr.Message)
		})
	}
}

func TestHandleError_InternalKeepsDetail(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("database is locked")))
	assert.Equal(t, "database is locked", httpErr.Detail)
}

func TestConvertSqliteError_Codes(t *testing.T) {
	tests := []struct {
		desc string
		src  sqlite3.Error
		want Code
	}{
		{"primary key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, UniqueViolation},
		{"unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, UniqueViolation},
		{"check", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, CheckViolation},
		{"busy", sqlite3.Error{Code: sqlite3.ErrBusy}, Busy},
		{"io", sqlite3.Error{Code: sqlite3.ErrIoErr}, Other},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			got := ConvertSqliteError(tc.src)
			assert.Equal(t, tc.want, got.Code)
			assert.ErrorIs(t, got, tc.src)
		})
	}
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "email", extractColumnForUniqueViolation("unique_guests_email"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("guests_email_key"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
	assert.Equal(t, "", extractColumnForUniqueViolation("weird"))
}

func TestGetEntityName(t *testing.T) {
	assert.Equal(t, "guest", getEntityName("guests", ""))
	assert.Equal(t, "room type", getEntityName("", "room_type_id"))
	assert.Equal(t, "record", getEntityName("", ""))
}
