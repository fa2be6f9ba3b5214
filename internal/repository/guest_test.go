package repository

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/deppfellow/guests-api/internal/config"
	"github.com/deppfellow/guests-api/internal/database"
	"github.com/deppfellow/guests-api/internal/errs"
	loggerConfig "github.com/deppfellow/guests-api/internal/logger"
	"github.com/deppfellow/guests-api/internal/model"
	"github.com/deppfellow/guests-api/internal/sqlerr"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *GuestRepository {
	t.Helper()

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "guests.db")
	logger := zerolog.Nop()

	db, err := database.New(cfg, &logger, loggerConfig.NewLoggerService(cfg.Observability))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	return NewGuestRepository(db, &logger)
}

func newMockRepository(t *testing.T) (*GuestRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	logger := zerolog.Nop()
	db := &database.Database{DB: sqlx.NewDb(mockDB, "sqlmock"), Driver: config.DriverSQLite}

	return NewGuestRepository(db, &logger), mock
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func TestGuestRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	id, err := repo.Create(ctx, model.GuestFields{Name: "Alice", Phone: strPtr("555-1")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	guest, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.Guest{GuestID: 1, Name: "Alice", Phone: strPtr("555-1")}, *guest)
}

func TestGuestRepository_CreateWithSuppliedID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	id, err := repo.Create(ctx, model.GuestFields{GuestID: int64Ptr(40), Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, int64(40), id)

	next, err := repo.Create(ctx, model.GuestFields{Name: "Carol"})
	require.NoError(t, err)
	assert.Greater(t, next, int64(40))
}

func TestGuestRepository_CreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.Create(ctx, model.GuestFields{GuestID: int64Ptr(3), Name: "Bob"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, model.GuestFields{GuestID: int64Ptr(3), Name: "Dup"})
	require.Error(t, err)
	assert.Equal(t, sqlerr.UniqueViolation, sqlerr.ErrCode(err))

	var httpErr *errs.HTTPError
	require.True(t, errors.As(sqlerr.HandleError(err), &httpErr))
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "guest with this guestid already exists", httpErr.Message)
}

func TestGuestRepository_GetMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetByID(context.Background(), 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Contains(t, err.Error(), sqlerr.TablePrefix+"guests")
}

func TestGuestRepository_ListOrdered(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, f := range []model.GuestFields{
		{GuestID: int64Ptr(9), Name: "Zed"},
		{GuestID: int64Ptr(2), Name: "Amy"},
		{GuestID: int64Ptr(5), Name: "Max"},
	} {
		_, err := repo.Create(ctx, f)
		require.NoError(t, err)
	}

	guests, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, guests, 3)
	assert.Equal(t, []int64{2, 5, 9}, []int64{guests[0].GuestID, guests[1].GuestID, guests[2].GuestID})
}

func TestGuestRepository_UpdateOverwritesAll(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	id, err := repo.Create(ctx, model.GuestFields{Name: "Alice", Phone: strPtr("1"), Email: strPtr("a@x"), Address: strPtr("Main")})
	require.NoError(t, err)

	affected, err := repo.Update(ctx, id, model.GuestFields{Name: "Alicia"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	guest, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.Guest{GuestID: id, Name: "Alicia"}, *guest)

	affected, err = repo.Update(ctx, 1234, model.GuestFields{Name: "Nobody"})
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestGuestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	id, err := repo.Create(ctx, model.GuestFields{Name: "Alice"})
	require.NoError(t, err)

	affected, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestGuestRepository_DriverFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	t.Run("list", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT guestid, name, phone, email, address FROM guests ORDER BY guestid`)).
			WillReturnError(boom)

		_, err := repo.List(ctx)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO guests (name, phone, email, address) VALUES (?, ?, ?, ?) RETURNING guestid`)).
			WillReturnError(boom)

		_, err := repo.Create(ctx, model.GuestFields{Name: "Alice"})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update rows affected", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE guests SET`)).
			WillReturnResult(sqlmock.NewErrorResult(boom))

		_, err := repo.Update(ctx, 1, model.GuestFields{Name: "Alice"})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM guests WHERE guestid = ?`)).
			WithArgs(int64(7)).
			WillReturnError(boom)

		_, err := repo.Delete(ctx, 7)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func newPostgresMockRepository(t *testing.T) (*GuestRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	logger := zerolog.Nop()
	db := &database.Database{DB: sqlx.NewDb(mockDB, "pgx"), Driver: config.DriverPostgres}

	return NewGuestRepository(db, &logger), mock
}

func TestGuestRepository_PostgresSuppliedIDAdvancesSequence(t *testing.T) {
	repo, mock := newPostgresMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO guests (guestid, name, phone, email, address) VALUES ($1, $2, $3, $4, $5) RETURNING guestid`)).
		WithArgs(int64(9), "Alice", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"guestid"}).AddRow(int64(9)))
	mock.ExpectExec(regexp.QuoteMeta(`SELECT setval(pg_get_serial_sequence('guests', 'guestid'), GREATEST($1, (SELECT COALESCE(MAX(guestid), 0) FROM guests)))`)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), model.GuestFields{GuestID: int64Ptr(9), Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestRepository_PostgresSuppliedIDRollsBackOnConflict(t *testing.T) {
	repo, mock := newPostgresMockRepository(t)
	boom := errors.New("duplicate key value violates unique constraint")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO guests (guestid,`)).
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), model.GuestFields{GuestID: int64Ptr(9), Name: "Alice"})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestRepository_PostgresAssignedIDSkipsSequence(t *testing.T) {
	repo, mock := newPostgresMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO guests (name, phone, email, address) VALUES ($1, $2, $3, $4) RETURNING guestid`)).
		WillReturnRows(sqlmock.NewRows([]string{"guestid"}).AddRow(int64(3)))

	id, err := repo.Create(context.Background(), model.GuestFields{Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
