package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/guests-api/internal/errs"
	"github.com/deppfellow/guests-api/internal/middleware"
	"github.com/deppfellow/guests-api/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T) (*GuestService, *MockGuestStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := NewMockGuestStore(ctrl)
	logger := zerolog.Nop()

	return NewGuestService(store, &logger), store
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %v", err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, errs.MessageGuestNotFound, httpErr.Message)
}

func TestGuestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		svc, store := newTestService(t)
		store.EXPECT().GetByID(ctx, int64(4)).Return(&model.Guest{GuestID: 4, Name: "Alice"}, nil)

		guest, err := svc.Get(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, "Alice", guest.Name)
	})

	t.Run("missing", func(t *testing.T) {
		svc, store := newTestService(t)
		store.EXPECT().GetByID(ctx, int64(4)).Return(nil, sql.ErrNoRows)

		_, err := svc.Get(ctx, 4)
		assertNotFound(t, err)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, store := newTestService(t)
		boom := errors.New("disk I/O error")
		store.EXPECT().GetByID(ctx, int64(4)).Return(nil, boom)

		_, err := svc.Get(ctx, 4)
		assert.ErrorIs(t, err, boom)
	})
}

func TestGuestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigned id is re-read", func(t *testing.T) {
		svc, store := newTestService(t)
		fields := model.GuestFields{Name: "Alice"}

		gomock.InOrder(
			store.EXPECT().Create(ctx, fields).Return(int64(11), nil),
			store.EXPECT().GetByID(ctx, int64(11)).Return(&model.Guest{GuestID: 11, Name: "Alice"}, nil),
		)

		guest, err := svc.Create(ctx, fields)
		require.NoError(t, err)
		assert.Equal(t, int64(11), guest.GuestID)
	})

	t.Run("supplied id wins", func(t *testing.T) {
		svc, store := newTestService(t)
		id := int64(30)
		fields := model.GuestFields{GuestID: &id, Name: "Bob"}

		store.EXPECT().Create(ctx, fields).Return(int64(0), nil)
		store.EXPECT().GetByID(ctx, int64(30)).Return(&model.Guest{GuestID: 30, Name: "Bob"}, nil)

		guest, err := svc.Create(ctx, fields)
		require.NoError(t, err)
		assert.Equal(t, int64(30), guest.GuestID)
	})

	t.Run("insert failure skips re-read", func(t *testing.T) {
		svc, store := newTestService(t)
		boom := errors.New("UNIQUE constraint failed: guests.guestid")
		store.EXPECT().Create(ctx, gomock.Any()).Return(int64(0), boom)

		_, err := svc.Create(ctx, model.GuestFields{Name: "Dup"})
		assert.ErrorIs(t, err, boom)
	})
}

func TestGuestService_Replace(t *testing.T) {
	ctx := context.Background()
	fields := model.GuestFields{Name: "Alicia"}

	t.Run("updated", func(t *testing.T) {
		svc, store := newTestService(t)
		store.EXPECT().Update(ctx, int64(2), fields).Return(int64(1), nil)
		store.EXPECT().GetByID(ctx, int64(2)).Return(&model.Guest{GuestID: 2, Name: "Alicia"}, nil)

		guest, err := svc.Replace(ctx, 2, fields)
		require.NoError(t, err)
		assert.Equal(t, "Alicia", guest.Name)
	})

	t.Run("row vanished", func(t *testing.T) {
		svc, store := newTestService(t)
		store.EXPECT().Update(ctx, int64(2), fields).Return(int64(0), nil)

		_, err := svc.Replace(ctx, 2, fields)
		assertNotFound(t, err)
	})
}

func TestGuestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		svc, store := newTestService(t)
		store.EXPECT().Delete(ctx, int64(5)).Return(int64(1), nil)

		assert.NoError(t, svc.Delete(ctx, 5))
	})

	t.Run("missing", func(t *testing.T) {
		svc, store := newTestService(t)
		store.EXPECT().Delete(ctx, int64(5)).Return(int64(0), nil)

		assertNotFound(t, svc.Delete(ctx, 5))
	})
}

func TestGuestService_List(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	store.EXPECT().List(ctx).Return([]model.Guest{{GuestID: 1, Name: "Alice"}}, nil)

	guests, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, guests, 1)
}

func TestGuestService_LogsWithRequestLogger(t *testing.T) {
	var rootBuf, reqBuf bytes.Buffer
	root := zerolog.New(&rootBuf)
	reqLogger := zerolog.New(&reqBuf).With().Str("request_id", "req-7").Logger()

	store := NewMockGuestStore(gomock.NewController(t))
	svc := NewGuestService(store, &root)

	ctx := middleware.ContextWithLogger(context.Background(), &reqLogger)
	store.EXPECT().Delete(ctx, int64(4)).Return(int64(1), nil)

	require.NoError(t, svc.Delete(ctx, 4))
	assert.Contains(t, reqBuf.String(), `"request_id":"req-7"`)
	assert.Contains(t, reqBuf.String(), `"message":"guest deleted"`)
	assert.Empty(t, rootBuf.String())

	store.EXPECT().Delete(context.Background(), int64(5)).Return(int64(1), nil)
	require.NoError(t, svc.Delete(context.Background(), 5))
	assert.Contains(t, rootBuf.String(), `"guestid":5`)
}
