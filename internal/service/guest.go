package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deppfellow/guests-api/internal/errs"
	"github.com/deppfellow/guests-api/internal/middleware"
	"github.com/deppfellow/guests-api/internal/model"
	"github.com/rs/zerolog"
)

//go:generate go run go.uber.org/mock/mockgen -source=guest.go -destination=mock_guest_store.go -package=service

// GuestStore is the persistence contract the guest service depends on.
type GuestStore interface {
	List(ctx context.Context) ([]model.Guest, error)
	GetByID(ctx context.Context, id int64) (*model.Guest, error)
	Create(ctx context.Context, fields model.GuestFields) (int64, error)
	Update(ctx context.Context, id int64, fields model.GuestFields) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// GuestService runs each guest operation against a GuestStore.
//
// Missing rows come back as the "guest not found" 404. Other store errors
// are returned unchanged for the global error handler to classify.
type GuestService struct {
	store GuestStore
	log   *zerolog.Logger
}

func NewGuestService(store GuestStore, logger *zerolog.Logger) *GuestService {
	return &GuestService{store: store, log: logger}
}

// logger is the request-scoped logger when ctx carries one.
func (s *GuestService) logger(ctx context.Context) *zerolog.Logger {
	return middleware.LoggerFromContext(ctx, s.log)
}

func (s *GuestService) List(ctx context.Context) ([]model.Guest, error) {
	return s.store.List(ctx)
}

func (s *GuestService) Get(ctx context.Context, id int64) (*model.Guest, error) {
	guest, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.GuestNotFoundError()
		}
		return nil, err
	}

	return guest, nil
}

// Create inserts the guest and returns the stored row.
func (s *GuestService) Create(ctx context.Context, fields model.GuestFields) (*model.Guest, error) {
	id, err := s.store.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	if fields.GuestID != nil {
		id = *fields.GuestID
	}

	s.logger(ctx).Info().Int64("guestid", id).Msg("guest created")

	return s.Get(ctx, id)
}

// Replace overwrites every mutable field of an existing guest and returns
// the stored row. A row deleted since the caller's lookup is a 404.
func (s *GuestService) Replace(ctx context.Context, id int64, fields model.GuestFields) (*model.Guest, error) {
	affected, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	if affected == 0 {
		return nil, errs.GuestNotFoundError()
	}

	s.logger(ctx).Info().Int64("guestid", id).Msg("guest replaced")

	return s.Get(ctx, id)
}

func (s *GuestService) Delete(ctx context.Context, id int64) error {
	affected, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}

	if affected == 0 {
		return errs.GuestNotFoundError()
	}

	s.logger(ctx).Info().Int64("guestid", id).Msg("guest deleted")

	return nil
}
