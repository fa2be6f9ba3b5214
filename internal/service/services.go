// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/deppfellow/guests-api/internal/repository"
	"github.com/deppfellow/guests-api/internal/server"
)

type Services struct {
	Guests *GuestService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Guests: NewGuestService(repos.Guests, s.Logger),
	}, nil
}
