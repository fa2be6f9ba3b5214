// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
package repository

import (
	"github.com/deppfellow/guests-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Guests *GuestRepository
}

// NewRepositories builds every repository on the server's datastore handle.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Guests: NewGuestRepository(s.DB, s.Logger),
	}
}
