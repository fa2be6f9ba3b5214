// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the
// validation package, and calls the appropriate service layer.
// It acts as the interface between the HTTP request and the core
// business logic.
package handler

import (
	"github.com/deppfellow/guests-api/internal/server"
	"github.com/deppfellow/guests-api/internal/service"
)

// Handlers groups all HTTP handlers so the router receives one object.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Guests  *GuestHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Guests:  NewGuestHandler(s, services.Guests),
	}
}
