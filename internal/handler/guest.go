package handler

import (
	"github.com/deppfellow/guests-api/internal/model"
	"github.com/deppfellow/guests-api/internal/server"
	"github.com/deppfellow/guests-api/internal/service"
	"github.com/deppfellow/guests-api/internal/validation"
	"github.com/labstack/echo/v4"
)

// DeletedMessage is the body message of a successful delete.
const DeletedMessage = "deleted"

// MessageResponse is a body that only carries a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// GuestHandler serves /api/guests.
type GuestHandler struct {
	Handler
	guests *service.GuestService
}

func NewGuestHandler(s *server.Server, guests *service.GuestService) *GuestHandler {
	return &GuestHandler{
		Handler: NewHandler(s),
		guests:  guests,
	}
}

func (h *GuestHandler) ListGuests(c echo.Context, _ *ListGuestsRequest) ([]model.Guest, error) {
	return h.guests.List(c.Request().Context())
}

func (h *GuestHandler) GetGuest(c echo.Context, req *GuestIDRequest) (*model.Guest, error) {
	return h.guests.Get(c.Request().Context(), req.ID)
}

func (h *GuestHandler) CreateGuest(c echo.Context, req *CreateGuestRequest) (*model.Guest, error) {
	return h.guests.Create(c.Request().Context(), req.Input.Fields())
}

// ReplaceGuest checks that the guest exists before looking at the body,
// so an unknown id is a 404 whatever the body holds.
func (h *GuestHandler) ReplaceGuest(c echo.Context, req *GuestIDRequest) (*model.Guest, error) {
	ctx := c.Request().Context()

	if _, err := h.guests.Get(ctx, req.ID); err != nil {
		return nil, err
	}

	body := &ReplaceGuestBody{}
	if err := validation.BindBody(c, body.Body()); err != nil {
		return nil, err
	}
	if err := validation.ValidatePayload(body); err != nil {
		return nil, err
	}

	return h.guests.Replace(ctx, req.ID, body.Input.Fields())
}

func (h *GuestHandler) DeleteGuest(c echo.Context, req *GuestIDRequest) (*MessageResponse, error) {
	if err := h.guests.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: DeletedMessage}, nil
}
