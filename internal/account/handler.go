package account

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/okapi-id/okapi_id/internal/apperr"
)

// Handler exposes the guarded account CRUD endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
}

type updateRequest struct {
	Identity *string `json:"identity"`
	Secret   *string `json:"secret"`
}

// accountResponse is the outward shape of an account. The secret digest is
// deliberately absent.
type accountResponse struct {
	ID        string    `json:"id"`
	Identity  string    `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(acct Account) accountResponse {
	return accountResponse{
		ID:        acct.ID,
		Identity:  acct.Identity,
		CreatedAt: acct.CreatedAt,
		UpdatedAt: acct.UpdatedAt,
	}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, apperr.ErrMissingIdentity),
		errors.Is(err, apperr.ErrMissingSecret),
		errors.Is(err, apperr.ErrIdentityExists),
		errors.Is(err, apperr.ErrHashing):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrAccountNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return err
	}
}

// Create inserts a new account record.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	acct, err := h.service.Create(c.UserContext(), CreateInput{Identity: req.Identity, Secret: req.Secret})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(acct))
}

// List returns all account records.
func (h *Handler) List(c *fiber.Ctx) error {
	accounts, err := h.service.List(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, acct := range accounts {
		out = append(out, toResponse(acct))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Get returns one account by id.
func (h *Handler) Get(c *fiber.Ctx) error {
	acct, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(acct))
}

// Update applies a partial update to an account.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	acct, err := h.service.Update(c.UserContext(), c.Params("id"), UpdateInput{Identity: req.Identity, Secret: req.Secret})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(acct))
}

// Delete removes an account and confirms with the deleted identity.
func (h *Handler) Delete(c *fiber.Ctx) error {
	acct, err := h.service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": fmt.Sprintf("%s deleted", acct.Identity),
	})
}
