package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/okapi-id/okapi_id/internal/apperr"
	"github.com/okapi-id/okapi_id/internal/config"
)

// Handler exposes the public register/login endpoints.
type Handler struct {
	cfg config.Config
	svc *Service
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(cfg config.Config, svc *Service) *Handler {
	return &Handler{cfg: cfg, svc: svc}
}

type credentialsRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates an account and returns its bearer token.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	_, tok, err := h.svc.Register(c.UserContext(), req.Identity, req.Secret)
	if err != nil {
		return mapAuthError(err)
	}
	h.setTokenCookie(c, tok)
	return c.Status(http.StatusCreated).JSON(tokenResponse{Token: tok})
}

// Login verifies credentials and returns a fresh bearer token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	_, tok, err := h.svc.Login(c.UserContext(), req.Identity, req.Secret)
	if err != nil {
		return mapAuthError(err)
	}
	h.setTokenCookie(c, tok)
	return c.Status(http.StatusOK).JSON(tokenResponse{Token: tok})
}

func (h *Handler) setTokenCookie(c *fiber.Ctx, tok string) {
	if h.cfg.TokenCarrier != config.CarrierCookie {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     config.TokenCookieName,
		Value:    tok,
		Expires:  time.Now().Add(h.cfg.TokenTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// Distinct not-found and mismatch reasons are preserved on purpose; both map
// to 401.
func mapAuthError(err error) error {
	switch {
	case errors.Is(err, apperr.ErrMissingIdentity),
		errors.Is(err, apperr.ErrMissingSecret),
		errors.Is(err, apperr.ErrIdentityExists),
		errors.Is(err, apperr.ErrHashing):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrAccountNotFound),
		errors.Is(err, apperr.ErrSecretMismatch):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	default:
		return err
	}
}
