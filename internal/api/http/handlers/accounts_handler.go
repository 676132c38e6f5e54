package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tech-help/helpdesk-service/internal/api/dto"
	"github.com/tech-help/helpdesk-service/internal/service"
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

// AccountsHandler manages self-service auth and admin account endpoints.
type AccountsHandler struct {
	authService    *service.AuthService
	accountService *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService, accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{authService: authService, accountService: accountService}
}

// Register POST /auth/register. Self-registration always yields a client account.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email and password required", nil)
	}

	account, token, expiresAt, err := h.authService.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"account": dto.NewAccountResponse(account),
		"auth":    dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
	}})
}

// Login POST /auth/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	account, token, expiresAt, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"account": dto.NewAccountResponse(account),
		"auth":    dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
	}})
}

// Create POST /accounts. Admin provisioning with an explicit role.
func (h *AccountsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.accountService.Create(c.UserContext(), service.AccountCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// List GET /accounts.
func (h *AccountsHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	accounts, err := h.accountService.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, dto.NewAccountResponse(&accounts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /accounts/:id.
func (h *AccountsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	account, err := h.accountService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// Update PATCH /accounts/:id.
func (h *AccountsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.accountService.Update(c.UserContext(), id, service.AccountUpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// Delete DELETE /accounts/:id.
func (h *AccountsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.accountService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
