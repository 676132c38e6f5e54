package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tech-help/helpdesk-service/internal/api/dto"
	"github.com/tech-help/helpdesk-service/internal/service"
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

// TechniciansHandler manages technician profile endpoints.
type TechniciansHandler struct {
	service *service.TechnicianService
}

// NewTechniciansHandler constructs handler.
func NewTechniciansHandler(technicianService *service.TechnicianService) *TechniciansHandler {
	return &TechniciansHandler{service: technicianService}
}

// Create POST /technicians.
func (h *TechniciansHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTechnicianRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Specialty == "" || req.AccountID <= 0 {
		return apperrors.NewValidationError("name, specialty and account_id required", nil)
	}

	technician, err := h.service.Create(c.UserContext(), service.TechnicianCreateInput{
		Name:         req.Name,
		Specialty:    req.Specialty,
		Availability: req.Availability,
		AccountID:    req.AccountID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTechnicianResponse(technician)})
}

// List GET /technicians.
func (h *TechniciansHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	technicians, err := h.service.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.TechnicianResponse, 0, len(technicians))
	for i := range technicians {
		items = append(items, dto.NewTechnicianResponse(&technicians[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /technicians/:id.
func (h *TechniciansHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	technician, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTechnicianResponse(technician)})
}

// Update PATCH /technicians/:id.
func (h *TechniciansHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTechnicianRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	technician, err := h.service.Update(c.UserContext(), id, service.TechnicianUpdateInput{
		Name:         req.Name,
		Specialty:    req.Specialty,
		Availability: req.Availability,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTechnicianResponse(technician)})
}

// Delete DELETE /technicians/:id.
func (h *TechniciansHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
