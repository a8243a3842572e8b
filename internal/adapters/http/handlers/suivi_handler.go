package handlers

import (
	"courrier-registry/internal/core/domain"
	"courrier-registry/internal/core/services"
	"courrier-registry/internal/pkg/pagination"
	"courrier-registry/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SuiviHandler handles suivi endpoints
type SuiviHandler struct {
	suiviService *services.SuiviService
}

// NewSuiviHandler creates a new suivi handler
func NewSuiviHandler(suiviService *services.SuiviService) *SuiviHandler {
	return &SuiviHandler{suiviService: suiviService}
}

// Create handles POST /api/suivis
func (h *SuiviHandler) Create(c *fiber.Ctx) error {
	var in services.SuiviInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	suivi, err := h.suiviService.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return response.Created(c, NewSuiviResponse(suivi))
}

// Update handles PUT /api/suivis/:id
func (h *SuiviHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in services.SuiviInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	suivi, err := h.suiviService.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, NewSuiviResponse(suivi))
}

// Get handles GET /api/suivis/:id
func (h *SuiviHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	suivi, err := h.suiviService.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, NewSuiviResponse(suivi))
}

// List handles GET /api/suivis with optional page/limit
func (h *SuiviHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	suivis, total, err := h.suiviService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return writeError(c, err)
	}
	pagination.SetHeaders(c, params, total)
	return response.OK(c, NewSuiviResponses(suivis))
}

// ListByCourrier handles GET /api/suivis/courrier/:courrierId
func (h *SuiviHandler) ListByCourrier(c *fiber.Ctx) error {
	courrierID, err := parseID(c, "courrierId")
	if err != nil {
		return writeError(c, err)
	}
	return h.list(c)(h.suiviService.ListByCourrierID(c.Context(), courrierID))
}

// ListByDate handles GET /api/suivis/date/:date
func (h *SuiviHandler) ListByDate(c *fiber.Ctx) error {
	d, err := parseDateParam(c, "date")
	if err != nil {
		return writeError(c, err)
	}
	return h.list(c)(h.suiviService.ListByDate(c.Context(), d))
}

// ListByDateBetween handles GET /api/suivis/date-between?startDate=&endDate=
func (h *SuiviHandler) ListByDateBetween(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	return h.list(c)(h.suiviService.ListByDateBetween(c.Context(), start, end))
}

// ListByInstruction handles GET /api/suivis/instruction/:instruction
func (h *SuiviHandler) ListByInstruction(c *fiber.Ctx) error {
	return h.list(c)(h.suiviService.ListByInstructionContaining(c.Context(), c.Params("instruction")))
}

// Delete handles DELETE /api/suivis/:id
func (h *SuiviHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.suiviService.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return response.NoContent(c)
}

// DeleteByCourrier handles DELETE /api/suivis/courrier/:courrierId
func (h *SuiviHandler) DeleteByCourrier(c *fiber.Ctx) error {
	courrierID, err := parseID(c, "courrierId")
	if err != nil {
		return writeError(c, err)
	}
	if _, err := h.suiviService.DeleteAllForCourrier(c.Context(), courrierID); err != nil {
		return writeError(c, err)
	}
	return response.NoContent(c)
}

func (h *SuiviHandler) list(c *fiber.Ctx) func([]*domain.Suivi, error) error {
	return func(suivis []*domain.Suivi, err error) error {
		if err != nil {
			return writeError(c, err)
		}
		return response.OK(c, NewSuiviResponses(suivis))
	}
}
