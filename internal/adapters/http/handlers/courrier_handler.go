package handlers

import (
	"io"

	"courrier-registry/internal/core/domain"
	"courrier-registry/internal/core/services"
	"courrier-registry/internal/pkg/pagination"
	"courrier-registry/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CourrierHandler handles courrier endpoints
type CourrierHandler struct {
	courrierService *services.CourrierService
}

// NewCourrierHandler creates a new courrier handler
func NewCourrierHandler(courrierService *services.CourrierService) *CourrierHandler {
	return &CourrierHandler{courrierService: courrierService}
}

// Create handles POST /api/courriers
func (h *CourrierHandler) Create(c *fiber.Ctx) error {
	var in services.CourrierInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}

	courrier, err := h.courrierService.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return response.Created(c, NewCourrierResponse(courrier))
}

// Update handles PUT /api/courriers/:id
func (h *CourrierHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in services.CourrierInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}

	courrier, err := h.courrierService.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, NewCourrierResponse(courrier))
}

// Get handles GET /api/courriers/:id
func (h *CourrierHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	courrier, err := h.courrierService.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, NewCourrierResponse(courrier))
}

// GetByNumero handles GET /api/courriers/numero/:numCourrier
func (h *CourrierHandler) GetByNumero(c *fiber.Ctx) error {
	courrier, err := h.courrierService.GetByNumCourrier(c.Context(), c.Params("numCourrier"))
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, NewCourrierResponse(courrier))
}

// List handles GET /api/courriers with optional page/limit
func (h *CourrierHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	courriers, total, err := h.courrierService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return writeError(c, err)
	}
	pagination.SetHeaders(c, params, total)
	return response.OK(c, NewCourrierResponses(courriers))
}

// ListByType handles GET /api/courriers/type/:type
func (h *CourrierHandler) ListByType(c *fiber.Ctx) error {
	t, err := domain.ParseType(c.Params("type"))
	if err != nil {
		return writeError(c, err)
	}
	return h.list(c)(h.courrierService.ListByType(c.Context(), t))
}

// ListByNature handles GET /api/courriers/nature/:nature
func (h *CourrierHandler) ListByNature(c *fiber.Ctx) error {
	n, err := domain.ParseNature(c.Params("nature"))
	if err != nil {
		return writeError(c, err)
	}
	return h.list(c)(h.courrierService.ListByNature(c.Context(), n))
}

// ListByDate handles GET /api/courriers/date/:date
func (h *CourrierHandler) ListByDate(c *fiber.Ctx) error {
	d, err := parseDateParam(c, "date")
	if err != nil {
		return writeError(c, err)
	}
	return h.list(c)(h.courrierService.ListByDate(c.Context(), d))
}

// ListByDateBetween handles GET /api/courriers/date-between?startDate=&endDate=
func (h *CourrierHandler) ListByDateBetween(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	return h.list(c)(h.courrierService.ListByDateBetween(c.Context(), start, end))
}

// ListByDestinataire handles GET /api/courriers/destinataire/:destinataire
func (h *CourrierHandler) ListByDestinataire(c *fiber.Ctx) error {
	return h.list(c)(h.courrierService.ListByDestinataire(c.Context(), c.Params("destinataire")))
}

// ListByExpediteur handles GET /api/courriers/expediteur/:expediteur
func (h *CourrierHandler) ListByExpediteur(c *fiber.Ctx) error {
	return h.list(c)(h.courrierService.ListByExpediteur(c.Context(), c.Params("expediteur")))
}

// ListByObjet handles GET /api/courriers/objet/:objet
func (h *CourrierHandler) ListByObjet(c *fiber.Ctx) error {
	return h.list(c)(h.courrierService.ListByObjetContaining(c.Context(), c.Params("objet")))
}

// Delete handles DELETE /api/courriers/:id
func (h *CourrierHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.courrierService.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return response.NoContent(c)
}

// CheckNumero handles GET /api/courriers/check/numero/:numCourrier
func (h *CourrierHandler) CheckNumero(c *fiber.Ctx) error {
	exists, err := h.courrierService.ExistsByNumCourrier(c.Context(), c.Params("numCourrier"))
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, exists)
}

// UploadPdf handles POST /api/courriers/:id/upload-pdf (multipart field "file")
func (h *CourrierHandler) UploadPdf(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, domain.InvalidField("file", "file is required"))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, domain.InvalidField("file", "cannot read uploaded file"))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, domain.InvalidField("file", "cannot read uploaded file"))
	}

	courrier, err := h.courrierService.UploadAttachment(c.Context(), id, data, fh.Filename)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, NewCourrierResponse(courrier))
}

// list writes a courrier list result
func (h *CourrierHandler) list(c *fiber.Ctx) func([]*domain.Courrier, error) error {
	return func(courriers []*domain.Courrier, err error) error {
		if err != nil {
			return writeError(c, err)
		}
		return response.OK(c, NewCourrierResponses(courriers))
	}
}
