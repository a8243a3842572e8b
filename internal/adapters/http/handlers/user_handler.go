package handlers

import (
	"strconv"

	"courrier-registry/internal/core/domain"
	"courrier-registry/internal/core/services"
	"courrier-registry/internal/pkg/pagination"
	"courrier-registry/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create handles POST /api/users
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in services.UserInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	user, err := h.userService.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return response.Created(c, NewUserResponse(user))
}

// Update handles PUT /api/users/:id. An empty password keeps the current one.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in services.UserInput
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	user, err := h.userService.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, NewUserResponse(user))
}

// Get handles GET /api/users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	return h.one(c)(h.userService.GetByID(c.Context(), id))
}

// GetByUsername handles GET /api/users/username/:username
func (h *UserHandler) GetByUsername(c *fiber.Ctx) error {
	return h.one(c)(h.userService.GetByUsername(c.Context(), c.Params("username")))
}

// GetByEmail handles GET /api/users/email/:email
func (h *UserHandler) GetByEmail(c *fiber.Ctx) error {
	return h.one(c)(h.userService.GetByEmail(c.Context(), c.Params("email")))
}

// GetByMatricule handles GET /api/users/matricule/:matricule
func (h *UserHandler) GetByMatricule(c *fiber.Ctx) error {
	return h.one(c)(h.userService.GetByMatricule(c.Context(), c.Params("matricule")))
}

// List handles GET /api/users with optional page/limit
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	users, total, err := h.userService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return writeError(c, err)
	}
	pagination.SetHeaders(c, params, total)
	return response.OK(c, NewUserResponses(users))
}

// SetActive handles PATCH /api/users/:id/active?active=bool
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	active, err := strconv.ParseBool(c.Query("active"))
	if err != nil {
		return writeError(c, domain.InvalidField("active", "must be true or false"))
	}
	return h.one(c)(h.userService.SetActive(c.Context(), id, active))
}

// Delete handles DELETE /api/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.userService.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return response.NoContent(c)
}

// CheckUsername handles GET /api/users/check/username/:username
func (h *UserHandler) CheckUsername(c *fiber.Ctx) error {
	return h.check(c)(h.userService.ExistsByUsername(c.Context(), c.Params("username")))
}

// CheckEmail handles GET /api/users/check/email/:email
func (h *UserHandler) CheckEmail(c *fiber.Ctx) error {
	return h.check(c)(h.userService.ExistsByEmail(c.Context(), c.Params("email")))
}

// CheckMatricule handles GET /api/users/check/matricule/:matricule
func (h *UserHandler) CheckMatricule(c *fiber.Ctx) error {
	return h.check(c)(h.userService.ExistsByMatricule(c.Context(), c.Params("matricule")))
}

func (h *UserHandler) one(c *fiber.Ctx) func(*domain.User, error) error {
	return func(user *domain.User, err error) error {
		if err != nil {
			return writeError(c, err)
		}
		return response.OK(c, NewUserResponse(user))
	}
}

func (h *UserHandler) check(c *fiber.Ctx) func(bool, error) error {
	return func(exists bool, err error) error {
		if err != nil {
			return writeError(c, err)
		}
		return response.OK(c, exists)
	}
}
