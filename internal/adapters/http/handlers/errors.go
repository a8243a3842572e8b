package handlers

import (
	"errors"
	"log"
	"strconv"

	"courrier-registry/internal/core/domain"
	"courrier-registry/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// writeError maps a domain error kind to its HTTP status
func writeError(c *fiber.Ctx, err error) error {
	derr, ok := domain.AsError(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		var fields map[string]string
		if ok {
			fields = derr.Fields
		}
		return response.ValidationError(c, err.Error(), fields)
	default:
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, "Internal server error")
	}
}

// parseID reads an unsigned integer path parameter
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.InvalidField(name, "must be a positive integer")
	}
	return uint(id), nil
}

// parseDateParam reads a YYYY-MM-DD path parameter
func parseDateParam(c *fiber.Ctx, name string) (domain.Date, error) {
	d, err := domain.ParseDate(c.Params(name))
	if err != nil {
		return domain.Date{}, domain.InvalidField(name, "must be a date formatted as YYYY-MM-DD")
	}
	return d, nil
}

// parseDateRange reads the inclusive startDate/endDate query parameters
func parseDateRange(c *fiber.Ctx) (domain.Date, domain.Date, error) {
	fields := map[string]string{}
	start, err := domain.ParseDate(c.Query("startDate"))
	if err != nil {
		fields["startDate"] = "must be a date formatted as YYYY-MM-DD"
	}
	end, err := domain.ParseDate(c.Query("endDate"))
	if err != nil {
		fields["endDate"] = "must be a date formatted as YYYY-MM-DD"
	}
	if len(fields) > 0 {
		return domain.Date{}, domain.Date{}, domain.Invalid(fields)
	}
	return start, end, nil
}

// parseBody decodes the JSON body into dst
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.InvalidField("body", "invalid request body: "+err.Error())
	}
	return nil
}
