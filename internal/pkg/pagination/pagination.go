package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	// TotalCountHeader carries the unpaginated row count of a paginated list
	TotalCountHeader = "X-Total-Count"

	// TotalPagesHeader carries the number of pages at the requested limit
	TotalPagesHeader = "X-Total-Pages"
)

// Params represents pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// DefaultLimit is the default number of items per page
const DefaultLimit = 20

// MaxLimit is the maximum number of items per page
const MaxLimit = 100

// Unpaged selects every row
var Unpaged = &Params{Page: 1, Limit: -1}

// GetParams extracts pagination parameters from request. Lists stay complete
// unless the client asks for a page or a limit.
func GetParams(c *fiber.Ctx) *Params {
	if c.Query("page") == "" && c.Query("limit") == "" {
		return Unpaged
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultLimit)))

	// Validate page
	if page < 1 {
		page = 1
	}

	// Validate limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// IsPaged reports whether the client asked for a page
func (p *Params) IsPaged() bool {
	return p.Limit > 0
}

// TotalPages calculates the number of pages for total rows
func (p *Params) TotalPages(total int64) int {
	if !p.IsPaged() {
		return 1
	}
	pages := int(total) / p.Limit
	if int(total)%p.Limit > 0 {
		pages++
	}
	return pages
}

// SetHeaders writes the total count and page count for paginated responses
func SetHeaders(c *fiber.Ctx, params *Params, total int64) {
	if params.IsPaged() {
		c.Set(TotalCountHeader, strconv.FormatInt(total, 10))
		c.Set(TotalPagesHeader, strconv.Itoa(params.TotalPages(total)))
	}
}
