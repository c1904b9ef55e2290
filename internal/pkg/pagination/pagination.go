package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// DefaultLimit is the default number of items per page
const DefaultLimit = 100

// MaxLimit is the maximum number of items per page
const MaxLimit = 500

// NoLimit asks the repository for every row (GORM drops a negative limit)
const NoLimit = -1

// GetParams extracts pagination parameters from request. A request that
// names neither page nor limit gets everything in one page.
func GetParams(c *fiber.Ctx) *Params {
	if c.Query("page") == "" && c.Query("limit") == "" {
		return &Params{Page: 1, Limit: NoLimit}
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = 1
	}

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

// GetMeta calculates pagination metadata
func GetMeta(params *Params, total int64) *Meta {
	if params.Limit < 1 {
		return &Meta{Page: 1, Limit: int(total), Total: total, TotalPages: 1}
	}

	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}

	return &Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}

// SetHeaders exposes pagination metadata as response headers so collection
// bodies can stay plain arrays.
func SetHeaders(c *fiber.Ctx, meta *Meta) {
	c.Set("X-Total-Count", strconv.FormatInt(meta.Total, 10))
	c.Set("X-Page", strconv.Itoa(meta.Page))
	c.Set("X-Per-Page", strconv.Itoa(meta.Limit))
	c.Set("X-Total-Pages", strconv.Itoa(meta.TotalPages))
}
