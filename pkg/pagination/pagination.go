package pagination

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 5
	maxPageSize     = 100
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Offset   int `json:"-"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{
		Page:     1,
		PageSize: defaultPageSize,
		Offset:   0,
	}
}

// FromRequest extracts pagination parameters from an HTTP request.
// Malformed or out-of-range values fall back to the defaults.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if pageSize := r.URL.Query().Get("page_size"); pageSize != "" {
		if v, err := strconv.Atoi(pageSize); err == nil && v > 0 && v <= maxPageSize {
			p.PageSize = v
		}
	}

	p.Offset = (p.Page - 1) * p.PageSize
	return p
}

// Result wraps a paginated response.
type Result[T any] struct {
	Count    int `json:"count"`
	Data     []T `json:"data"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewResult creates a paginated result.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	if data == nil {
		data = []T{}
	}
	return Result[T]{
		Count:    totalCount,
		Data:     data,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
}
