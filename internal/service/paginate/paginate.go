// Package paginate parses page/limit request parameters and builds page metadata
package paginate

import (
	"math"
	"strconv"

	"github.com/nkiryanov/videohub/internal/apperrors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Params struct {
	Page  int
	Limit int
}

// Number of records to skip
// Saturates at math.MaxInt so huge pages land past the end instead of overflowing
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Parse raw 'page' and 'limit' values
// Empty values fall back to defaults, limit above MaxLimit is clamped
func Parse(page string, limit string) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			return p, apperrors.Validation("page must be a positive integer")
		}
		p.Page = n
	}

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return p, apperrors.Validation("limit must be a positive integer")
		}
		p.Limit = min(n, MaxLimit)
	}

	return p, nil
}

type Page[T any] struct {
	Items       []T
	Total       int64
	CurrentPage int
	TotalPages  int
	Limit       int
}

func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}

	return Page[T]{
		Items:       items,
		Total:       total,
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		Limit:       p.Limit,
	}
}
