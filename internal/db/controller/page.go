package controller

import "gorm.io/gorm"

const (
	// DefaultPageSize is used when the caller passes no usable page size.
	DefaultPageSize = 20
	// MaxPageSize caps every paginated query.
	MaxPageSize = 100
)

// Page is a one based page request.
type Page struct {
	Page     int
	PageSize int
}

// Normalize clamps page and size into the allowed range.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}

	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		p.PageSize = DefaultPageSize
	}

	return p
}

// Offset of the first row of the page.
func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.PageSize
}

// Scope applies limit and offset to a query.
func (p Page) Scope(db *gorm.DB) *gorm.DB {
	p = p.Normalize()
	return db.Limit(p.PageSize).Offset(p.Offset())
}

// Result is one page of rows plus the total row count.
type Result[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
}

// NewResult builds the page metadata for items.
func NewResult[T any](items []T, p Page, total int64) Result[T] {
	p = p.Normalize()

	totalPages := int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	if totalPages == 0 {
		totalPages = 1
	}

	if items == nil {
		items = []T{}
	}

	return Result[T]{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
	}
}
