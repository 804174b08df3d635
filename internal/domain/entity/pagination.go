package entity

import "github.com/proganas/extendable-order-payment-api/internal/domain/model"

// Pagination constants
const (
	OrdersPerPage = 10
	DefaultPage   = 1
	// MaxPage bounds page numbers so row offsets cannot overflow.
	MaxPage = 1_000_000
)

// PaginationMeta mirrors the fields of a length-aware paginator.
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
}

// NewPaginationMeta creates pagination metadata for a page holding count items.
func NewPaginationMeta(page, perPage int, total int64, count int) PaginationMeta {
	lastPage := int(total) / perPage
	if int(total)%perPage > 0 {
		lastPage++
	}
	if lastPage < 1 {
		lastPage = 1
	}

	page = ClampPage(page)
	meta := PaginationMeta{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
	if count > 0 {
		from := (page-1)*perPage + 1
		to := from + count - 1
		meta.From, meta.To = &from, &to
	}
	return meta
}

// ClampPage maps page into [DefaultPage, MaxPage].
func ClampPage(page int) int {
	switch {
	case page < DefaultPage:
		return DefaultPage
	case page > MaxPage:
		return MaxPage
	}
	return page
}

// Offset returns the row offset of page.
func Offset(page, perPage int) int {
	return (ClampPage(page) - 1) * perPage
}

// PaginatedOrders is one page of an owner's orders.
type PaginatedOrders struct {
	Orders []*model.Order
	Meta   PaginationMeta
}
