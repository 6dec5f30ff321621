package domain

import "time"

// CustomerStatus is the lifecycle tag a customer record carries.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
	CustomerProspect CustomerStatus = "prospect"
)

// Customer is a customer record held by the remote API.
type Customer struct {
	ID        ID             `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Company   string         `json:"company,omitempty"`
	Address   string         `json:"address,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	Status    CustomerStatus `json:"status,omitempty"`
	CreatedAt *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
}

// Page describes one slice of a paginated listing.
type Page struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPage fills the derived fields for a listing of total items.
func NewPage(total int64, page, limit int) Page {
	p := Page{Total: total, Page: page, Limit: limit}
	if limit > 0 {
		p.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	p.HasNext = page < p.TotalPages
	p.HasPrev = page > 1
	return p
}
