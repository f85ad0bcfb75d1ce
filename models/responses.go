package models

// Envelope is the uniform JSON response wrapper: every successful response
// carries the HTTP status, a human-readable message, and the payload.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ContactPage is the payload of the contact list endpoint: one page of
// contacts plus the pagination metadata the client needs to render paging
// controls.
type ContactPage struct {
	Data            []Contact `json:"data"`
	Page            int       `json:"page"`
	PerPage         int       `json:"perPage"`
	TotalItems      int64     `json:"totalItems"`
	TotalPages      int       `json:"totalPages"`
	HasPreviousPage bool      `json:"hasPreviousPage"`
	HasNextPage     bool      `json:"hasNextPage"`
}

// NewContactPage assembles pagination metadata from the raw page of items,
// the total row count, and the descriptor the page was fetched with.
func NewContactPage(items []Contact, total int64, q QueryDescriptor) ContactPage {
	totalPages := int(total) / q.PerPage
	if int(total)%q.PerPage != 0 {
		totalPages++
	}

	return ContactPage{
		Data:            items,
		Page:            q.Page,
		PerPage:         q.PerPage,
		TotalItems:      total,
		TotalPages:      totalPages,
		HasPreviousPage: q.Page > 1,
		HasNextPage:     q.Page < totalPages,
	}
}
