package models

// Sort orders accepted by the contact list endpoint.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// ContactFilter holds the typed predicates recognized by the contact list
// endpoint. Nil fields mean "no constraint". Unrecognized query keys never
// reach this struct, so arbitrary operators cannot be injected into the
// store.
type ContactFilter struct {
	// ContactType constrains results to a single contact type.
	ContactType *string

	// IsFavourite constrains results to (non-)favourites.
	IsFavourite *bool
}

// QueryDescriptor is the canonical form of the pagination, sort, and filter
// query parameters. It is always well-formed: Page >= 1, PerPage within
// bounds, SortBy from the allow-list, SortOrder asc or desc.
type QueryDescriptor struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
	Filter    ContactFilter
}

// Offset returns the number of rows to skip for the descriptor's page.
func (q QueryDescriptor) Offset() int {
	return (q.Page - 1) * q.PerPage
}
