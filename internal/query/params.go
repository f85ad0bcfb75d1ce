// Package query normalizes the raw pagination, sort, and filter query
// parameters of the contact list endpoint into a canonical
// [models.QueryDescriptor].
//
// Parsing is pure and total: malformed or unrecognized input never produces
// an error, it falls back to defaults. Unknown filter keys are dropped so
// arbitrary operators can never be forwarded to the store.
package query

import (
	"net/url"
	"strconv"

	"github.com/MKhiriev/go-contact-keeper/models"
)

const (
	// DefaultPage is used when `page` is absent or malformed.
	DefaultPage = 1

	// DefaultPerPage is used when `perPage` is absent or malformed.
	DefaultPerPage = 10

	// MaxPerPage caps `perPage` to bound the result size.
	MaxPerPage = 100

	// DefaultSortBy is used when `sortBy` is absent or not in the allow-list.
	DefaultSortBy = "name"
)

// sortableFields is the allow-list of columns the contact list may be
// ordered by. Anything else falls back to DefaultSortBy.
var sortableFields = map[string]struct{}{
	"name":         {},
	"phone":        {},
	"email":        {},
	"is_favourite": {},
	"contact_type": {},
	"created_at":   {},
}

// Parse converts raw query parameters into a well-formed descriptor.
// It never fails: every malformed value is replaced with its default.
func Parse(values url.Values) models.QueryDescriptor {
	page, perPage := parsePagination(values)
	sortBy, sortOrder := parseSort(values)

	return models.QueryDescriptor{
		Page:      page,
		PerPage:   perPage,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Filter:    parseFilter(values),
	}
}

func parsePagination(values url.Values) (page, perPage int) {
	page = positiveIntOrDefault(values.Get("page"), DefaultPage)
	perPage = positiveIntOrDefault(values.Get("perPage"), DefaultPerPage)

	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return page, perPage
}

func parseSort(values url.Values) (sortBy, sortOrder string) {
	sortBy = values.Get("sortBy")
	if _, ok := sortableFields[sortBy]; !ok {
		sortBy = DefaultSortBy
	}

	sortOrder = models.SortOrderAsc
	if values.Get("sortOrder") == models.SortOrderDesc {
		sortOrder = models.SortOrderDesc
	}

	return sortBy, sortOrder
}

func parseFilter(values url.Values) models.ContactFilter {
	var filter models.ContactFilter

	contactType := values.Get("contactType")
	if contactType == "" {
		contactType = values.Get("type")
	}
	if models.ValidContactType(contactType) {
		filter.ContactType = &contactType
	}

	rawFavourite := values.Get("isFavourite")
	if rawFavourite == "" {
		rawFavourite = values.Get("favourite")
	}
	if favourite, err := strconv.ParseBool(rawFavourite); err == nil {
		filter.IsFavourite = &favourite
	}

	return filter
}

// positiveIntOrDefault parses raw as a base-10 integer and returns it when
// strictly positive; otherwise it returns def.
func positiveIntOrDefault(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
