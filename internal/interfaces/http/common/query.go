package common

import (
	"net/url"
	"strings"

	"github.com/wayfarer-hub/travel-api/internal/review/application"
)

// ParsePaging reads page, limit, sortBy and sortOrder. Clamping happens in the service.
func ParsePaging(query url.Values) application.Paging {
	page, _ := ParsePositiveInt(query.Get("page"), 1)
	limit, _ := ParsePositiveInt(query.Get("limit"), application.DefaultPageLimit)

	order := application.SortDesc
	if strings.EqualFold(strings.TrimSpace(query.Get("sortOrder")), string(application.SortAsc)) {
		order = application.SortAsc
	}
	return application.Paging{
		Page:      page,
		Limit:     limit,
		SortBy:    strings.TrimSpace(query.Get("sortBy")),
		SortOrder: order,
	}
}
