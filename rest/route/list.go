package route

import (
	"net/url"
	"strconv"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/data"
)

const (
	filterParam   = "filter"
	pageParam     = "page"
	pageSizeParam = "pageSize"
)

// getListOptions reads the listing query parameters. A page or page size
// that is not a positive integer falls back to the first page or to an
// unlimited page.
func getListOptions(vals url.Values) data.ListOptions {
	opts := data.ListOptions{
		Filter:   vals.Get(filterParam),
		Page:     1,
		PageSize: 0,
	}
	if page, err := strconv.Atoi(vals.Get(pageParam)); err == nil && page > 0 {
		opts.Page = page
	}
	if size, err := strconv.Atoi(vals.Get(pageSizeParam)); err == nil && size > 0 {
		opts.PageSize = size
	}
	return opts
}
