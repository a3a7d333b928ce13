package params

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

// NewQueryParams parses pagination query values, falling back to defaults on
// anything unparseable.
func NewQueryParams(page, size, search string) QueryParams {
	p := QueryParams{PageNumber: 1, PageSize: DefaultPageSize, Search: search}

	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.PageNumber = n
	}
	if n, err := strconv.Atoi(size); err == nil && n > 0 {
		if n > MaxPageSize {
			n = MaxPageSize
		}
		p.PageSize = n
	}
	return p
}
