package domain

import "errors"

// SortDirection is the price ordering requested by a listing.
type SortDirection string

// The accepted tokens are the ones the web client sends; "dsc" is not a typo.
const (
	SortNone       SortDirection = ""
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "dsc"
)

// ErrInvalidSort is returned for any sort token other than asc or dsc.
var ErrInvalidSort = errors.New("invalid sort direction")

// ParseSortDirection validates a raw sort parameter.
func ParseSortDirection(raw string) (SortDirection, error) {
	switch SortDirection(raw) {
	case SortNone, SortAscending, SortDescending:
		return SortDirection(raw), nil
	default:
		return SortNone, ErrInvalidSort
	}
}
