package catalog

import (
	"fmt"

	"booknav/internal/apperr"
)

const (
	PageSize  = 30
	FetchSize = 40
	MaxPages  = 10
)

var ErrPageOutOfRange = apperr.Validation("page out of range")

// PageCount is ceil(total/PageSize) capped at MaxPages.
func PageCount(totalItems int) int {
	if totalItems <= 0 {
		return 0
	}
	n := (totalItems + PageSize - 1) / PageSize
	if n > MaxPages {
		return MaxPages
	}
	return n
}

// StartIndex is the upstream offset for a 1-based page. Pages advance by the
// fetch size so consecutive pages never overlap upstream.
func StartIndex(page int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * FetchSize
}

// CheckPage validates page against the known total. Page 1 is always valid
// because it is what discovers the total.
func CheckPage(page, totalItems int) error {
	if page == 1 {
		return nil
	}
	if page < 1 || page > PageCount(totalItems) {
		return fmt.Errorf("page %d of %d: %w", page, PageCount(totalItems), ErrPageOutOfRange)
	}
	return nil
}
