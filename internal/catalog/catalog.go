// Package catalog turns raw Google Books volumes into displayable books:
// quality filtering, normalization and page arithmetic.
package catalog

import "booknav/internal/entity"

// Book is a normalized search result. It has the same shape as a saved book
// so that a result can be saved without further conversion.
type Book = entity.SavedBook

// NoAuthorPlaceholder replaces an empty author list.
const NoAuthorPlaceholder = "No author to display"

// Page is one page of normalized results.
type Page struct {
	Query      string `json:"query"`
	Page       int    `json:"page"`
	PageCount  int    `json:"page_count"`
	TotalItems int    `json:"total_items"`
	Books      []Book `json:"books"`
}
