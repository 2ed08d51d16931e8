// Package browse keeps the search results the terminal is showing.
package browse

import (
	"context"
	"strings"

	"booknav/internal/apperr"
	"booknav/internal/catalog"
)

var ErrNoSearch = apperr.Validation("search for something first")

// Searcher fetches one filtered page of catalog results.
type Searcher interface {
	Search(ctx context.Context, query string, page int) (catalog.Page, error)
}

// Browser holds the current query and page. Every page change is a fresh
// fetch; a failed fetch leaves the current page in place.
type Browser struct {
	src     Searcher
	current catalog.Page
	active  bool
}

func New(src Searcher) *Browser {
	return &Browser{src: src}
}

// Search starts a new query on page 1.
func (b *Browser) Search(ctx context.Context, query string) (catalog.Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return b.current, apperr.Validation("Please enter a search term")
	}
	return b.fetch(ctx, query, 1)
}

// Goto moves to page n of the current query. Pages outside 1..PageCount
// are rejected without a fetch.
func (b *Browser) Goto(ctx context.Context, n int) (catalog.Page, error) {
	if !b.active {
		return b.current, ErrNoSearch
	}
	if err := catalog.CheckPage(n, b.current.TotalItems); err != nil {
		return b.current, err
	}
	return b.fetch(ctx, b.current.Query, n)
}

func (b *Browser) Next(ctx context.Context) (catalog.Page, error) {
	return b.Goto(ctx, b.current.Page+1)
}

func (b *Browser) Prev(ctx context.Context) (catalog.Page, error) {
	return b.Goto(ctx, b.current.Page-1)
}

func (b *Browser) fetch(ctx context.Context, query string, n int) (catalog.Page, error) {
	page, err := b.src.Search(ctx, query, n)
	if err != nil {
		return b.current, err
	}
	b.current = page
	b.active = true
	return page, nil
}

// Current returns the page on display and whether there is one.
func (b *Browser) Current() (catalog.Page, bool) {
	return b.current, b.active
}

// Displayed looks bookID up among the books on the current page.
func (b *Browser) Displayed(bookID string) (catalog.Book, bool) {
	for _, book := range b.current.Books {
		if book.BookID == bookID {
			return book, true
		}
	}
	return catalog.Book{}, false
}
