package savedbook

import (
	"net/http"

	"booknav/internal/entity"
	"booknav/internal/httpx"
	"booknav/internal/identity"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func respondBooks(w http.ResponseWriter, r *http.Request, u entity.User) {
	httpx.JSONSuccess(w, r, u.SavedBooks, map[string]any{"book_count": u.BookCount()})
}

// List handles GET /v1/me/books
// @Summary List saved books
// @Tags saved-books
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/me/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Me(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		httpx.JSONErrorFrom(w, r, err)
		return
	}
	respondBooks(w, r, u)
}

// Save handles POST /v1/me/books
// @Summary Save a book
// @Description Add a book to the caller's library. Saving a book twice is a no-op.
// @Tags saved-books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body Input true "Book to save"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/me/books [post]
func (h *HTTPHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONErrorFrom(w, r, err)
		return
	}

	u, err := h.svc.Save(r.Context(), identity.FromContext(r.Context()), in)
	if err != nil {
		httpx.JSONErrorFrom(w, r, err)
		return
	}
	respondBooks(w, r, u)
}

// Remove handles DELETE /v1/me/books/{bookId}
// @Summary Remove a saved book
// @Description Removing a book that is not saved succeeds without change.
// @Tags saved-books
// @Produce json
// @Security Bearer
// @Param bookId path string true "Google Books volume id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/me/books/{bookId} [delete]
func (h *HTTPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Remove(r.Context(), identity.FromContext(r.Context()), r.PathValue("bookId"))
	if err != nil {
		httpx.JSONErrorFrom(w, r, err)
		return
	}
	respondBooks(w, r, u)
}

// Savers handles GET /v1/books/{bookId}/savers
// @Summary Count users who saved a book
// @Tags saved-books
// @Produce json
// @Param bookId path string true "Google Books volume id"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/books/{bookId}/savers [get]
func (h *HTTPHandler) Savers(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("bookId")
	n, err := h.svc.SaverCount(r.Context(), bookID)
	if err != nil {
		httpx.JSONErrorFrom(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{"book_id": bookID, "savers": n}, nil)
}
