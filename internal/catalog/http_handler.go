package catalog

import (
	"net/http"
	"strconv"

	"booknav/internal/apperr"
	"booknav/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Search handles GET /v1/search
// @Summary Search the book catalog
// @Description Query Google Books, keep displayable results and return one page
// @Tags catalog
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number (1-10)" default(1)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /v1/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := 1
	if raw := query.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.JSONErrorFrom(w, r, apperr.Validation("page must be a number"))
			return
		}
		page = n
	}

	res, err := h.svc.Search(r.Context(), query.Get("q"), page)
	if err != nil {
		httpx.JSONErrorFrom(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, res.Books, map[string]any{
		"query":       res.Query,
		"page":        res.Page,
		"page_size":   PageSize,
		"total":       res.TotalItems,
		"total_pages": res.PageCount,
	})
}
