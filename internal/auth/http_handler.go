package auth

import (
	"net/http"
	"time"

	"booknav/internal/httpx"
	"booknav/internal/identity"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type tokenView struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      any       `json:"user"`
}

func viewOf(res Result) tokenView {
	return tokenView{
		Token:     res.Token,
		ExpiresAt: res.Credential.ExpiresAt,
		User: map[string]any{
			"id":         res.User.ID,
			"username":   res.User.Username,
			"email":      res.User.Email,
			"book_count": res.User.BookCount(),
		},
	}
}

// Register handles POST /v1/users/register
// @Summary Register a new user
// @Description Create an account and receive an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterInput true "Registration request"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/users/register [post]
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONErrorFrom(w, r, err)
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		httpx.JSONErrorFrom(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, viewOf(res))
}

// Login handles POST /v1/users/login
// @Summary User login
// @Description Authenticate with email and password and receive an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login request"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/users/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONErrorFrom(w, r, err)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		httpx.JSONErrorFrom(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, viewOf(res), nil)
}

// Logout handles POST /v1/auth/logout
// @Summary User logout
// @Description Revoke the current access token
// @Tags auth
// @Security Bearer
// @Success 204
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/auth/logout [post]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), identity.FromContext(r.Context())); err != nil {
		httpx.JSONErrorFrom(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}
