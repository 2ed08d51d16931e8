package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesKindSentinel(t *testing.T) {
	err := fmt.Errorf("save book: %w", Authentication("You need to be logged in!"))

	assert.True(t, errors.Is(err, ErrAuthentication))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestIs_SpecificErrorsDoNotMatchEachOther(t *testing.T) {
	a := NotFound("user not found")
	b := NotFound("book not found")

	assert.True(t, errors.Is(a, a))
	assert.False(t, errors.Is(a, b))
	assert.True(t, errors.Is(b, ErrNotFound))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNetwork, KindOf(Network("catalog unreachable", errors.New("dial tcp"))))
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("wrap: %w", Validation("title is required"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	original := Validation("bookId is required")
	assert.Same(t, original, From(fmt.Errorf("outer: %w", original)))

	converted := From(errors.New("db down"))
	assert.Equal(t, KindInternal, converted.Kind)
	assert.EqualError(t, converted, "internal server error: db down")
}

func TestPublic(t *testing.T) {
	assert.Equal(t, "Not logged in", Public(Authentication("Not logged in")))
	assert.Equal(t, "The service is temporarily unavailable. Please try again.", Public(Network("x", nil)))
	assert.Equal(t, "Something went wrong. Please try again.", Public(errors.New("secret detail")))
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, map[string]interface{}{"code": "UNAUTHENTICATED"}, Authentication("no").Extensions())
}

func TestHTTPStatusAndResponseCode(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
		code   string
	}{
		{KindAuthentication, http.StatusUnauthorized, "UNAUTHORIZED"},
		{KindValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{KindNotFound, http.StatusNotFound, "NOT_FOUND"},
		{KindNetwork, http.StatusBadGateway, "BAD_GATEWAY"},
		{KindInternal, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.kind))
			assert.Equal(t, tt.code, ResponseCode(tt.kind))
		})
	}
}
