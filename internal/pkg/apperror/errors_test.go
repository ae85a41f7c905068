package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_MapsCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeNotFound:      http.StatusNotFound,
		ErrCodeUnauthorized:  http.StatusUnauthorized,
		ErrCodeForbidden:     http.StatusForbidden,
		ErrCodeValidation:    http.StatusBadRequest,
		ErrCodeInvalidState:  http.StatusBadRequest,
		ErrCodeConflict:      http.StatusConflict,
		ErrCodeDatabaseError: http.StatusInternalServerError,
	}

	for code, status := range cases {
		assert.Equal(t, status, New(code, "x").HTTPStatus, string(code))
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, ErrCodeDatabaseError, "не удалось сохранить")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, ErrCodeDatabaseError, CodeOf(err))
}

func TestCodeOf_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("hire: %w", ErrGigNotOpen)

	assert.True(t, IsInvalidState(err))
	assert.False(t, IsConflict(err))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("plain")))
}
