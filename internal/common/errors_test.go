package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := NewAppError("UNSUPPORTED_FORMAT", "bad file", ErrUnsupportedFormat)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Error("AppError must unwrap to its cause")
	}
	if got := err.Error(); got != "UNSUPPORTED_FORMAT: bad file: unsupported file format" {
		t.Errorf("Error() = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrUnsupportedFormat, http.StatusBadRequest},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrExtractionService, http.StatusBadGateway},
		{ErrGenerativeService, http.StatusBadGateway},
		{ErrPersistence, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
		// Wrapped errors must still map through errors.Is.
		{fmt.Errorf("printed pass: %w: %w", ErrExtractionService, errors.New("timeout")), http.StatusBadGateway},
		{NewAppError("X", "y", ErrNotFound), http.StatusNotFound},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
