package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/movesimport/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: nonroad", core.ErrUnknownImporter), http.StatusNotFound},
		{fmt.Errorf("%w: invalid source type", errBadRequest), http.StatusBadRequest},
		{fmt.Errorf("check link: %w", core.ErrTooManyChecks), http.StatusTooManyRequests},
		{fmt.Errorf("check link: %w", context.DeadlineExceeded), http.StatusServiceUnavailable},
		{errors.New("no such table: link"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestRespondError_TooManyChecks(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)

	respondError(rec, req, fmt.Errorf("check link: %w", core.ErrTooManyChecks))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"code":"CHK004"`)
}
