package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "typed error keeps its message without operation prefixes",
			err:      fmt.Errorf("AssignJudges: %w", apperrors.ErrNoJudges),
			wantCode: http.StatusBadRequest,
			wantBody: "invalid judges: no active judges",
		},
		{
			name:     "conflict",
			err:      apperrors.Conflict("score", "expected version 2, found 3"),
			wantCode: http.StatusConflict,
			wantBody: "score conflict: expected version 2, found 3",
		},
		{
			name:     "infrastructure error is hidden",
			err:      errors.New("pq: relation does not exist"),
			wantCode: http.StatusInternalServerError,
			wantBody: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)

			WriteError(rr, req, logger, tt.err)

			assert.Equal(t, tt.wantCode, rr.Code)
			var body ErrorBody
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body.Error)
		})
	}
}

type createThing struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1,max=3"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"a","count":2}`, false},
		{"missing required", `{"count":2}`, true},
		{"out of range", `{"name":"a","count":4}`, true},
		{"unknown field", `{"name":"a","count":1,"extra":true}`, true},
		{"malformed", `{"name":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tt.body))
			var v createThing
			err := DecodeJSON(req, &v)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "a", v.Name)
		})
	}
}
