package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sprig-core/internal/model"
)

func TestWriteErrorMapsWrappedSentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("get game g1: %w", model.ErrGameNotFound), http.StatusNotFound, CodeGameNotFound},
		{fmt.Errorf("update session: %w", model.ErrSessionNotFound), http.StatusNotFound, CodeSessionNotFound},
		{model.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound},
		{model.ErrSnapshotNotFound, http.StatusNotFound, CodeSnapshotNotFound},
		{model.ErrAccessDenied, http.StatusForbidden, CodeForbidden},
		{NewInvalidRequestError("bad"), http.StatusBadRequest, CodeInvalidRequest},
		{NewUnauthorizedError(), http.StatusUnauthorized, CodeUnauthorized},
		{NewInvalidLoginCodeError(), http.StatusUnauthorized, CodeInvalidLoginCode},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.status, Status(tt.err))
		})
	}
}
