package apierr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bowlscore/internal/model"
)

func TestWriteErrorMapsEngineErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{model.ErrOutOfTurn, http.StatusConflict, CodeOutOfTurn},
		{model.ErrInvalidPinCount, http.StatusBadRequest, CodeInvalidPinCount},
		{model.ErrMatchAlreadyStarted, http.StatusConflict, CodeMatchAlreadyStarted},
		{model.ErrMatchComplete, http.StatusConflict, CodeMatchComplete},
		{model.ErrConcurrencyConflict, http.StatusConflict, CodeConcurrencyConflict},
		{model.ErrVersionRequired, http.StatusBadRequest, CodeVersionRequired},
		{model.ErrMatchNotFound, http.StatusNotFound, CodeMatchNotFound},
		{model.ErrLaneNotFound, http.StatusNotFound, CodeLaneNotFound},
		{fmt.Errorf("commit match: %w", model.ErrConcurrencyConflict), http.StatusConflict, CodeConcurrencyConflict},
		{NewInvalidRequestError("bad body"), http.StatusBadRequest, CodeInvalidRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestInternalErrorsDoNotLeakDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("dial tcp 10.0.0.1:6379: refused"))

	assert.NotContains(t, rr.Body.String(), "6379")
}

func TestInternalErrorWithReference(t *testing.T) {
	assert.Equal(t, "Internal server error (request r-1)", NewInternalErrorWithReference("r-1").Error())
	assert.Equal(t, "Internal server error", NewInternalErrorWithReference("").Error())
	assert.Equal(t, http.StatusInternalServerError, Status(NewInternalErrorWithReference("r-1")))
}
