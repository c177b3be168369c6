package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/bowlscore/internal/api/apierr"
)

// Session, roster and throw bodies are a handful of short fields
const maxBodyBytes = 4 << 10

// WriteError maps a scoring or lane error to its status and code and writes it
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// decodeBody reads a JSON body into v, writing INVALID_REQUEST and returning
// false when it cannot. An empty body is accepted when optional is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(w, apierr.NewInvalidRequestError("Request body too large"))
		return false
	}
	WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
	return false
}
