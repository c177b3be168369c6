package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/bowlscore/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"

	// Scoring engine
	CodeOutOfTurn           = "OUT_OF_TURN"
	CodeInvalidPinCount     = "INVALID_PIN_COUNT"
	CodeMatchAlreadyStarted = "MATCH_ALREADY_STARTED"
	CodeMatchComplete       = "MATCH_COMPLETE"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeVersionRequired     = "VERSION_REQUIRED"

	// Roster
	CodeMatchFull           = "MATCH_FULL"
	CodeNoPlayers           = "NO_PLAYERS"
	CodeDuplicatePlayerName = "DUPLICATE_PLAYER_NAME"
	CodeInvalidPlayerName   = "INVALID_PLAYER_NAME"

	// Lookup
	CodeMatchNotFound     = "MATCH_NOT_FOUND"
	CodePlayerNotFound    = "PLAYER_NOT_FOUND"
	CodeScorecardNotFound = "SCORECARD_NOT_FOUND"
	CodeLaneNotFound      = "LANE_NOT_FOUND"

	// Lane sessions
	CodeLaneBusy  = "LANE_BUSY"
	CodeNoSession = "NO_SESSION"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// mapping pairs a domain error with its HTTP form
type mapping struct {
	err     error
	httpErr httpError
}

var mappings = []mapping{
	{model.ErrOutOfTurn, httpError{http.StatusConflict, APIError{CodeOutOfTurn, "Not this player's turn"}}},
	{model.ErrInvalidPinCount, httpError{http.StatusBadRequest, APIError{CodeInvalidPinCount, "Invalid pin count for this throw"}}},
	{model.ErrMatchAlreadyStarted, httpError{http.StatusConflict, APIError{CodeMatchAlreadyStarted, "Match has already started"}}},
	{model.ErrMatchComplete, httpError{http.StatusConflict, APIError{CodeMatchComplete, "Match is already complete"}}},
	{model.ErrConcurrencyConflict, httpError{http.StatusConflict, APIError{CodeConcurrencyConflict, "Match changed since it was read; reload and retry"}}},
	{model.ErrVersionRequired, httpError{http.StatusBadRequest, APIError{CodeVersionRequired, "Throws must include the match version they were based on"}}},
	{model.ErrMatchFull, httpError{http.StatusConflict, APIError{CodeMatchFull, "Match is full"}}},
	{model.ErrNoPlayers, httpError{http.StatusConflict, APIError{CodeNoPlayers, "Match has no players"}}},
	{model.ErrDuplicatePlayerName, httpError{http.StatusConflict, APIError{CodeDuplicatePlayerName, "Player name already taken in this match"}}},
	{model.ErrInvalidPlayerName, httpError{http.StatusBadRequest, APIError{CodeInvalidPlayerName, "Player name must be 1-32 characters"}}},
	{model.ErrMatchNotFound, httpError{http.StatusNotFound, APIError{CodeMatchNotFound, "Match not found"}}},
	{model.ErrPlayerNotFound, httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}},
	{model.ErrScorecardNotFound, httpError{http.StatusNotFound, APIError{CodeScorecardNotFound, "Scorecard not found"}}},
	{model.ErrLaneNotFound, httpError{http.StatusNotFound, APIError{CodeLaneNotFound, "Lane not found"}}},
	{model.ErrLaneBusy, httpError{http.StatusConflict, APIError{CodeLaneBusy, "Lane already has an open session"}}},
	{model.ErrNoSession, httpError{http.StatusConflict, APIError{CodeNoSession, "Lane has no open session"}}},
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Message returns the user-facing message an error maps to
func Message(err error) string {
	return toHTTPError(err).apiError.Message
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, m := range mappings {
		if errors.Is(err, m.err) {
			mapped := m.httpErr
			return &mapped
		}
	}

	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInternalErrorWithReference creates an internal server error naming the
// request it failed in, so a scorer can quote it. An empty ref is omitted.
func NewInternalErrorWithReference(ref string) error {
	if ref == "" {
		return NewInternalError()
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error (request " + ref + ")"}}
}
