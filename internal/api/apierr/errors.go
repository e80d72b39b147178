package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/superbowl-squares/internal/model"
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

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeBoardNotFound   = "BOARD_NOT_FOUND"
	CodeWrongState      = "WRONG_STATE"
	CodeLimitReached    = "LIMIT_REACHED"
	CodeSquareTaken     = "SQUARE_TAKEN"
	CodeNotOwner        = "NOT_OWNER"
	CodeIncompleteBoard = "INCOMPLETE_BOARD"
	CodeConflict        = "CONFLICT"
	CodeInternalError   = "INTERNAL_ERROR"
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

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	case errors.Is(err, model.ErrBoardNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeBoardNotFound, "Board not found"}}
	case errors.Is(err, model.ErrWrongState):
		return &httpError{http.StatusConflict, APIError{CodeWrongState, "Operation not allowed in the board's current state"}}
	case errors.Is(err, model.ErrLimitReached):
		return &httpError{http.StatusConflict, APIError{CodeLimitReached, err.Error()}}
	case errors.Is(err, model.ErrAlreadyTaken):
		return &httpError{http.StatusConflict, APIError{CodeSquareTaken, "Square is already taken"}}
	case errors.Is(err, model.ErrNotOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotOwner, "Square is not yours to release"}}
	case errors.Is(err, model.ErrIncompleteBoard):
		return &httpError{http.StatusConflict, APIError{CodeIncompleteBoard, "All squares must be filled before assigning teams"}}
	case errors.Is(err, model.ErrVersionConflict), errors.Is(err, model.ErrBoardExists):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Board is busy, please retry"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
