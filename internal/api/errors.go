package api

import (
	"fmt"
	"net/http"
)

// ApiError marshals as {"error": "..."} — the error shape the frontend
// already understands.
type ApiError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Err        error  `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}

	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

func NewBadRequestError(message string) *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

func NewNotFoundError(message string) *ApiError {
	return &ApiError{
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

func NewForbiddenError(message string) *ApiError {
	return &ApiError{
		StatusCode: http.StatusForbidden,
		Message:    message,
	}
}

func NewInternalServerError(message string, err error) *ApiError {
	return &ApiError{
		StatusCode: http.StatusInternalServerError,
		Message:    message,
		Err:        err,
	}
}
