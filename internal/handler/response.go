package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wheelshare/internal/repository"
	"wheelshare/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation - Bad Request
	case errors.Is(err, service.ErrInvalidCustomerID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidSourceLocation),
		errors.Is(err, service.ErrInvalidDestinationLocation),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidPaymentMethod):
		return http.StatusBadRequest

	// Caller is not the ride's customer or assigned driver
	case errors.Is(err, service.ErrNotRideDriver):
		return http.StatusForbidden

	// Lost races and duplicates
	case errors.Is(err, service.ErrRideTaken),
		errors.Is(err, service.ErrDriverUnavailable),
		errors.Is(err, service.ErrPaymentExists):
		return http.StatusConflict

	// Operation not legal in the current lifecycle state
	case errors.Is(err, service.ErrRideNotAccepted),
		errors.Is(err, service.ErrRideNotStarted),
		errors.Is(err, service.ErrRideNotCancellable),
		errors.Is(err, service.ErrRideNotCompleted),
		errors.Is(err, service.ErrDriverOffline):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
