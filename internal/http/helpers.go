package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/gong/internal/database"
	"github.com/mrlokans/gong/internal/validation"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// CreatedResponse carries the ID of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// Machine-readable error codes.
const (
	CodeBadRequest = "bad_request"
	CodeNotFound   = "not_found"
	CodeConstraint = "constraint_violation"
	CodeForeignKey = "foreign_key_violation"
	CodeFormat     = "invalid_format"
	CodeInternal   = "internal_error"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeBadRequest})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	slog.Error("internal error", slog.String("context", context), slog.Any("err", err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

// respondStoreError maps a store error onto an HTTP status.
func respondStoreError(c *gin.Context, err error, context string) {
	var details any
	var verr *validation.Error
	if errors.As(err, &verr) {
		details = verr.Fields
	}

	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: context + " not found", Code: CodeNotFound})
	case errors.Is(err, database.ErrConstraint):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: CodeConstraint, Details: details})
	case errors.Is(err, database.ErrForeignKey):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: CodeForeignKey})
	case errors.Is(err, database.ErrFormat):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeFormat})
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with the new ID.
func respondCreated(c *gin.Context, id string) {
	c.JSON(http.StatusCreated, CreatedResponse{ID: id})
}
