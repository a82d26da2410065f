package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TRHS-OMNIA/crew-backend/pkg/apperr"
)

// Response is the uniform JSON envelope. Success responses carry data,
// failure responses carry a machine-readable error kind plus a friendly
// explanation for display.
type Response struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
	Friendly string      `json:"friendly,omitempty"`
}

// ── success ──

// OK writes a 200 success envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// ── failure ──

// Fail writes a business failure. Business failures are application-level
// outcomes, not transport errors, so they go out with status 200; the client
// branches on the success flag.
func Fail(c *gin.Context, err *apperr.Error) {
	c.JSON(http.StatusOK, Response{Success: false, Error: err.Kind, Friendly: err.Friendly})
}

// FailStatus writes a business failure with an explicit HTTP status.
func FailStatus(c *gin.Context, status int, err *apperr.Error) {
	c.JSON(status, Response{Success: false, Error: err.Kind, Friendly: err.Friendly})
}

// FailMessage writes a one-off failure that has no apperr kind.
func FailMessage(c *gin.Context, status int, kind, friendly string) {
	c.JSON(status, Response{Success: false, Error: kind, Friendly: friendly})
}

// Unauthorized writes a 401 failure.
func Unauthorized(c *gin.Context, friendly string) {
	FailMessage(c, http.StatusUnauthorized, "Unauthorized", friendly)
}

// Forbidden writes a 403 failure.
func Forbidden(c *gin.Context, friendly string) {
	FailMessage(c, http.StatusForbidden, "Forbidden", friendly)
}

// BadRequest writes a 400 failure.
func BadRequest(c *gin.Context, friendly string) {
	FailMessage(c, http.StatusBadRequest, "Bad Request", friendly)
}

// InternalError writes a generic 500 failure.
func InternalError(c *gin.Context) {
	FailMessage(c, http.StatusInternalServerError, "Unknown Error", "Something went wrong on our end.  Try again in a few moments.")
}

// FromError routes a service error: apperr values become business failures,
// anything else becomes a generic 500.
func FromError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		Fail(c, appErr)
		return
	}
	InternalError(c)
}
