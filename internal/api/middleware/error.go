package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wearedood/base-gaming-sdk-unity/internal/services/metadata"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/wallet"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

// AppError represents a custom application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

var (
	ErrUnauthorized = NewAppError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden    = NewAppError(http.StatusForbidden, "forbidden")
	ErrNotFound     = NewAppError(http.StatusNotFound, "resource not found")
	ErrBadRequest   = NewAppError(http.StatusBadRequest, "bad request")
)

var statusByError = []struct {
	err    error
	status int
}{
	{models.ErrInvalidAmount, http.StatusBadRequest},
	{wallet.ErrInvalidAddress, http.StatusBadRequest},
	{metadata.ErrUnsupportedURI, http.StatusBadRequest},
	{models.ErrPlayerUnknown, http.StatusNotFound},
	{models.ErrItemNotFound, http.StatusNotFound},
	{models.ErrNFTNotFound, http.StatusNotFound},
	{metadata.ErrNotFound, http.StatusNotFound},
	{models.ErrNFTAlreadyOwned, http.StatusConflict},
	{models.ErrDailyBonusClaimed, http.StatusConflict},
	{models.ErrInsufficientBalance, http.StatusUnprocessableEntity},
	{models.ErrContractCallFailed, http.StatusBadGateway},
	{models.ErrNFTSubsystemUnavailable, http.StatusServiceUnavailable},
	{models.ErrEconomyUninitialized, http.StatusServiceUnavailable},
	{models.ErrInternalInvariantViolation, http.StatusInternalServerError},
}

// StatusFor maps an error to the HTTP status reported for it.
func StatusFor(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	for _, entry := range statusByError {
		if errors.Is(err, entry.err) {
			return entry.status
		}
	}
	return http.StatusInternalServerError
}

// ErrorMiddleware handles application errors and returns appropriate responses
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusFor(err)
		message := err.Error()
		var appErr *AppError
		if errors.As(err, &appErr) {
			message = appErr.Message
		}

		c.JSON(status, models.Failed(status, message))
	}
}
