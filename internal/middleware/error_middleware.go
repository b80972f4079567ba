package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vitbooks/exchange/internal/app/models/dto"
	"github.com/vitbooks/exchange/internal/pkg/apperrors"
	"github.com/vitbooks/exchange/internal/pkg/logger"
)

// errorMapping ties an error class to its HTTP answer
type errorMapping struct {
	targets []error
	status  int
	code    dto.ErrorCode
	message string
}

// Checked in order, the first match wins
var errorMappings = []errorMapping{
	{[]error{apperrors.ErrOTPNotFound}, http.StatusBadRequest, dto.ErrorCodeInvalidOTP, "Invalid OTP or email."},
	{[]error{apperrors.ErrOTPInvalid}, http.StatusBadRequest, dto.ErrorCodeInvalidOTP, "Invalid OTP."},
	{[]error{apperrors.ErrOTPExpired}, http.StatusBadRequest, dto.ErrorCodeExpiredOTP, "OTP has expired."},
	{[]error{apperrors.ErrTooManyRequests}, http.StatusTooManyRequests, dto.ErrorCodeTooManyOTP, "Too many requests. Please try again later."},
	{[]error{apperrors.ErrInvalidEmail}, http.StatusBadRequest, dto.ErrorCodeInvalidEmail, "Invalid email."},
	{[]error{apperrors.ErrValidationFailed}, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Please fill out all required fields."},
	{[]error{apperrors.ErrBadRequest}, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request."},
	{[]error{apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound}, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found."},
	{[]error{apperrors.ErrTokenExpired}, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token has expired."},
	{[]error{apperrors.ErrTokenInvalid}, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token."},
	{[]error{apperrors.ErrPermissionDenied, apperrors.ErrUnauthorized}, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Not authorized."},
	{[]error{apperrors.ErrConflict, apperrors.ErrResourceAlreadyExists}, http.StatusBadRequest, dto.ErrorCodeConflict, "Conflict."},
	{[]error{apperrors.ErrInvalidOperation}, http.StatusBadRequest, dto.ErrorCodeInvalidOperation, "Operation not allowed."},
}

// HandleAPIError writes the error envelope matching err. Unknown errors are
// logged and answered with a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !apperrors.Is(err, m.targets[0], m.targets[1:]...) {
			continue
		}

		message := m.message
		if msg, ok := apperrors.MessageOf(err); ok {
			message = msg
		}

		detail := dto.NewErrorDetail(m.code, message)
		var ce *apperrors.CustomError
		if errors.As(err, &ce) && ce.Details != nil {
			detail = detail.WithDetails(ce.Details)
		}
		if m.status < http.StatusInternalServerError {
			detail = detail.WithSeverity(dto.ErrorSeverityWarning)
		}

		c.JSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("Unhandled error")

	message := "Internal server error"
	if errors.Is(err, apperrors.ErrPhotoUploadFailed) {
		message = "Photo upload failed."
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, message),
	))
}
