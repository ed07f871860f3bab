package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetail(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorDetail(err error) (int, *dto.ErrorDetail) {
	var batch *apperrors.BatchError
	switch {
	case errors.As(err, &batch):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBatchFailed, batch.Error()).WithDetails(batch.Messages)
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, apperrors.Message(err))
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, apperrors.Message(err))
	case errors.Is(err, apperrors.ErrNotEnrolled):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeEnrollment, apperrors.Message(err))
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, apperrors.Message(err))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, apperrors.Message(err))
	case errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account is disabled")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid phone or password")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrRendering):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeRendering, apperrors.Message(err))
	case errors.Is(err, apperrors.ErrStorage):
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Photo storage is unavailable")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
