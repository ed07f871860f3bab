// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appauth "github.com/uruhongore/academy/internal/app/auth"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/middleware"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

// parseUUIDParam reads a path parameter as a UUID, writing a 400 response on failure
func parseUUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithField(name).
			WithDetails("must be a UUID")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return uuid.Nil, false
	}
	return id, true
}

func parseIntParam(ctx *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithField(name).
			WithDetails("must be a number")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return v, true
}

func parseTrimesterParam(ctx *gin.Context, name string) (models.Trimester, bool) {
	t, err := models.ParseTrimester(ctx.Param(name))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return "", false
	}
	return t, true
}

// callerOrAbort returns the authenticated caller; routes are mounted behind JWTAuth so a
// missing caller is a wiring error
func callerOrAbort(ctx *gin.Context) (appauth.Caller, bool) {
	caller, ok := middleware.CallerFromContext(ctx)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
		return appauth.Caller{}, false
	}
	return caller, true
}

func respond(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, dto.NewSuccessResponse(data, message))
}

func sendPDF(ctx *gin.Context, data []byte, filename string, inline bool) {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	ctx.Header("Content-Disposition", disposition+`; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, "application/pdf", data)
}

func badRequest(message string) error {
	return apperrors.NewBadRequestError(message)
}
