package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/listing-locator/app/responses"
	"github.com/listing-locator/internal/apperrors"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP codes
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: responses.CodeInvalidRequest, Message: err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, responses.ErrorResponse{Error: responses.CodeNotFound, Message: err.Error()})
	case apperrors.IsUnavailable(err):
		logger.Warn("backing system unavailable", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, responses.ErrorResponse{Error: responses.CodeServiceUnavailable, Message: err.Error()})
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: responses.CodeInternal, Message: "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, responses.ErrorResponse{
		Error:   responses.CodeInvalidRequest,
		Message: "invalid request: " + err.Error(),
	})
}

// bindOptionalJSON binds the body when there is one
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(obj)
}
