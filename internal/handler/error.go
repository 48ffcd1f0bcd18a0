package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/middleware"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/service"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/validation"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, validation.ErrorResponse{
		Code:    code,
		Message: message,
		Errors:  nil,
	})
}

// writeServiceError maps service errors to responses. Anything that is not
// a not-found, conflict or validation error becomes a 500 with the given
// code and message.
func writeServiceError(c *gin.Context, err error, code, message string) {
	var (
		notFound *service.NotFoundError
		conflict *service.ConflictError
		invalid  *service.ValidationError
	)

	switch {
	case errors.As(err, &notFound):
		writeError(c, http.StatusNotFound,
			strings.ToUpper(notFound.Entity)+"_NOT_FOUND",
			notFound.Error(),
		)
	case errors.As(err, &conflict):
		writeError(c, http.StatusConflict, conflictCode(conflict.Reason), conflict.Message)
	case errors.As(err, &invalid):
		fields := make([]validation.FieldError, 0, len(invalid.Fields))
		for _, f := range invalid.Fields {
			fields = append(fields, validation.FieldError{
				Field:   f.Field,
				Rule:    f.Rule,
				Message: f.Message,
			})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, validation.Failed(fields))
	default:
		slog.ErrorContext(c.Request.Context(), message,
			"error", err,
			"request_id", middleware.RequestIDFrom(c),
		)
		writeError(c, http.StatusInternalServerError, code, message)
	}
}

func conflictCode(reason service.ConflictReason) string {
	switch reason {
	case service.ConflictDuplicateISBN:
		return "BOOK_ISBN_CONFLICT"
	case service.ConflictAuthorHasBooks:
		return "AUTHOR_HAS_BOOKS"
	}
	return "CONFLICT"
}

// parseID reads the :id path parameter. It writes a 400 with code and
// returns false when the value is not a positive integer.
func parseID(c *gin.Context, code, message string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		writeError(c, http.StatusBadRequest, code, message)
		return 0, false
	}
	return uint(id), true
}
