// internal/handler/handler.go
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"crimson-finance/internal/domain"
	"crimson-finance/internal/middleware"
	"crimson-finance/internal/storage"
	val "crimson-finance/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CombinedStorage is the full persistence surface the handlers need. The
// Postgres and in-memory storages both satisfy it.
type CombinedStorage interface {
	storage.ProfileStorage
	storage.AccountStorage
	storage.CardStorage
	storage.InvoiceStorage
	storage.TransactionStorage
	storage.CategoryStorage
}

// profileIDFromCtx reads the authenticated profile id stored by the auth
// middleware.
func profileIDFromCtx(c *gin.Context) (int64, bool) {
	idVal, ok := c.Get(middleware.ProfileIDKey)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "profile_id missing"})
		return 0, false
	}
	id, ok := idVal.(int64)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "invalid profile_id"})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors to HTTP statuses. Anything unmapped is a 500
// with the detail kept in the log, not the response.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProfileExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnsupportedAggregation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// validateStruct reports tag violations as a domain ValidationError, so DTO
// faults and the deeper parser faults surface with the same status.
func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		fieldErrs := err.(validator.ValidationErrors)
		var errs []string
		for _, e := range fieldErrs {
			errs = append(errs, fieldErrorToString(e))
		}
		return domain.NewValidationError(strings.ToLower(fieldErrs[0].Field()), strings.Join(errs, "; "))
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "money":
		return fmt.Sprintf("%s must be an unsigned decimal with at most 12 integer and 2 fraction digits", e.Field())
	case "txtype":
		return fmt.Sprintf("%s must be one of EXPENSE, REVENUE, TRANSFER, CARD_EXPENSE", e.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field())
	case "min":
		return fmt.Sprintf("%s is too short", e.Field())
	case "max":
		return fmt.Sprintf("%s is too long", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
