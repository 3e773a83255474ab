package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/internal/services"
)

// storageErrorMessage is what callers see when the store itself fails. The
// real cause goes to the log, never into the response.
const storageErrorMessage = "Inventory storage is currently unavailable"

// respondError converts a service error into the uniform failure envelope.
// The envelope travels on HTTP 200: a missing item or a broken store is a
// business outcome, not a transport fault.
func (h *InventoryHandler) respondError(c *fiber.Ctx, err error) error {
	message := errorMessage(err)
	if message == storageErrorMessage {
		h.logger.Error("inventory operation failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.JSON(models.NewErrorResponse(message))
}

// errorMessage maps known error kinds onto the envelope messages; anything
// unrecognized is treated as a storage failure.
func errorMessage(err error) string {
	var sizeErr *repositories.SizeNotFoundError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, repositories.ErrItemNotFound):
		return "Item not found"
	case errors.As(err, &sizeErr):
		return fmt.Sprintf("Size '%s' not found for this item", sizeErr.Size)
	case errors.Is(err, services.ErrInvalidQuantity):
		return "Quantity cannot be negative"
	case errors.As(err, &validationErrs):
		return validationMessage(validationErrs)
	default:
		return storageErrorMessage
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}
	return "Validation failed: " + strings.Join(messages, "; ")
}
