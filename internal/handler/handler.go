package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-catalog-api/internal/apperror"
	"go-catalog-api/internal/service"
)

// respondError maps a domain error onto its HTTP status; anything outside
// the taxonomy becomes a generic 400 to keep driver details off the wire.
func respondError(c *fiber.Ctx, err error) error {
	var domainErr *apperror.Error
	if errors.As(err, &domainErr) {
		return c.Status(domainErr.HTTPStatus()).JSON(fiber.Map{
			"error": domainErr.Message,
			"code":  domainErr.Code,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Database Error",
		"code":  apperror.CodeBadRequest,
	})
}

// respondCascade renders a cascade outcome: 409 with the affected deal ids
// when confirmation is still needed, 200 with the deletion summary otherwise.
func respondCascade(c *fiber.Ctx, result *service.CascadeResult) error {
	if result.ConfirmationRequired {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":              apperror.CodeConfirmationRequired,
			"message":           "operation affects existing deals; retry with confirmed=true",
			"affected_deal_ids": result.AffectedDealIDs,
		})
	}
	return c.JSON(result)
}

func getUserID(c *fiber.Ctx) string {
	if userID, ok := c.Locals("user_id").(string); ok {
		return userID
	}
	return "system"
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}
