package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-catalog-api/internal/service"
)

type DealHandler struct {
	deals    service.DealService
	cascades service.CascadeService
}

func NewDealHandler(deals service.DealService, cascades service.CascadeService) *DealHandler {
	return &DealHandler{deals: deals, cascades: cascades}
}

func (h *DealHandler) CreateDeal(c *fiber.Ctx) error {
	var input service.CreateDealInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	deal, err := h.deals.Create(c.UserContext(), input, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Deal created", "data": deal})
}

func (h *DealHandler) UpdateDeal(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid deal ID"})
	}

	var patch service.DealPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	deal, err := h.deals.Update(c.UserContext(), id, patch, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Deal updated", "data": deal})
}

func (h *DealHandler) GetDeals(c *fiber.Ctx) error {
	deals, err := h.deals.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(deals)
}

func (h *DealHandler) GetDeal(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid deal ID"})
	}

	deal, err := h.deals.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(deal)
}

// RemoveItem drops one line from a deal, identified by product id and
// optional variant id. Removing the last item needs ?confirmed=true.
func (h *DealHandler) RemoveItem(c *fiber.Ctx) error {
	dealID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid deal ID"})
	}
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	var variantID *uuid.UUID
	if raw := c.Query("variant_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid variant ID"})
		}
		variantID = &parsed
	}

	confirmed := c.QueryBool("confirmed")
	result, err := h.cascades.RemoveDealItem(c.UserContext(), dealID, productID, variantID, confirmed)
	if err != nil {
		return respondError(c, err)
	}
	return respondCascade(c, result)
}
