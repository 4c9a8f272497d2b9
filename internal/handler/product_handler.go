package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-catalog-api/internal/service"
)

type ProductHandler struct {
	catalog  service.CatalogService
	cascades service.CascadeService
}

func NewProductHandler(catalog service.CatalogService, cascades service.CascadeService) *ProductHandler {
	return &ProductHandler{catalog: catalog, cascades: cascades}
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var input service.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.catalog.CreateProduct(c.UserContext(), input, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var input service.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), id, input, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.catalog.GetProducts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct runs the confirmation-gated cascade; pass ?confirmed=true to
// proceed when deals are affected.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	confirmed := c.QueryBool("confirmed")
	result, err := h.cascades.DeleteProduct(c.UserContext(), id, confirmed)
	if err != nil {
		return respondError(c, err)
	}
	return respondCascade(c, result)
}

func (h *ProductHandler) CreateVariant(c *fiber.Ctx) error {
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var input service.CreateVariantInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	variant, err := h.catalog.CreateVariant(c.UserContext(), productID, input, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Variant created", "data": variant})
}

func (h *ProductHandler) UpdateVariant(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "variantId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid variant ID"})
	}

	var input service.UpdateVariantInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	variant, err := h.catalog.UpdateVariant(c.UserContext(), id, input, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Variant updated", "data": variant})
}

func (h *ProductHandler) GetVariants(c *fiber.Ctx) error {
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	variants, err := h.catalog.GetVariants(c.UserContext(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(variants)
}

func (h *ProductHandler) DeleteVariant(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "variantId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid variant ID"})
	}

	confirmed := c.QueryBool("confirmed")
	result, err := h.cascades.DeleteVariant(c.UserContext(), id, confirmed)
	if err != nil {
		return respondError(c, err)
	}
	return respondCascade(c, result)
}
