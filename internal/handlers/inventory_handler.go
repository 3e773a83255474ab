package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"gudang/internal/models"
	"gudang/internal/services"
)

// InventoryHandler handles HTTP requests for the inventory.
type InventoryHandler struct {
	service *services.InventoryService
	logger  *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(service *services.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the inventory routes with the Fiber app.
func (h *InventoryHandler) RegisterRoutes(router fiber.Router) {
	inventoryRoutes := router.Group("/inventory")
	inventoryRoutes.Get("/", h.HandleGetInventory)
	inventoryRoutes.Get("/search", h.HandleSearchItems)
	inventoryRoutes.Post("/items", h.HandleAddItem)
	inventoryRoutes.Get("/items/:id", h.HandleGetItemByID)
	inventoryRoutes.Put("/items/:id/sizes/:size", h.HandleUpdateItemQuantity)
}

// HandleGetInventory returns every item plus the distinct categories.
func (h *InventoryHandler) HandleGetInventory(c *fiber.Ctx) error {
	resp, err := h.service.GetInventory(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}

// HandleAddItem creates a new inventory item.
func (h *InventoryHandler) HandleAddItem(c *fiber.Ctx) error {
	var req models.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("failed to parse add item request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(models.NewErrorResponse("Invalid request body"))
	}

	resp, err := h.service.AddItem(c.UserContext(), &req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleGetItemByID returns a single item.
func (h *InventoryHandler) HandleGetItemByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.NewErrorResponse("Invalid item id"))
	}

	resp, err := h.service.GetItemByID(c.UserContext(), int64(id))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}

// HandleUpdateItemQuantity sets the stock level of one size of one item.
func (h *InventoryHandler) HandleUpdateItemQuantity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.NewErrorResponse("Invalid item id"))
	}
	size := c.Params("size")

	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("failed to parse quantity update request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(models.NewErrorResponse("Invalid request body"))
	}
	if req.Quantity == nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.NewErrorResponse("Quantity is required"))
	}

	resp, err := h.service.UpdateItemQuantity(c.UserContext(), int64(id), size, *req.Quantity)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}

// HandleSearchItems filters the inventory by the q query parameter.
func (h *InventoryHandler) HandleSearchItems(c *fiber.Ctx) error {
	resp, err := h.service.SearchItems(c.UserContext(), c.Query("q"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}
