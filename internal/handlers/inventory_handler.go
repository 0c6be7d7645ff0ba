package handlers

import (
	"laundry_manager/internal/models"
	"laundry_manager/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService services.InventoryService
}

func NewInventoryHandler(inventoryService services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

type AdjustStockRequest struct {
	Delta int `json:"delta"`
}

func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.inventoryService.ListItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	if err := h.inventoryService.CreateItem(c.Request.Context(), &item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	item, err := h.inventoryService.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.inventoryService.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}
