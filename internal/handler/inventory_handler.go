package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KickLedger/kickledger_api/internal/middleware"
	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/internal/repository"
	"github.com/KickLedger/kickledger_api/internal/utils"
)

// InventoryHandler manages cost-basis inventory items.
type InventoryHandler struct {
	inventoryRepo *repository.InventoryRepository
}

// NewInventoryHandler constructs an InventoryHandler.
func NewInventoryHandler(inventoryRepo *repository.InventoryRepository) *InventoryHandler {
	return &InventoryHandler{inventoryRepo: inventoryRepo}
}

type createItemRequest struct {
	ItemName      string  `json:"itemName" binding:"required"`
	SKU           string  `json:"sku" binding:"required"`
	Size          string  `json:"size" binding:"required"`
	CostBasis     float64 `json:"costBasis" binding:"required,gte=0"`
	PurchasedAt   *string `json:"purchasedAt"`
	PurchasePlace *string `json:"purchasePlace"`
}

// Create handles POST /v1/inventory
func (h *InventoryHandler) Create(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	item := &models.InventoryItem{
		UserID:        middleware.GetUserID(c),
		ItemName:      req.ItemName,
		SKU:           req.SKU,
		Size:          req.Size,
		CostBasis:     req.CostBasis,
		PurchasePlace: req.PurchasePlace,
	}
	if req.PurchasedAt != nil {
		t, err := time.Parse("2006-01-02", *req.PurchasedAt)
		if err != nil {
			utils.Error(c, 400, "INVALID_DATE", "purchasedAt must be YYYY-MM-DD")
			return
		}
		item.PurchasedAt = &t
	}

	if err := h.inventoryRepo.Create(c.Request.Context(), item); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create inventory item")
		return
	}

	utils.Success(c, 201, "Inventory item created", item)
}

// List handles GET /v1/inventory?limit=
func (h *InventoryHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	items, err := h.inventoryRepo.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load inventory")
		return
	}

	utils.Success(c, 200, "Inventory", items)
}

// Delete handles DELETE /v1/inventory/:id
func (h *InventoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid item id")
		return
	}

	if _, err := h.inventoryRepo.GetByID(c.Request.Context(), userID, itemID); err != nil {
		if errors.Is(err, utils.ErrItemNotFound) {
			utils.Error(c, 404, "ITEM_NOT_FOUND", "Inventory item not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load inventory item")
		return
	}

	if err := h.inventoryRepo.Delete(c.Request.Context(), userID, itemID); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete inventory item")
		return
	}

	utils.Success(c, 200, "Inventory item deleted", nil)
}
