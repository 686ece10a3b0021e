package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KickLedger/kickledger_api/internal/middleware"
	"github.com/KickLedger/kickledger_api/internal/repository"
	"github.com/KickLedger/kickledger_api/internal/service"
	"github.com/KickLedger/kickledger_api/internal/utils"
)

// SaleHandler exposes synced sales and a manual sync trigger.
type SaleHandler struct {
	saleRepo *repository.SaleRepository
	syncSvc  *service.SalesSyncService
}

// NewSaleHandler constructs a SaleHandler.
func NewSaleHandler(saleRepo *repository.SaleRepository, syncSvc *service.SalesSyncService) *SaleHandler {
	return &SaleHandler{saleRepo: saleRepo, syncSvc: syncSvc}
}

// List handles GET /v1/sales?limit=
func (h *SaleHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	sales, err := h.saleRepo.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load sales")
		return
	}

	utils.Success(c, 200, "Sales", sales)
}

// SyncNow handles POST /v1/sales/sync. Pulls recent marketplace orders for
// the authenticated user on demand.
func (h *SaleHandler) SyncNow(c *gin.Context) {
	userID := middleware.GetUserID(c)

	result, err := h.syncSvc.SyncUser(c.Request.Context(), userID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Sales sync failed")
		return
	}

	utils.Success(c, 200, "Sales synced", result)
}
