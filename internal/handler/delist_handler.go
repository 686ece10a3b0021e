package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KickLedger/kickledger_api/internal/middleware"
	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/internal/repository"
	"github.com/KickLedger/kickledger_api/internal/service"
	"github.com/KickLedger/kickledger_api/internal/utils"
)

// DelistHandler exposes the delist audit history and a manual run trigger.
type DelistHandler struct {
	delistSvc *service.DelistService
	logRepo   *repository.DelistLogRepository
}

// NewDelistHandler constructs a DelistHandler.
func NewDelistHandler(delistSvc *service.DelistService, logRepo *repository.DelistLogRepository) *DelistHandler {
	return &DelistHandler{delistSvc: delistSvc, logRepo: logRepo}
}

// GetHistory handles GET /v1/delists?status=&limit=
func (h *DelistHandler) GetHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	var status *models.DelistStatus
	if raw := c.Query("status"); raw != "" {
		s := models.DelistStatus(raw)
		switch s {
		case models.DelistStatusSuccess, models.DelistStatusFailed,
			models.DelistStatusSkipped, models.DelistStatusNotFound:
			status = &s
		default:
			utils.Error(c, 400, "INVALID_STATUS", "Unknown delist status")
			return
		}
	}

	entries, err := h.logRepo.Query(c.Request.Context(), userID, status, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load delist history")
		return
	}
	counts, err := h.logRepo.CountByStatus(c.Request.Context(), userID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load delist history")
		return
	}

	utils.Success(c, 200, "Delist history", gin.H{
		"entries": entries,
		"counts":  counts,
	})
}

// RunNow handles POST /v1/delists/run, the dashboard's manual "process now"
// trigger.
func (h *DelistHandler) RunNow(c *gin.Context) {
	userID := middleware.GetUserID(c)

	summary, err := h.delistSvc.RunForUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, utils.ErrRunInProgress) {
			utils.Error(c, 409, "RUN_IN_PROGRESS", "A delist run is already in progress")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Delist run failed")
		return
	}

	utils.Success(c, 200, "Delist run finished", summary)
}
