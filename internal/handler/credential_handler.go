package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KickLedger/kickledger_api/internal/middleware"
	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/internal/service"
	"github.com/KickLedger/kickledger_api/internal/utils"
)

// CredentialHandler connects marketplace accounts to a user.
type CredentialHandler struct {
	credSvc *service.CredentialService
}

// NewCredentialHandler constructs a CredentialHandler.
func NewCredentialHandler(credSvc *service.CredentialService) *CredentialHandler {
	return &CredentialHandler{credSvc: credSvc}
}

type connectRequest struct {
	Marketplace  string `json:"marketplace" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Connect handles POST /v1/credentials. Stores the OAuth refresh token the
// dashboard obtained through the marketplace's consent flow.
func (h *CredentialHandler) Connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	mk, ok := models.ParseMarketplace(req.Marketplace)
	if !ok {
		utils.Error(c, 400, "UNKNOWN_MARKETPLACE", "Marketplace must be stockx or ebay")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.credSvc.Connect(c.Request.Context(), userID, mk, req.RefreshToken); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to store credential")
		return
	}

	utils.Success(c, 200, "Marketplace connected", gin.H{"marketplace": mk})
}
