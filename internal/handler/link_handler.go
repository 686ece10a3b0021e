package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KickLedger/kickledger_api/internal/middleware"
	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/internal/repository"
	"github.com/KickLedger/kickledger_api/internal/utils"
)

// LinkHandler manages cross-listing links from the dashboard.
type LinkHandler struct {
	linkRepo *repository.LinkRepository
}

// NewLinkHandler constructs a LinkHandler.
func NewLinkHandler(linkRepo *repository.LinkRepository) *LinkHandler {
	return &LinkHandler{linkRepo: linkRepo}
}

type createLinkRequest struct {
	SKU             string  `json:"sku" binding:"required"`
	Size            string  `json:"size" binding:"required"`
	ItemName        string  `json:"itemName"`
	StockXListingID *string `json:"stockxListingId"`
	EbayOfferID     *string `json:"ebayOfferId"`
}

// Create handles POST /v1/links
func (h *LinkHandler) Create(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}
	if req.StockXListingID == nil && req.EbayOfferID == nil {
		utils.Error(c, 400, "MISSING_FIELD", "At least one marketplace listing id is required")
		return
	}

	link := &models.CrossListLink{
		UserID:          middleware.GetUserID(c),
		SKU:             req.SKU,
		Size:            req.Size,
		ItemName:        req.ItemName,
		StockXListingID: req.StockXListingID,
		EbayOfferID:     req.EbayOfferID,
	}
	if err := h.linkRepo.Create(c.Request.Context(), link); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create link")
		return
	}

	utils.Success(c, 201, "Link created", link)
}

// List handles GET /v1/links?limit=
func (h *LinkHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	links, err := h.linkRepo.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load links")
		return
	}

	utils.Success(c, 200, "Links", links)
}

// Get handles GET /v1/links/:id
func (h *LinkHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	linkID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid link id")
		return
	}

	link, err := h.linkRepo.GetByID(c.Request.Context(), userID, linkID)
	if err != nil {
		if errors.Is(err, utils.ErrLinkNotFound) {
			utils.Error(c, 404, "LINK_NOT_FOUND", "Link not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load link")
		return
	}

	utils.Success(c, 200, "Link", link)
}
