package handler

import (
	"github.com/d8nd8/python-final-diplom/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// PartnerHandler handles shop-side catalog management
type PartnerHandler struct {
	BaseHandler
	importService  *catalog.ImportService
	listingService *catalog.ListingService
}

// NewPartnerHandler creates a new partner handler
func NewPartnerHandler(importService *catalog.ImportService, listingService *catalog.ListingService) *PartnerHandler {
	return &PartnerHandler{
		importService:  importService,
		listingService: listingService,
	}
}

// Update godoc
// @ID           updatePartnerCatalog
// @Summary      Import price list
// @Description  Fetch a YAML feed and replace the shop's listings with its goods
// @Tags         partner
// @Accept       json
// @Produce      json
// @Param        request body catalog.ImportCatalogRequest true "Feed location"
// @Success      200 {object} APIResponse[catalog.ImportResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/update [post]
func (h *PartnerHandler) Update(c *gin.Context) {
	var req catalog.ImportCatalogRequest
	if !h.BindJSON(c, &req) {
		return
	}

	userID, userType := currentUser(c)
	result, err := h.importService.ImportCatalog(c.Request.Context(), catalog.ImportCatalogInput{
		UserID:   userID,
		UserType: userType,
		URL:      req.URL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Shops godoc
// @ID           listPartnerShops
// @Summary      List own shops
// @Description  List the shops owned by the authenticated partner
// @Tags         partner
// @Produce      json
// @Success      200 {object} APIResponse[[]catalog.ShopResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/shops [get]
func (h *PartnerHandler) Shops(c *gin.Context) {
	userID, userType := currentUser(c)
	shops, err := h.listingService.ListShops(c.Request.Context(), userID, userType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, shops)
}
