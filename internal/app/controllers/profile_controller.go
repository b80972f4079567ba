package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vitbooks/exchange/internal/app/models/dto"
	"github.com/vitbooks/exchange/internal/app/services"
	"github.com/vitbooks/exchange/internal/middleware"
)

// ProfileController serves the caller's own listings and requests
type ProfileController struct {
	profileService services.ProfileService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

// MyListings godoc
// @Summary My listings
// @Description Every listing of the caller in any status, newest first
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Listing}
// @Failure 401 {object} dto.ErrorResponse
// @Router /profile/listings [get]
func (c *ProfileController) MyListings(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	listings, err := c.profileService.MyListings(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(listings, ""))
}

// MyRequests godoc
// @Summary My requests
// @Description Rental requests made by the caller, newest first
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.OutgoingRequest}
// @Failure 401 {object} dto.ErrorResponse
// @Router /profile/requests [get]
func (c *ProfileController) MyRequests(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	requests, err := c.profileService.MyOutgoingRequests(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests, ""))
}
