package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vitbooks/exchange/internal/app/models"
	"github.com/vitbooks/exchange/internal/app/models/dto"
	"github.com/vitbooks/exchange/internal/app/services"
	"github.com/vitbooks/exchange/internal/middleware"
)

// RentalRequestController handles borrower requests and lender decisions
type RentalRequestController struct {
	requestService services.RentalRequestService
}

// NewRentalRequestController creates a new RentalRequestController
func NewRentalRequestController(requestService services.RentalRequestService) *RentalRequestController {
	return &RentalRequestController{
		requestService: requestService,
	}
}

// Create godoc
// @Summary Request a listing
// @Description Files a PENDING request on an AVAILABLE listing the caller does not own
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRentalRequestRequest true "Listing to borrow"
// @Success 201 {object} dto.APIResponse{data=models.RentalRequest} "Your request has been sent."
// @Failure 400 {object} dto.ErrorResponse "Own listing or request already pending"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Listing not found or unavailable"
// @Router /requests [post]
func (c *RentalRequestController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateRentalRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	created, err := c.requestService.Create(ctx.Request.Context(), userID, req.ListingID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created, "Your request has been sent."))
}

// ListIncoming godoc
// @Summary Incoming requests
// @Description Pending requests on the caller's listings, oldest first
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.IncomingRequest}
// @Failure 401 {object} dto.ErrorResponse
// @Router /requests/incoming [get]
func (c *RentalRequestController) ListIncoming(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	requests, err := c.requestService.ListIncoming(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests, ""))
}

// Respond godoc
// @Summary Accept or reject a request
// @Description ACCEPTED lends the listing and rejects every other pending request on it
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.RespondRentalRequestRequest true "Decision"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid decision or request already actioned"
// @Failure 401 {object} dto.ErrorResponse "Not the lender"
// @Failure 404 {object} dto.ErrorResponse
// @Router /requests/{id}/respond [put]
func (c *RentalRequestController) Respond(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RespondRentalRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.requestService.Respond(ctx.Request.Context(), userID, id, req.Decision); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Request rejected."
	if req.Decision == models.RequestAccepted {
		message = "Request accepted."
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, message))
}
