package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vitbooks/exchange/internal/app/models/dto"
	"github.com/vitbooks/exchange/internal/app/services"
	"github.com/vitbooks/exchange/internal/middleware"
)

// parseIDParam parses a positive ID parameter from the request path
func parseIDParam(ctx *gin.Context, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+paramName).WithField(paramName)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// requireUserID returns the authenticated caller or answers 401
func requireUserID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		))
		return 0, false
	}
	return userID, true
}

// ListingController handles listing operations
type ListingController struct {
	listingService services.ListingService
}

// NewListingController creates a new ListingController
func NewListingController(listingService services.ListingService) *ListingController {
	return &ListingController{
		listingService: listingService,
	}
}

// List godoc
// @Summary Browse available listings
// @Description Lists AVAILABLE listings, optionally filtered by item type and a case-insensitive search over title, course name and course code
// @Tags listings
// @Produce json
// @Param item_type query string false "Exact item type"
// @Param search query string false "Search text"
// @Param sort query string false "newest (default) or oldest" Enums(newest, oldest)
// @Success 200 {object} dto.APIResponse{data=[]models.Listing}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /listings [get]
func (c *ListingController) List(ctx *gin.Context) {
	var query dto.ListingQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	listings, err := c.listingService.List(ctx.Request.Context(), query.ToFilter())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(listings, ""))
}

// GetByID godoc
// @Summary Get a listing
// @Description Returns a listing in any status
// @Tags listings
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} dto.APIResponse{data=models.Listing}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /listings/{id} [get]
func (c *ListingController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	listing, err := c.listingService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(listing, ""))
}

// Create godoc
// @Summary Create a listing
// @Description Creates an AVAILABLE listing owned by the caller with an optional photo
// @Tags listings
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param item_type formData string true "Item type"
// @Param book_title formData string false "Book title"
// @Param book_author formData string false "Book author"
// @Param course_name formData string true "Course name"
// @Param course_code formData string true "Course code"
// @Param modules_included formData string false "Modules included"
// @Param contact_details formData string true "Contact details"
// @Param collection_point formData string true "Collection point"
// @Param photo formData file false "Photo (JPEG, PNG or WEBP, max 5MB)"
// @Success 201 {object} dto.APIResponse{data=models.Listing}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /listings [post]
func (c *ListingController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateListingRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	photo, err := ctx.FormFile("photo")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid photo upload").WithField("photo")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		photo = nil
	}

	listing, err := c.listingService.Create(ctx.Request.Context(), userID, &req, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(listing, "Listing created successfully!"))
}

// Update godoc
// @Summary Update a listing
// @Description Replaces every field of a listing owned by the caller
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param request body dto.UpdateListingRequest true "Complete listing"
// @Success 200 {object} dto.APIResponse{data=models.Listing}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /listings/{id} [put]
func (c *ListingController) Update(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateListingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	listing, err := c.listingService.Update(ctx.Request.Context(), id, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(listing, "Listing updated successfully!"))
}

// Delete godoc
// @Summary Delete a listing
// @Description Deletes a listing owned by the caller together with its requests
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /listings/{id} [delete]
func (c *ListingController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.listingService.Delete(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Listing deleted successfully!"))
}
