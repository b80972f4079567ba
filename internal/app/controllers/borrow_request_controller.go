package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vitbooks/exchange/internal/app/models/dto"
	"github.com/vitbooks/exchange/internal/app/services"
	"github.com/vitbooks/exchange/internal/middleware"
)

// BorrowRequestController handles the open borrow-request board
type BorrowRequestController struct {
	boardService services.BorrowRequestService
}

// NewBorrowRequestController creates a new BorrowRequestController
func NewBorrowRequestController(boardService services.BorrowRequestService) *BorrowRequestController {
	return &BorrowRequestController{
		boardService: boardService,
	}
}

// List godoc
// @Summary Browse the board
// @Description Open borrow requests, newest first
// @Tags borrow-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.BorrowRequest}
// @Failure 401 {object} dto.ErrorResponse
// @Router /borrow-requests [get]
func (c *BorrowRequestController) List(ctx *gin.Context) {
	requests, err := c.boardService.ListOpen(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests, ""))
}

// Create godoc
// @Summary Post to the board
// @Tags borrow-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBorrowRequestRequest true "Wanted item"
// @Success 201 {object} dto.APIResponse{data=models.BorrowRequest}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /borrow-requests [post]
func (c *BorrowRequestController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateBorrowRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	created, err := c.boardService.Create(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created, "Borrow request created successfully!"))
}
