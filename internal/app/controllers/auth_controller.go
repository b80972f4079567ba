// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/vitbooks/exchange/internal/app/models/dto"
	"github.com/vitbooks/exchange/internal/app/services"
	"github.com/vitbooks/exchange/internal/middleware"
)

// AuthController handles OTP login
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// GenerateOTP handles OTP requests
// @Summary Request a login code
// @Description Emails a 6-digit one-time password to an institutional address. Any earlier code for the address stops working.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.GenerateOTPRequest true "Institutional email"
// @Success 200 {object} dto.APIResponse "OTP has been sent to your email."
// @Failure 400 {object} dto.ErrorResponse "Missing or non-institutional email"
// @Failure 429 {object} dto.ErrorResponse "Too many OTP requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/generate-otp [post]
func (c *AuthController) GenerateOTP(ctx *gin.Context) {
	var req dto.GenerateOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid generate OTP payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.GenerateOTP(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "OTP has been sent to your email."))
}

// VerifyOTP handles OTP verification
// @Summary Log in with a code
// @Description Exchanges a valid code for an access token. The account is created on first login.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyOTPRequest true "Email and code"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful!"
// @Failure 400 {object} dto.ErrorResponse "Missing fields, invalid or expired code"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/verify-otp [post]
func (c *AuthController) VerifyOTP(ctx *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid verify OTP payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.authService.VerifyOTP(ctx.Request.Context(), req.Email, req.OTP)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Login successful!"))
}
