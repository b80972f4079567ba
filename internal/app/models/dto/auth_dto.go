package dto

import "github.com/vitbooks/exchange/internal/app/models"

// GenerateOTPRequest asks for a login code to be emailed
type GenerateOTPRequest struct {
	Email string `json:"email" binding:"required" example:"john.doe2022@vitstudent.ac.in"`
}

// VerifyOTPRequest exchanges an emailed code for a token
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required" example:"john.doe2022@vitstudent.ac.in"`
	OTP   string `json:"otp" binding:"required" example:"482913"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID    int64  `json:"id" example:"1"`
	Name  string `json:"name" example:"John Doe"`
	Email string `json:"email" example:"john.doe2022@vitstudent.ac.in"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User  UserResponse `json:"user"`
}

// NewUserResponse maps a user model to its public shape
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}
