package dto

import "github.com/vitbooks/exchange/internal/app/models"

// CreateRentalRequestRequest asks a lender for one of their listings
type CreateRentalRequestRequest struct {
	ListingID int64 `json:"listing_id" binding:"required,min=1" example:"12"`
}

// RespondRentalRequestRequest carries the lender's decision
type RespondRentalRequestRequest struct {
	Decision models.RequestStatus `json:"decision" binding:"required" example:"ACCEPTED" enums:"ACCEPTED,REJECTED"`
}
