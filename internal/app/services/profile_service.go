package services

import (
	"context"
	"fmt"

	"github.com/vitbooks/exchange/internal/app/models"
)

// ProfileService defines the interface for the caller's own data
type ProfileService interface {
	MyListings(ctx context.Context, userID int64) ([]*models.Listing, error)
	MyOutgoingRequests(ctx context.Context, userID int64) ([]*models.OutgoingRequest, error)
}

// profileServiceImpl implements ProfileService
type profileServiceImpl struct {
	listings ListingStore
	requests RentalRequestStore
}

// NewProfileService creates a new ProfileService
func NewProfileService(listings ListingStore, requests RentalRequestStore) ProfileService {
	return &profileServiceImpl{
		listings: listings,
		requests: requests,
	}
}

// MyListings returns every listing of userID in any status
func (s *profileServiceImpl) MyListings(ctx context.Context, userID int64) ([]*models.Listing, error) {
	listings, err := s.listings.ListByLender(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing own listings: %w", err)
	}
	return listings, nil
}

// MyOutgoingRequests returns the rental requests userID has made
func (s *profileServiceImpl) MyOutgoingRequests(ctx context.Context, userID int64) ([]*models.OutgoingRequest, error) {
	requests, err := s.requests.ListOutgoing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing own requests: %w", err)
	}
	return requests, nil
}
