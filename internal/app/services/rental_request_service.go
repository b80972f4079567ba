package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/vitbooks/exchange/internal/app/auth"
	"github.com/vitbooks/exchange/internal/app/models"
	"github.com/vitbooks/exchange/internal/pkg/apperrors"
)

// RentalRequestService defines the interface for rental request operations
type RentalRequestService interface {
	Create(ctx context.Context, borrowerID, listingID int64) (*models.RentalRequest, error)
	ListIncoming(ctx context.Context, lenderID int64) ([]*models.IncomingRequest, error)
	Respond(ctx context.Context, lenderID, requestID int64, decision models.RequestStatus) error
}

// rentalRequestServiceImpl implements RentalRequestService
type rentalRequestServiceImpl struct {
	requests RentalRequestStore
	listings ListingStore
	logger   zerolog.Logger
}

// NewRentalRequestService creates a new RentalRequestService
func NewRentalRequestService(requests RentalRequestStore, listings ListingStore, logger zerolog.Logger) RentalRequestService {
	return &rentalRequestServiceImpl{
		requests: requests,
		listings: listings,
		logger:   logger,
	}
}

// Create files a PENDING request from borrowerID on an available listing they do not own
func (s *rentalRequestServiceImpl) Create(ctx context.Context, borrowerID, listingID int64) (*models.RentalRequest, error) {
	if listingID <= 0 {
		return nil, apperrors.NewValidationError(msgRequiredFields)
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrListingUnavailable
		}
		return nil, fmt.Errorf("error loading listing: %w", err)
	}

	if listing.Status != models.ListingAvailable {
		return nil, apperrors.ErrListingUnavailable
	}
	if listing.LenderID == borrowerID {
		return nil, apperrors.ErrSelfBorrow
	}

	pending, err := s.requests.HasPending(ctx, listingID, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("error checking pending requests: %w", err)
	}
	if pending {
		return nil, apperrors.ErrDuplicatePendingRequest
	}

	req := &models.RentalRequest{
		ListingID:  listingID,
		BorrowerID: borrowerID,
		Status:     models.RequestPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", req.ID).Int64("listingID", listingID).Int64("borrowerID", borrowerID).Msg("Rental request created")
	return req, nil
}

// ListIncoming returns the pending requests on lenderID's listings
func (s *rentalRequestServiceImpl) ListIncoming(ctx context.Context, lenderID int64) ([]*models.IncomingRequest, error) {
	requests, err := s.requests.ListIncoming(ctx, lenderID)
	if err != nil {
		return nil, fmt.Errorf("error listing incoming requests: %w", err)
	}
	return requests, nil
}

// Respond accepts or rejects a pending request on one of lenderID's listings
func (s *rentalRequestServiceImpl) Respond(ctx context.Context, lenderID, requestID int64, decision models.RequestStatus) error {
	if !decision.IsDecision() {
		return apperrors.ErrInvalidDecision
	}

	err := s.requests.Respond(ctx, requestID, decision, func(o *models.RequestOwnership) error {
		if err := auth.RequireOwner(o, lenderID); err != nil {
			return err
		}
		if o.Status != models.RequestPending {
			return apperrors.ErrRequestAlreadyActioned
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("requestID", requestID).Str("decision", string(decision)).Msg("Rental request actioned")
	return nil
}
