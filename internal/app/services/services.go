package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitbooks/exchange/internal/app/models"
	"github.com/vitbooks/exchange/internal/app/repositories"
	"github.com/vitbooks/exchange/internal/pkg/apperrors"
)

// Services defined in this package:
// - AuthService: OTP login and token issuance
// - ListingService: the public listing feed and lender-owned listing CRUD
// - RentalRequestService: borrower requests and lender decisions
// - BorrowRequestService: the open "looking for" board
// - ProfileService: the caller's own listings and requests
//
// Each service depends on the narrow store interface below; the postgres
// repositories satisfy them.

// UserStore persists users
type UserStore interface {
	GetOrCreate(ctx context.Context, email, name string) (*models.User, error)
}

// OTPStore persists one pending challenge per email
type OTPStore interface {
	Replace(ctx context.Context, challenge *models.OTPChallenge) error
	GetByEmail(ctx context.Context, email string) (*models.OTPChallenge, error)
	DeleteByEmail(ctx context.Context, email string) error
}

// ListingStore persists listings
type ListingStore interface {
	List(ctx context.Context, filter models.ListingFilter) ([]*models.Listing, error)
	ListByLender(ctx context.Context, lenderID int64) ([]*models.Listing, error)
	GetByID(ctx context.Context, id int64) (*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) error
	Update(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, id int64) error
}

// RentalRequestStore persists rental requests
type RentalRequestStore interface {
	HasPending(ctx context.Context, listingID, borrowerID int64) (bool, error)
	Create(ctx context.Context, req *models.RentalRequest) error
	ListIncoming(ctx context.Context, lenderID int64) ([]*models.IncomingRequest, error)
	ListOutgoing(ctx context.Context, borrowerID int64) ([]*models.OutgoingRequest, error)
	Respond(ctx context.Context, requestID int64, decision models.RequestStatus, check repositories.OwnershipCheck) error
}

// BorrowRequestStore persists board postings
type BorrowRequestStore interface {
	ListOpen(ctx context.Context) ([]*models.BorrowRequest, error)
	Create(ctx context.Context, br *models.BorrowRequest) error
}

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, time.Time, error)
}

var (
	_ UserStore          = (*repositories.UserRepository)(nil)
	_ OTPStore           = (*repositories.OTPRepository)(nil)
	_ ListingStore       = (*repositories.ListingRepository)(nil)
	_ RentalRequestStore = (*repositories.RentalRequestRepository)(nil)
	_ BorrowRequestStore = (*repositories.BorrowRequestRepository)(nil)
)

// nilIfBlank maps an absent or blank optional field to NULL
func nilIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

const msgRequiredFields = "Please fill out all required fields."

// tooLong reports a field longer than its column
func tooLong(field string, max int) error {
	return apperrors.NewValidationError(fmt.Sprintf("%s must be at most %d characters.", field, max))
}
