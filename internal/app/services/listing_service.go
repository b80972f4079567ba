package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/vitbooks/exchange/internal/app/auth"
	"github.com/vitbooks/exchange/internal/app/models"
	"github.com/vitbooks/exchange/internal/app/models/dto"
	"github.com/vitbooks/exchange/internal/pkg/apperrors"
	"github.com/vitbooks/exchange/internal/pkg/filestorage"
	"github.com/vitbooks/exchange/internal/pkg/validation"
)

// ListingService defines the interface for listing operations
type ListingService interface {
	List(ctx context.Context, filter models.ListingFilter) ([]*models.Listing, error)
	GetByID(ctx context.Context, id int64) (*models.Listing, error)
	Create(ctx context.Context, lenderID int64, req *dto.CreateListingRequest, photo *multipart.FileHeader) (*models.Listing, error)
	Update(ctx context.Context, id, callerID int64, req *dto.UpdateListingRequest) (*models.Listing, error)
	Delete(ctx context.Context, id, callerID int64) error
}

// listingServiceImpl implements ListingService
type listingServiceImpl struct {
	listings ListingStore
	photos   filestorage.ImageStore
	guard    *auth.OwnershipGuard[*models.Listing]
	logger   zerolog.Logger
}

// NewListingService creates a new ListingService
func NewListingService(listings ListingStore, photos filestorage.ImageStore, logger zerolog.Logger) ListingService {
	return &listingServiceImpl{
		listings: listings,
		photos:   photos,
		guard:    auth.NewOwnershipGuard(listings.GetByID),
		logger:   logger,
	}
}

// List returns the available listings matching filter
func (s *listingServiceImpl) List(ctx context.Context, filter models.ListingFilter) ([]*models.Listing, error) {
	if filter.Sort != models.SortOldest {
		filter.Sort = models.SortNewest
	}

	listings, err := s.listings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing listings: %w", err)
	}
	return listings, nil
}

// GetByID returns a listing in any status
func (s *listingServiceImpl) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	return s.listings.GetByID(ctx, id)
}

// Create stores a new AVAILABLE listing, uploading its photo first when one is given
func (s *listingServiceImpl) Create(ctx context.Context, lenderID int64, req *dto.CreateListingRequest, photo *multipart.FileHeader) (*models.Listing, error) {
	if err := validateListingFields(listingFields{
		itemType: req.ItemType, courseName: req.CourseName, courseCode: req.CourseCode,
		contact: req.ContactDetails, collection: req.CollectionPoint,
		bookTitle: req.BookTitle, bookAuthor: req.BookAuthor, modules: req.ModulesIncluded,
	}); err != nil {
		return nil, err
	}

	listing := req.ToModel(lenderID)

	if photo != nil {
		url, err := s.photos.Save(ctx, photo, filestorage.ListingPhotosFolder)
		if err != nil {
			if errors.Is(err, filestorage.ErrFileTooBig) || errors.Is(err, filestorage.ErrInvalidFileType) {
				return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
			}
			s.logger.Error().Err(err).Int64("lenderID", lenderID).Msg("Listing photo upload failed")
			return nil, apperrors.NewCustomError(apperrors.ErrPhotoUploadFailed, "Photo upload failed.")
		}
		listing.PhotoURL = &url
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		if listing.PhotoURL != nil {
			s.removePhoto(ctx, *listing.PhotoURL)
		}
		return nil, fmt.Errorf("error creating listing: %w", err)
	}

	s.logger.Info().Int64("listingID", listing.ID).Int64("lenderID", lenderID).Msg("Listing created")
	return listing, nil
}

// Update replaces every mutable field of a listing owned by callerID. The photo
// can be kept or cleared but never pointed at another object, since Delete
// removes whatever photo_url holds.
func (s *listingServiceImpl) Update(ctx context.Context, id, callerID int64, req *dto.UpdateListingRequest) (*models.Listing, error) {
	if err := validateListingFields(listingFields{
		itemType: req.ItemType, courseName: req.CourseName, courseCode: req.CourseCode,
		contact: req.ContactDetails, collection: req.CollectionPoint,
		bookTitle: req.BookTitle, bookAuthor: req.BookAuthor, modules: req.ModulesIncluded,
	}); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, apperrors.NewValidationError("Status must be AVAILABLE or LENT.")
	}

	listing, err := s.guard.Authorize(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	previousPhoto := listing.PhotoURL
	photo := nilIfBlank(req.PhotoURL)
	if photo != nil && (previousPhoto == nil || *photo != *previousPhoto) {
		return nil, apperrors.NewValidationError("Photo URL can only be kept or removed.")
	}

	req.Apply(listing)
	listing.BookTitle = nilIfBlank(listing.BookTitle)
	listing.BookAuthor = nilIfBlank(listing.BookAuthor)
	listing.ModulesIncluded = nilIfBlank(listing.ModulesIncluded)
	listing.PhotoURL = photo

	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("error updating listing: %w", err)
	}

	if previousPhoto != nil && photo == nil {
		s.removePhoto(ctx, *previousPhoto)
	}
	return listing, nil
}

// Delete removes a listing owned by callerID together with its stored photo
func (s *listingServiceImpl) Delete(ctx context.Context, id, callerID int64) error {
	listing, err := s.guard.Authorize(ctx, id, callerID)
	if err != nil {
		return err
	}

	if err := s.listings.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting listing: %w", err)
	}

	if listing.PhotoURL != nil {
		s.removePhoto(ctx, *listing.PhotoURL)
	}

	s.logger.Info().Int64("listingID", id).Msg("Listing deleted")
	return nil
}

func (s *listingServiceImpl) removePhoto(ctx context.Context, url string) {
	if err := s.photos.Delete(ctx, url); err != nil {
		s.logger.Warn().Err(err).Str("photoURL", url).Msg("Failed to remove listing photo")
	}
}

// listingFields are the free-text columns shared by create and update
type listingFields struct {
	itemType, courseName, courseCode, contact, collection string
	bookTitle, bookAuthor, modules                        *string
}

func validateListingFields(f listingFields) error {
	for _, required := range []string{f.itemType, f.courseName, f.courseCode, f.contact, f.collection} {
		if !validation.NewStringValidation(required).Validate() {
			return apperrors.NewValidationError(msgRequiredFields)
		}
	}

	checks := []struct {
		field string
		rule  *validation.StringValidation
	}{
		{"item_type", validation.Required(f.itemType).WithMaxLength(validation.ItemTypeMaxLength)},
		{"course_name", validation.Required(f.courseName)},
		{"course_code", validation.Required(f.courseCode).WithMaxLength(validation.CourseCodeMaxLength)},
		{"contact_details", validation.Required(f.contact)},
		{"collection_point", validation.Required(f.collection)},
		{"book_title", validation.Optional(f.bookTitle, validation.ShortTextMaxLength)},
		{"book_author", validation.Optional(f.bookAuthor, validation.ShortTextMaxLength)},
		{"modules_included", validation.Optional(f.modules, validation.ShortTextMaxLength)},
	}
	for _, c := range checks {
		if !c.rule.Validate() {
			return tooLong(c.field, c.rule.MaxLen)
		}
	}
	return nil
}
