package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vitbooks/exchange/internal/app/models"
	"github.com/vitbooks/exchange/internal/app/models/dto"
	"github.com/vitbooks/exchange/internal/pkg/apperrors"
	"github.com/vitbooks/exchange/internal/pkg/validation"
)

// BorrowRequestService defines the interface for the open borrow-request board
type BorrowRequestService interface {
	ListOpen(ctx context.Context) ([]*models.BorrowRequest, error)
	Create(ctx context.Context, requesterID int64, req *dto.CreateBorrowRequestRequest) (*models.BorrowRequest, error)
}

// borrowRequestServiceImpl implements BorrowRequestService
type borrowRequestServiceImpl struct {
	board  BorrowRequestStore
	logger zerolog.Logger
}

// NewBorrowRequestService creates a new BorrowRequestService
func NewBorrowRequestService(board BorrowRequestStore, logger zerolog.Logger) BorrowRequestService {
	return &borrowRequestServiceImpl{
		board:  board,
		logger: logger,
	}
}

// ListOpen returns every OPEN posting, newest first
func (s *borrowRequestServiceImpl) ListOpen(ctx context.Context) ([]*models.BorrowRequest, error) {
	requests, err := s.board.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing borrow requests: %w", err)
	}
	return requests, nil
}

// Create posts an OPEN borrow request for requesterID
func (s *borrowRequestServiceImpl) Create(ctx context.Context, requesterID int64, req *dto.CreateBorrowRequestRequest) (*models.BorrowRequest, error) {
	for _, required := range []string{req.ItemType, req.CourseName, req.CourseCode, req.Slot} {
		if !validation.NewStringValidation(required).Validate() {
			return nil, apperrors.NewValidationError(msgRequiredFields)
		}
	}

	checks := []struct {
		field string
		rule  *validation.StringValidation
	}{
		{"item_type", validation.Required(req.ItemType).WithMaxLength(validation.ItemTypeMaxLength)},
		{"course_name", validation.Required(req.CourseName)},
		{"course_code", validation.Required(req.CourseCode).WithMaxLength(validation.CourseCodeMaxLength)},
		{"slot", validation.Required(req.Slot).WithMaxLength(validation.SlotMaxLength)},
		{"book_title", validation.Optional(req.BookTitle, validation.ShortTextMaxLength)},
		{"book_author", validation.Optional(req.BookAuthor, validation.ShortTextMaxLength)},
	}
	for _, c := range checks {
		if !c.rule.Validate() {
			return nil, tooLong(c.field, c.rule.MaxLen)
		}
	}

	br := &models.BorrowRequest{
		RequesterID: requesterID,
		ItemType:    strings.TrimSpace(req.ItemType),
		BookTitle:   nilIfBlank(req.BookTitle),
		BookAuthor:  nilIfBlank(req.BookAuthor),
		CourseName:  strings.TrimSpace(req.CourseName),
		CourseCode:  strings.TrimSpace(req.CourseCode),
		Slot:        strings.TrimSpace(req.Slot),
		Status:      models.BorrowRequestOpen,
	}
	if err := s.board.Create(ctx, br); err != nil {
		return nil, fmt.Errorf("error creating borrow request: %w", err)
	}

	s.logger.Info().Int64("borrowRequestID", br.ID).Int64("requesterID", requesterID).Msg("Borrow request created")
	return br, nil
}
