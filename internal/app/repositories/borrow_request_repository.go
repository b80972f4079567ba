package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vitbooks/exchange/internal/app/models"
	"github.com/vitbooks/exchange/internal/db"
	"github.com/vitbooks/exchange/internal/pkg/apperrors"
	"github.com/vitbooks/exchange/internal/pkg/dberrors"
	"github.com/vitbooks/exchange/internal/pkg/logger"
)

// BorrowRequestRepository handles the open borrow request board
type BorrowRequestRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewBorrowRequestRepository creates a new BorrowRequestRepository
func NewBorrowRequestRepository(conn db.DBTX) *BorrowRequestRepository {
	return &BorrowRequestRepository{
		db: conn,
		sb: psql,
	}
}

// ListOpen returns every open posting with its requester's name, newest first
func (r *BorrowRequestRepository) ListOpen(ctx context.Context) ([]*models.BorrowRequest, error) {
	sql, args, err := r.sb.Select(
		"br.id", "br.requester_id", "br.item_type", "br.book_title", "br.book_author",
		"br.course_name", "br.course_code", "br.slot", "br.status", "br.created_at",
		"u.name AS requester_name",
	).
		From("borrow_requests br").
		Join("users u ON br.requester_id = u.id").
		Where(squirrel.Eq{"br.status": string(models.BorrowRequestOpen)}).
		OrderBy("br.created_at DESC", "br.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list borrow requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list borrow requests query")
		return nil, fmt.Errorf("error querying borrow requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.BorrowRequest{}
	for rows.Next() {
		br := &models.BorrowRequest{}
		if err := rows.Scan(&br.ID, &br.RequesterID, &br.ItemType, &br.BookTitle, &br.BookAuthor,
			&br.CourseName, &br.CourseCode, &br.Slot, &br.Status, &br.CreatedAt, &br.RequesterName); err != nil {
			return nil, fmt.Errorf("error scanning borrow request: %w", err)
		}
		requests = append(requests, br)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating borrow requests: %w", err)
	}
	return requests, nil
}

// Create inserts an open posting
func (r *BorrowRequestRepository) Create(ctx context.Context, br *models.BorrowRequest) error {
	sql, args, err := r.sb.Insert("borrow_requests").
		Columns("requester_id", "item_type", "book_title", "book_author", "course_name", "course_code", "slot").
		Values(br.RequesterID, br.ItemType, br.BookTitle, br.BookAuthor, br.CourseName, br.CourseCode, br.Slot).
		Suffix("RETURNING id, status, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create borrow request query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&br.ID, &br.Status, &br.CreatedAt); err != nil {
		if dberrors.IsValueTooLong(err) {
			return apperrors.ErrFieldTooLong
		}
		logger.Error().Err(err).Int64("requesterID", br.RequesterID).Msg("Error executing create borrow request query")
		return fmt.Errorf("error creating borrow request: %w", err)
	}
	return nil
}
