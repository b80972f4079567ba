package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/vitbooks/exchange/internal/app/models"
	"github.com/vitbooks/exchange/internal/db"
	"github.com/vitbooks/exchange/internal/pkg/apperrors"
	"github.com/vitbooks/exchange/internal/pkg/dberrors"
	"github.com/vitbooks/exchange/internal/pkg/logger"
)

// PendingRequestIndex is the partial unique index allowing one pending request per listing and borrower
const PendingRequestIndex = "uq_rental_requests_pending"

// RentalRequestRepository handles rental request database operations
type RentalRequestRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewRentalRequestRepository creates a new RentalRequestRepository
func NewRentalRequestRepository(conn db.DBTX) *RentalRequestRepository {
	return &RentalRequestRepository{
		db: conn,
		sb: psql,
	}
}

// HasPending reports whether borrowerID already has a pending request on listingID
func (r *RentalRequestRepository) HasPending(ctx context.Context, listingID, borrowerID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("rental_requests").
		Where(squirrel.Eq{
			"listing_id":  listingID,
			"borrower_id": borrowerID,
			"status":      string(models.RequestPending),
		}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build pending request check: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking pending request: %w", err)
	}
	return exists, nil
}

// Create inserts a pending request
func (r *RentalRequestRepository) Create(ctx context.Context, req *models.RentalRequest) error {
	sql, args, err := r.sb.Insert("rental_requests").
		Columns("listing_id", "borrower_id", "status").
		Values(req.ListingID, req.BorrowerID, string(models.RequestPending)).
		Suffix("RETURNING id, status, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create rental request query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&req.ID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, PendingRequestIndex) {
			return apperrors.ErrDuplicatePendingRequest
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrListingUnavailable
		}
		logger.Error().Err(err).Int64("listingID", req.ListingID).Msg("Error executing create rental request query")
		return fmt.Errorf("error creating rental request: %w", err)
	}

	return nil
}

// ListIncoming returns the pending requests on lenderID's listings, oldest first
func (r *RentalRequestRepository) ListIncoming(ctx context.Context, lenderID int64) ([]*models.IncomingRequest, error) {
	sql, args, err := r.sb.Select(
		"rr.id", "rr.listing_id", "rr.status", "rr.created_at",
		"l.book_title", "l.course_name", "u.name AS borrower_name",
	).
		From("rental_requests rr").
		Join("listings l ON rr.listing_id = l.id").
		Join("users u ON rr.borrower_id = u.id").
		Where(squirrel.Eq{"l.lender_id": lenderID, "rr.status": string(models.RequestPending)}).
		OrderBy("rr.created_at ASC", "rr.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build incoming requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying incoming requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.IncomingRequest{}
	for rows.Next() {
		ir := &models.IncomingRequest{}
		if err := rows.Scan(&ir.ID, &ir.ListingID, &ir.Status, &ir.CreatedAt, &ir.BookTitle, &ir.CourseName, &ir.BorrowerName); err != nil {
			return nil, fmt.Errorf("error scanning incoming request: %w", err)
		}
		requests = append(requests, ir)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating incoming requests: %w", err)
	}
	return requests, nil
}

// ListOutgoing returns borrowerID's requests in any status, newest first
func (r *RentalRequestRepository) ListOutgoing(ctx context.Context, borrowerID int64) ([]*models.OutgoingRequest, error) {
	sql, args, err := r.sb.Select(
		"rr.id", "rr.listing_id", "rr.status", "rr.created_at", "l.book_title", "l.course_name",
	).
		From("rental_requests rr").
		Join("listings l ON rr.listing_id = l.id").
		Where(squirrel.Eq{"rr.borrower_id": borrowerID}).
		OrderBy("rr.created_at DESC", "rr.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build outgoing requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying outgoing requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.OutgoingRequest{}
	for rows.Next() {
		or := &models.OutgoingRequest{}
		if err := rows.Scan(&or.ID, &or.ListingID, &or.Status, &or.CreatedAt, &or.BookTitle, &or.CourseName); err != nil {
			return nil, fmt.Errorf("error scanning outgoing request: %w", err)
		}
		requests = append(requests, or)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outgoing requests: %w", err)
	}
	return requests, nil
}

// OwnershipCheck inspects a locked request before it is transitioned
type OwnershipCheck func(ownership *models.RequestOwnership) error

// Respond locks the request and its listing, runs check, then applies decision
// in the same transaction. ACCEPTED also marks the listing LENT and rejects every
// other pending request on it.
func (r *RentalRequestRepository) Respond(ctx context.Context, requestID int64, decision models.RequestStatus, check OwnershipCheck) error {
	lockSQL, lockArgs, err := r.sb.Select("rr.id", "rr.listing_id", "l.lender_id", "rr.status").
		From("rental_requests rr").
		Join("listings l ON rr.listing_id = l.id").
		Where(squirrel.Eq{"rr.id": requestID}).
		Suffix("FOR UPDATE OF rr, l").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build lock request query: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		own := &models.RequestOwnership{}
		if err := tx.QueryRow(ctx, lockSQL, lockArgs...).Scan(&own.RequestID, &own.ListingID, &own.LenderID, &own.Status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrRentalRequestNotFound
			}
			return fmt.Errorf("error locking rental request: %w", err)
		}

		if err := check(own); err != nil {
			return err
		}

		if err := r.setRequestStatus(ctx, tx, squirrel.Eq{"id": requestID}, decision); err != nil {
			return err
		}

		if decision != models.RequestAccepted {
			return nil
		}

		listingSQL, listingArgs, err := r.sb.Update("listings").
			Set("status", string(models.ListingLent)).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": own.ListingID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lend listing query: %w", err)
		}
		if _, err := tx.Exec(ctx, listingSQL, listingArgs...); err != nil {
			return fmt.Errorf("error marking listing lent: %w", err)
		}

		return r.setRequestStatus(ctx, tx, squirrel.Eq{
			"listing_id": own.ListingID,
			"status":     string(models.RequestPending),
		}, models.RequestRejected)
	})
}

func (r *RentalRequestRepository) setRequestStatus(ctx context.Context, tx pgx.Tx, where squirrel.Eq, status models.RequestStatus) error {
	sql, args, err := r.sb.Update("rental_requests").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(where).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build request status update: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error updating rental request status: %w", err)
	}
	return nil
}
