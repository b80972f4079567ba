package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/vitbooks/exchange/internal/app/models"
	"github.com/vitbooks/exchange/internal/db"
	"github.com/vitbooks/exchange/internal/pkg/apperrors"
	"github.com/vitbooks/exchange/internal/pkg/dberrors"
	"github.com/vitbooks/exchange/internal/pkg/logger"
)

var listingColumns = []string{
	"id", "lender_id", "item_type", "book_title", "book_author", "course_name", "course_code",
	"modules_included", "contact_details", "collection_point", "photo_url", "status",
	"created_at", "updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListingRepository handles listing database operations
type ListingRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewListingRepository creates a new ListingRepository
func NewListingRepository(conn db.DBTX) *ListingRepository {
	return &ListingRepository{
		db: conn,
		sb: psql,
	}
}

func scanListing(row rowScanner) (*models.Listing, error) {
	l := &models.Listing{}
	err := row.Scan(
		&l.ID, &l.LenderID, &l.ItemType, &l.BookTitle, &l.BookAuthor, &l.CourseName, &l.CourseCode,
		&l.ModulesIncluded, &l.ContactDetails, &l.CollectionPoint, &l.PhotoURL, &l.Status,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// buildListQuery builds the public feed query for filter
func (r *ListingRepository) buildListQuery(filter models.ListingFilter) (string, []interface{}, error) {
	q := r.sb.Select(listingColumns...).
		From("listings").
		Where(squirrel.Eq{"status": string(models.ListingAvailable)})

	if filter.ItemType != "" {
		q = q.Where(squirrel.Eq{"item_type": filter.ItemType})
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"book_title": pattern},
			squirrel.ILike{"course_name": pattern},
			squirrel.ILike{"course_code": pattern},
		})
	}

	if filter.Sort == models.SortOldest {
		q = q.OrderBy("created_at ASC", "id ASC")
	} else {
		q = q.OrderBy("created_at DESC", "id DESC")
	}

	return q.ToSql()
}

// List returns available listings matching filter
func (r *ListingRepository) List(ctx context.Context, filter models.ListingFilter) ([]*models.Listing, error) {
	sql, args, err := r.buildListQuery(filter)
	if err != nil {
		logger.Error().Err(err).Msg("Error building list listings SQL")
		return nil, fmt.Errorf("failed to build list listings query: %w", err)
	}

	return r.queryListings(ctx, sql, args)
}

// ListByLender returns every listing of lenderID, newest first, regardless of status
func (r *ListingRepository) ListByLender(ctx context.Context, lenderID int64) ([]*models.Listing, error) {
	sql, args, err := r.sb.Select(listingColumns...).
		From("listings").
		Where(squirrel.Eq{"lender_id": lenderID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lender listings query: %w", err)
	}

	return r.queryListings(ctx, sql, args)
}

func (r *ListingRepository) queryListings(ctx context.Context, sql string, args []interface{}) ([]*models.Listing, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing listings query")
		return nil, fmt.Errorf("error querying listings: %w", err)
	}
	defer rows.Close()

	listings := []*models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning listing row: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listing rows: %w", err)
	}

	return listings, nil
}

// GetByID retrieves a listing by ID in any status
func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	sql, args, err := r.sb.Select(listingColumns...).
		From("listings").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get listing query: %w", err)
	}

	l, err := scanListing(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrListingNotFound
		}
		logger.Error().Err(err).Int64("listingID", id).Msg("Error scanning listing row")
		return nil, fmt.Errorf("error getting listing by ID: %w", err)
	}

	return l, nil
}

// Create inserts listing and fills in its generated fields
func (r *ListingRepository) Create(ctx context.Context, l *models.Listing) error {
	sql, args, err := r.sb.Insert("listings").
		Columns("lender_id", "item_type", "book_title", "book_author", "course_name", "course_code",
			"modules_included", "contact_details", "collection_point", "photo_url").
		Values(l.LenderID, l.ItemType, l.BookTitle, l.BookAuthor, l.CourseName, l.CourseCode,
			l.ModulesIncluded, l.ContactDetails, l.CollectionPoint, l.PhotoURL).
		Suffix("RETURNING id, status, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create listing query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&l.ID, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if dberrors.IsValueTooLong(err) {
			return apperrors.ErrFieldTooLong
		}
		logger.Error().Err(err).Int64("lenderID", l.LenderID).Msg("Error executing create listing query")
		return fmt.Errorf("error creating listing: %w", err)
	}

	return nil
}

// Update replaces every mutable column of listing and bumps updated_at
func (r *ListingRepository) Update(ctx context.Context, l *models.Listing) error {
	sql, args, err := r.sb.Update("listings").
		Set("item_type", l.ItemType).
		Set("book_title", l.BookTitle).
		Set("book_author", l.BookAuthor).
		Set("course_name", l.CourseName).
		Set("course_code", l.CourseCode).
		Set("modules_included", l.ModulesIncluded).
		Set("contact_details", l.ContactDetails).
		Set("collection_point", l.CollectionPoint).
		Set("photo_url", l.PhotoURL).
		Set("status", string(l.Status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": l.ID}).
		Suffix("RETURNING lender_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update listing query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&l.LenderID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrListingNotFound
		}
		if dberrors.IsValueTooLong(err) {
			return apperrors.ErrFieldTooLong
		}
		logger.Error().Err(err).Int64("listingID", l.ID).Msg("Error executing update listing query")
		return fmt.Errorf("error updating listing: %w", err)
	}

	return nil
}

// Delete removes a listing; its rental requests go with it
func (r *ListingRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("listings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete listing query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("listingID", id).Msg("Error executing delete listing query")
		return fmt.Errorf("error deleting listing: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrListingNotFound
	}

	return nil
}
