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
)

// OTPRepository stores pending login challenges, one per email
type OTPRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewOTPRepository creates a new OTPRepository
func NewOTPRepository(conn db.DBTX) *OTPRepository {
	return &OTPRepository{
		db: conn,
		sb: psql,
	}
}

// Replace discards any challenge for the email and stores challenge in its place
func (r *OTPRepository) Replace(ctx context.Context, challenge *models.OTPChallenge) error {
	deleteSQL, deleteArgs, err := r.sb.Delete("otp").Where(squirrel.Eq{"email": challenge.Email}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete otp query: %w", err)
	}

	insertSQL, insertArgs, err := r.sb.Insert("otp").
		Columns("email", "otp_hash", "expires_at").
		Values(challenge.Email, challenge.OTPHash, challenge.ExpiresAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert otp query: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
			return fmt.Errorf("error deleting previous otp: %w", err)
		}
		if err := tx.QueryRow(ctx, insertSQL, insertArgs...).Scan(&challenge.ID, &challenge.CreatedAt); err != nil {
			return fmt.Errorf("error inserting otp: %w", err)
		}
		return nil
	})
}

// GetByEmail returns the pending challenge for email
func (r *OTPRepository) GetByEmail(ctx context.Context, email string) (*models.OTPChallenge, error) {
	sql, args, err := r.sb.Select("id", "email", "otp_hash", "expires_at", "created_at").
		From("otp").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get otp query: %w", err)
	}

	c := &models.OTPChallenge{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Email, &c.OTPHash, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOTPNotFound
		}
		return nil, fmt.Errorf("error getting otp: %w", err)
	}

	return c, nil
}

// DeleteByEmail removes the challenge for email, if any
func (r *OTPRepository) DeleteByEmail(ctx context.Context, email string) error {
	sql, args, err := r.sb.Delete("otp").Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete otp query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting otp: %w", err)
	}
	return nil
}
