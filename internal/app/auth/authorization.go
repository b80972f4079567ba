package auth

import (
	"context"

	"github.com/vitbooks/exchange/internal/pkg/apperrors"
)

// ErrNotOwner is returned when the caller does not own the resource they act on
var ErrNotOwner = apperrors.NewForbiddenError("Not authorized.")

// Owned is implemented by resources that belong to a single user
type Owned interface {
	OwnerID() int64
}

// RequireOwner returns ErrNotOwner unless callerID owns resource
func RequireOwner(resource Owned, callerID int64) error {
	if resource == nil || resource.OwnerID() != callerID {
		return ErrNotOwner
	}
	return nil
}

// OwnershipGuard loads a resource and checks that the caller owns it before
// a mutation is allowed
type OwnershipGuard[T Owned] struct {
	load func(ctx context.Context, id int64) (T, error)
}

// NewOwnershipGuard creates a guard backed by load
func NewOwnershipGuard[T Owned](load func(ctx context.Context, id int64) (T, error)) *OwnershipGuard[T] {
	return &OwnershipGuard[T]{load: load}
}

// Authorize returns the resource with the given ID when callerID owns it.
// Errors from load are returned unchanged so not-found stays distinguishable.
func (g *OwnershipGuard[T]) Authorize(ctx context.Context, id, callerID int64) (T, error) {
	resource, err := g.load(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := RequireOwner(resource, callerID); err != nil {
		var zero T
		return zero, err
	}

	return resource, nil
}
