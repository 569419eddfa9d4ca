package domain

import (
	apperrors "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/errors"
)

var (
	// ErrOrderNotFound indicates the order does not exist.
	ErrOrderNotFound = apperrors.Wrap(apperrors.ErrNotFound, "order not found")

	// ErrInvalidTransition indicates the command is not allowed in the order's current status.
	ErrInvalidTransition = apperrors.Wrap(apperrors.ErrConflict, "invalid order status transition")

	// ErrTransitionNoOp indicates the order already is in the command's target status.
	ErrTransitionNoOp = apperrors.Wrap(apperrors.ErrConflict, "order status transition is a no-op")

	// ErrEmptyOrder indicates an order without items.
	ErrEmptyOrder = apperrors.Wrap(apperrors.ErrInvalidInput, "order must have at least one item")
)
