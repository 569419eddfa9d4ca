package event

import (
	apperrors "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/errors"
)

var (
	// ErrSerialization indicates a payload or envelope could not be encoded or decoded.
	ErrSerialization = apperrors.Wrap(apperrors.ErrInvalidInput, "event serialization failed")

	// ErrUnknownEventType indicates the event type is not part of the catalog.
	ErrUnknownEventType = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown event type")
)
