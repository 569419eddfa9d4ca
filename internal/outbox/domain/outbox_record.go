// Package domain defines the transactional outbox record and its status.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/event"
)

// OutboxStatus represents the delivery status of an outbox record.
type OutboxStatus string

const (
	// OutboxStatusInit is waiting for the publisher.
	OutboxStatusInit OutboxStatus = "INIT"
	// OutboxStatusPublished was acknowledged by the broker.
	OutboxStatusPublished OutboxStatus = "PUBLISHED"
	// OutboxStatusFailed was rejected by the broker or timed out. The requeuer moves it back
	// to INIT until Attempts reaches the configured maximum.
	OutboxStatusFailed OutboxStatus = "FAILED"
)

// IsTerminal reports whether the cleaner may delete records in this status.
func (s OutboxStatus) IsTerminal() bool {
	return s == OutboxStatusPublished || s == OutboxStatusFailed
}

// OutboxRecord is one event waiting for, or done with, delivery to the broker.
// The record id is the event id.
type OutboxRecord struct {
	ID            uuid.UUID
	EventType     event.EventType
	AggregateType string
	AggregateID   string
	Payload       string
	Producer      string
	TraceID       *string
	Version       string
	Status        OutboxStatus
	Attempts      int
	LastError     *string
	PublishedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Envelope builds the wire form of the record.
func (r *OutboxRecord) Envelope() event.Envelope {
	return event.Envelope{
		EventID:       r.ID.String(),
		EventType:     r.EventType,
		AggregateType: r.AggregateType,
		AggregateID:   r.AggregateID,
		OccurredAt:    r.CreatedAt,
		Producer:      r.Producer,
		TraceID:       r.TraceID,
		Version:       r.Version,
		Payload:       r.Payload,
	}
}

// Expired reports whether the cleaner deletes the record for the given cutoff: only
// terminal records created strictly before it qualify.
func (r *OutboxRecord) Expired(cutoff time.Time) bool {
	return r.Status.IsTerminal() && r.CreatedAt.Before(cutoff)
}

// MarkPublished records a broker acknowledgment.
func (r *OutboxRecord) MarkPublished(now time.Time) {
	r.Status = OutboxStatusPublished
	r.Attempts++
	r.LastError = nil
	r.PublishedAt = &now
	r.UpdatedAt = now
}

// MarkFailed records a rejected or timed out send.
func (r *OutboxRecord) MarkFailed(err error, now time.Time) {
	msg := err.Error()
	r.Status = OutboxStatusFailed
	r.Attempts++
	r.LastError = &msg
	r.UpdatedAt = now
}
