// Package repository provides data persistence implementations for outbox records.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/database"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/outbox/domain"
)

const postgresSelectColumns = `id, event_type, aggregate_type, aggregate_id, payload, producer, trace_id,
	version, status, attempts, last_error, published_at, created_at, updated_at`

// PostgreSQLOutboxRepository handles outbox record persistence for PostgreSQL
type PostgreSQLOutboxRepository struct {
	db *sql.DB
}

// NewPostgreSQLOutboxRepository creates a new PostgreSQLOutboxRepository
func NewPostgreSQLOutboxRepository(db *sql.DB) *PostgreSQLOutboxRepository {
	return &PostgreSQLOutboxRepository{
		db: db,
	}
}

// Create inserts a new outbox record through the caller's transaction, if any.
func (r *PostgreSQLOutboxRepository) Create(ctx context.Context, record *domain.OutboxRecord) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO order_outbox (id, event_type, aggregate_type, aggregate_id, payload, producer,
			  trace_id, version, status, attempts, last_error, published_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := querier.ExecContext(ctx, query, record.ID, record.EventType, record.AggregateType,
		record.AggregateID, record.Payload, record.Producer, record.TraceID, record.Version,
		record.Status, record.Attempts, record.LastError, record.PublishedAt, record.CreatedAt,
		record.UpdatedAt)

	return err
}

// GetInitBatchForUpdate locks up to limit INIT records, oldest first. Rows locked by
// another publisher are skipped, so concurrent instances never share a batch. The locks
// are held until the caller's transaction ends.
func (r *PostgreSQLOutboxRepository) GetInitBatchForUpdate(
	ctx context.Context,
	limit int,
) ([]*domain.OutboxRecord, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresSelectColumns + `
			  FROM order_outbox
			  WHERE status = $1
			  ORDER BY created_at ASC
			  LIMIT $2
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.OutboxStatusInit, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var records []*domain.OutboxRecord
	for rows.Next() {
		var record domain.OutboxRecord

		err := rows.Scan(&record.ID, &record.EventType, &record.AggregateType, &record.AggregateID,
			&record.Payload, &record.Producer, &record.TraceID, &record.Version, &record.Status,
			&record.Attempts, &record.LastError, &record.PublishedAt, &record.CreatedAt, &record.UpdatedAt)
		if err != nil {
			return nil, err
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Update persists the delivery outcome of a record.
func (r *PostgreSQLOutboxRepository) Update(ctx context.Context, record *domain.OutboxRecord) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE order_outbox
			  SET status = $1, attempts = $2, last_error = $3, published_at = $4, updated_at = $5
			  WHERE id = $6`

	_, err := querier.ExecContext(ctx, query, record.Status, record.Attempts, record.LastError,
		record.PublishedAt, record.UpdatedAt, record.ID)

	return err
}

// DeleteTerminalOlderThan deletes PUBLISHED and FAILED records created before cutoff.
// INIT records are never deleted.
func (r *PostgreSQLOutboxRepository) DeleteTerminalOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM order_outbox WHERE status IN ($1, $2) AND created_at < $3`

	result, err := querier.ExecContext(ctx, query, domain.OutboxStatusPublished,
		domain.OutboxStatusFailed, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// CountTerminalOlderThan counts the records DeleteTerminalOlderThan would delete.
func (r *PostgreSQLOutboxRepository) CountTerminalOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM order_outbox WHERE status IN ($1, $2) AND created_at < $3`

	var count int64
	err := querier.QueryRowContext(ctx, query, domain.OutboxStatusPublished,
		domain.OutboxStatusFailed, cutoff).Scan(&count)

	return count, err
}

// RequeueFailed moves FAILED records with fewer than maxAttempts attempts back to INIT.
func (r *PostgreSQLOutboxRepository) RequeueFailed(
	ctx context.Context,
	maxAttempts int,
	now time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE order_outbox SET status = $1, updated_at = $2
			  WHERE status = $3 AND attempts < $4`

	result, err := querier.ExecContext(ctx, query, domain.OutboxStatusInit, now,
		domain.OutboxStatusFailed, maxAttempts)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// CountExhausted counts FAILED records that used up all attempts.
func (r *PostgreSQLOutboxRepository) CountExhausted(ctx context.Context, maxAttempts int) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM order_outbox WHERE status = $1 AND attempts >= $2`

	var count int64
	err := querier.QueryRowContext(ctx, query, domain.OutboxStatusFailed, maxAttempts).Scan(&count)

	return count, err
}
