package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/database"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/outbox/domain"
)

// MySQLOutboxRepository handles outbox record persistence for MySQL. Record ids are
// stored as BINARY(16).
type MySQLOutboxRepository struct {
	db *sql.DB
}

// NewMySQLOutboxRepository creates a new MySQLOutboxRepository
func NewMySQLOutboxRepository(db *sql.DB) *MySQLOutboxRepository {
	return &MySQLOutboxRepository{
		db: db,
	}
}

// Create inserts a new outbox record through the caller's transaction, if any.
func (r *MySQLOutboxRepository) Create(ctx context.Context, record *domain.OutboxRecord) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO order_outbox (id, event_type, aggregate_type, aggregate_id, payload, producer,
			  trace_id, version, status, attempts, last_error, published_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	idBytes, err := record.ID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, idBytes, record.EventType, record.AggregateType,
		record.AggregateID, record.Payload, record.Producer, record.TraceID, record.Version,
		record.Status, record.Attempts, record.LastError, record.PublishedAt, record.CreatedAt,
		record.UpdatedAt)

	return err
}

// GetInitBatchForUpdate locks up to limit INIT records, oldest first, skipping rows
// locked by another publisher.
func (r *MySQLOutboxRepository) GetInitBatchForUpdate(
	ctx context.Context,
	limit int,
) ([]*domain.OutboxRecord, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, event_type, aggregate_type, aggregate_id, payload, producer, trace_id,
			  version, status, attempts, last_error, published_at, created_at, updated_at
			  FROM order_outbox
			  WHERE status = ?
			  ORDER BY created_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.OutboxStatusInit, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var records []*domain.OutboxRecord
	for rows.Next() {
		var record domain.OutboxRecord
		var idBytes []byte

		err := rows.Scan(&idBytes, &record.EventType, &record.AggregateType, &record.AggregateID,
			&record.Payload, &record.Producer, &record.TraceID, &record.Version, &record.Status,
			&record.Attempts, &record.LastError, &record.PublishedAt, &record.CreatedAt, &record.UpdatedAt)
		if err != nil {
			return nil, err
		}

		if err := record.ID.UnmarshalBinary(idBytes); err != nil {
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
func (r *MySQLOutboxRepository) Update(ctx context.Context, record *domain.OutboxRecord) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE order_outbox
			  SET status = ?, attempts = ?, last_error = ?, published_at = ?, updated_at = ?
			  WHERE id = ?`

	idBytes, err := record.ID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, record.Status, record.Attempts, record.LastError,
		record.PublishedAt, record.UpdatedAt, idBytes)

	return err
}

// DeleteTerminalOlderThan deletes PUBLISHED and FAILED records created before cutoff.
func (r *MySQLOutboxRepository) DeleteTerminalOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM order_outbox WHERE status IN (?, ?) AND created_at < ?`

	result, err := querier.ExecContext(ctx, query, domain.OutboxStatusPublished,
		domain.OutboxStatusFailed, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// CountTerminalOlderThan counts the records DeleteTerminalOlderThan would delete.
func (r *MySQLOutboxRepository) CountTerminalOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM order_outbox WHERE status IN (?, ?) AND created_at < ?`

	var count int64
	err := querier.QueryRowContext(ctx, query, domain.OutboxStatusPublished,
		domain.OutboxStatusFailed, cutoff).Scan(&count)

	return count, err
}

// RequeueFailed moves FAILED records with fewer than maxAttempts attempts back to INIT.
func (r *MySQLOutboxRepository) RequeueFailed(ctx context.Context, maxAttempts int, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE order_outbox SET status = ?, updated_at = ? WHERE status = ? AND attempts < ?`

	result, err := querier.ExecContext(ctx, query, domain.OutboxStatusInit, now,
		domain.OutboxStatusFailed, maxAttempts)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// CountExhausted counts FAILED records that used up all attempts.
func (r *MySQLOutboxRepository) CountExhausted(ctx context.Context, maxAttempts int) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM order_outbox WHERE status = ? AND attempts >= ?`

	var count int64
	err := querier.QueryRowContext(ctx, query, domain.OutboxStatusFailed, maxAttempts).Scan(&count)

	return count, err
}
