package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/database"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/event"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/outbox/domain"
)

var outboxColumns = []string{
	"id", "event_type", "aggregate_type", "aggregate_id", "payload", "producer", "trace_id",
	"version", "status", "attempts", "last_error", "published_at", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func newRecord() *domain.OutboxRecord {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.OutboxRecord{
		ID:            uuid.Must(uuid.NewV7()),
		EventType:     event.OrderCreated,
		AggregateType: event.AggregateTypeOrder,
		AggregateID:   uuid.NewString(),
		Payload:       `{"orderId":"x"}`,
		Producer:      "service-order",
		Version:       "1.0",
		Status:        domain.OutboxStatusInit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestPostgreSQLOutboxRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLOutboxRepository(db)
	record := newRecord()

	mock.ExpectExec(`INSERT INTO order_outbox`).
		WithArgs(record.ID, record.EventType, record.AggregateType, record.AggregateID, record.Payload,
			record.Producer, record.TraceID, record.Version, record.Status, 0, record.LastError,
			record.PublishedAt, record.CreatedAt, record.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), record)
	assert.NoError(t, err)
}

func TestPostgreSQLOutboxRepository_CreateUsesAmbientTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLOutboxRepository(db)
	txManager := database.NewTxManager(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO order_outbox`).WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	err := txManager.WithTx(context.Background(), func(ctx context.Context) error {
		return repo.Create(ctx, newRecord())
	})
	assert.EqualError(t, err, "insert failed")
}

func TestPostgreSQLOutboxRepository_GetInitBatchForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLOutboxRepository(db)

	first, second := newRecord(), newRecord()
	traceID := "trace-2"
	rows := sqlmock.NewRows(outboxColumns).
		AddRow(first.ID.String(), "ORDER_CREATED", "ORDER", first.AggregateID, first.Payload,
			"service-order", nil, "1.0", "INIT", 0, nil, nil, first.CreatedAt, first.UpdatedAt).
		AddRow(second.ID.String(), "ORDER_CONFIRMED", "ORDER", second.AggregateID, second.Payload,
			"service-order", traceID, "1.0", "INIT", 2, "timeout", nil, second.CreatedAt, second.UpdatedAt)

	mock.ExpectQuery(`SELECT (.+) FROM order_outbox WHERE status = \$1 ORDER BY created_at ASC LIMIT \$2 FOR UPDATE SKIP LOCKED`).
		WithArgs(domain.OutboxStatusInit, 100).
		WillReturnRows(rows)

	records, err := repo.GetInitBatchForUpdate(context.Background(), 100)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, event.OrderCreated, records[0].EventType)
	assert.Nil(t, records[0].TraceID)
	assert.Equal(t, event.OrderConfirmed, records[1].EventType)
	require.NotNil(t, records[1].TraceID)
	assert.Equal(t, traceID, *records[1].TraceID)
	assert.Equal(t, 2, records[1].Attempts)
	require.NotNil(t, records[1].LastError)
	assert.Equal(t, "timeout", *records[1].LastError)
}

func TestPostgreSQLOutboxRepository_GetInitBatchForUpdate_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLOutboxRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM order_outbox`).WillReturnError(errors.New("boom"))

	records, err := repo.GetInitBatchForUpdate(context.Background(), 10)
	assert.Error(t, err)
	assert.Nil(t, records)
}

func TestPostgreSQLOutboxRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLOutboxRepository(db)

	record := newRecord()
	record.MarkFailed(errors.New("broker down"), record.CreatedAt.Add(time.Second))

	mock.ExpectExec(`UPDATE order_outbox SET status = \$1, attempts = \$2, last_error = \$3`).
		WithArgs(domain.OutboxStatusFailed, 1, record.LastError, nil, record.UpdatedAt, record.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Update(context.Background(), record))
}

func TestPostgreSQLOutboxRepository_DeleteTerminalOlderThan(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLOutboxRepository(db)
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM order_outbox WHERE status IN \(\$1, \$2\) AND created_at < \$3`).
		WithArgs(domain.OutboxStatusPublished, domain.OutboxStatusFailed, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	count, err := repo.DeleteTerminalOlderThan(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestPostgreSQLOutboxRepository_CountTerminalOlderThan(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLOutboxRepository(db)
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM order_outbox WHERE status IN`).
		WithArgs(domain.OutboxStatusPublished, domain.OutboxStatusFailed, cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountTerminalOlderThan(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestPostgreSQLOutboxRepository_RequeueFailed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLOutboxRepository(db)
	now := time.Now()

	mock.ExpectExec(`UPDATE order_outbox SET status = \$1, updated_at = \$2 WHERE status = \$3 AND attempts < \$4`).
		WithArgs(domain.OutboxStatusInit, now, domain.OutboxStatusFailed, 5).
		WillReturnResult(sqlmock.NewResult(0, 4))

	count, err := repo.RequeueFailed(context.Background(), 5, now)

	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestPostgreSQLOutboxRepository_CountExhausted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLOutboxRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM order_outbox WHERE status = \$1 AND attempts >= \$2`).
		WithArgs(domain.OutboxStatusFailed, 5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountExhausted(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
