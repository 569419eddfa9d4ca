package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/database"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/testutil"
)

type orderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]*domain.Order, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, offset, limit int) ([]*domain.Order, error)
}

type integrationCase struct {
	name    string
	driver  string
	skip    func(t *testing.T)
	setup   func(t *testing.T) *sql.DB
	cleanup func(t *testing.T, db *sql.DB)
	newRepo func(db *sql.DB) orderRepository
}

func integrationCases() []integrationCase {
	return []integrationCase{
		{
			name:    "postgres",
			driver:  "postgres",
			skip:    testutil.SkipIfNoPostgres,
			setup:   testutil.SetupPostgresDB,
			cleanup: testutil.CleanupPostgresDB,
			newRepo: func(db *sql.DB) orderRepository { return NewPostgreSQLOrderRepository(db) },
		},
		{
			name:    "mysql",
			driver:  "mysql",
			skip:    testutil.SkipIfNoMySQL,
			setup:   testutil.SetupMySQLDB,
			cleanup: testutil.CleanupMySQLDB,
			newRepo: func(db *sql.DB) orderRepository { return NewMySQLOrderRepository(db) },
		},
	}
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	for _, tc := range integrationCases() {
		t.Run(tc.name, func(t *testing.T) {
			tc.skip(t)

			db := tc.setup(t)
			defer testutil.TeardownDB(t, db)
			defer tc.cleanup(t, db)

			repo := tc.newRepo(db)
			ctx := context.Background()

			order := newOrder(t)
			require.NoError(t, repo.Create(ctx, order))
			assert.Equal(t, len(order.Items), testutil.CountRows(t, db, "order_items"))

			t.Run("get by id", func(t *testing.T) {
				got, err := repo.GetByID(ctx, order.ID)
				require.NoError(t, err)
				assert.Equal(t, order.ID, got.ID)
				assert.Equal(t, order.BuyerID, got.BuyerID)
				assert.Equal(t, order.TotalPaymentAmount, got.TotalPaymentAmount)
				assert.Equal(t, order.Shipping, got.Shipping)
				assert.Equal(t, domain.OrderStatusPending, got.Status)
				require.Len(t, got.Items, len(order.Items))
			})

			t.Run("get by id not found", func(t *testing.T) {
				_, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
				assert.ErrorIs(t, err, domain.ErrOrderNotFound)
			})

			t.Run("update status inside a transaction", func(t *testing.T) {
				txManager := database.NewTxManager(db)
				err := txManager.WithTx(ctx, func(ctx context.Context) error {
					locked, err := repo.GetByIDForUpdate(ctx, order.ID)
					if err != nil {
						return err
					}
					if err := locked.ConfirmPayment(time.Now().UTC()); err != nil {
						return err
					}
					return repo.Update(ctx, locked)
				})
				require.NoError(t, err)
				assert.Equal(t, string(domain.OrderStatusPaid), testutil.GetOrderStatus(t, db, tc.driver, order.ID))
			})

			t.Run("update missing order", func(t *testing.T) {
				missing := newOrder(t)
				err := repo.Update(ctx, missing)
				assert.ErrorIs(t, err, domain.ErrOrderNotFound)
			})

			t.Run("list by buyer and product", func(t *testing.T) {
				otherID := testutil.CreateTestOrder(t, db, tc.driver, string(domain.OrderStatusPending))

				byBuyer, err := repo.ListByBuyer(ctx, order.BuyerID, 0, 10)
				require.NoError(t, err)
				require.Len(t, byBuyer, 1)
				assert.Equal(t, order.ID, byBuyer[0].ID)

				byProduct, err := repo.ListByProduct(ctx, order.Items[0].ProductID, 0, 10)
				require.NoError(t, err)
				require.Len(t, byProduct, 1)
				assert.Equal(t, order.ID, byProduct[0].ID)
				assert.NotEqual(t, otherID, byProduct[0].ID)

				empty, err := repo.ListByBuyer(ctx, order.BuyerID, 10, 10)
				require.NoError(t, err)
				assert.Empty(t, empty)
			})
		})
	}
}
