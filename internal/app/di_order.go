package app

import (
	"fmt"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/database"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/client"
	orderHTTP "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/http"
	orderRepository "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/repository"
	orderUseCase "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/usecase"
)

// OrderRepository returns the order repository based on database driver.
func (c *Container) OrderRepository() (orderUseCase.OrderRepository, error) {
	var err error
	c.orderRepositoryInit.Do(func() {
		c.orderRepository, err = c.initOrderRepository()
		if err != nil {
			c.initErrors["orderRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orderRepository"]; exists {
		return nil, storedErr
	}
	return c.orderRepository, nil
}

// Collaborators returns the HTTP client for the user and product services.
func (c *Container) Collaborators() *client.HTTPClient {
	c.collaboratorsInit.Do(func() {
		c.collaborators = client.New(client.Config{
			UserServiceURL:    c.config.UserServiceURL,
			ProductServiceURL: c.config.ProductServiceURL,
			Timeout:           c.config.ClientTimeout,
		})
	})
	return c.collaborators
}

// OrderUseCase returns the order use case.
func (c *Container) OrderUseCase() (orderUseCase.OrderUseCase, error) {
	var err error
	c.orderUseCaseInit.Do(func() {
		c.orderUseCase, err = c.initOrderUseCase()
		if err != nil {
			c.initErrors["orderUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orderUseCase"]; exists {
		return nil, storedErr
	}
	return c.orderUseCase, nil
}

// SagaReactor returns the reactor that applies inbound saga events to orders.
func (c *Container) SagaReactor() (*orderUseCase.SagaReactor, error) {
	var err error
	c.sagaReactorInit.Do(func() {
		c.sagaReactor, err = c.initSagaReactor()
		if err != nil {
			c.initErrors["sagaReactor"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sagaReactor"]; exists {
		return nil, storedErr
	}
	return c.sagaReactor, nil
}

// OrderHandler returns the order HTTP handler.
func (c *Container) OrderHandler() (*orderHTTP.OrderHandler, error) {
	var err error
	c.orderHandlerInit.Do(func() {
		c.orderHandler, err = c.initOrderHandler()
		if err != nil {
			c.initErrors["orderHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orderHandler"]; exists {
		return nil, storedErr
	}
	return c.orderHandler, nil
}

// initOrderRepository creates the order repository for the configured SQL dialect.
func (c *Container) initOrderRepository() (orderUseCase.OrderRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for order repository: %w", err)
	}

	dialect, err := database.Dialect(c.config.DBDriver)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case database.DialectMySQL:
		return orderRepository.NewMySQLOrderRepository(db), nil
	default:
		return orderRepository.NewPostgreSQLOrderRepository(db), nil
	}
}

// initOrderUseCase creates the order use case with all its dependencies.
func (c *Container) initOrderUseCase() (orderUseCase.OrderUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for order use case: %w", err)
	}

	orderRepo, err := c.OrderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get order repository for order use case: %w", err)
	}

	writer, err := c.OutboxWriter()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox writer for order use case: %w", err)
	}

	collaborators := c.Collaborators()

	baseUseCase := orderUseCase.NewOrderUseCase(
		txManager,
		orderRepo,
		writer,
		collaborators,
		collaborators,
		c.Clock(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for order use case: %w", err)
		}
		return orderUseCase.NewOrderUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initSagaReactor creates the saga reactor with all its dependencies.
func (c *Container) initSagaReactor() (*orderUseCase.SagaReactor, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for saga reactor: %w", err)
	}

	orderRepo, err := c.OrderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get order repository for saga reactor: %w", err)
	}

	writer, err := c.OutboxWriter()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox writer for saga reactor: %w", err)
	}

	dedup, err := c.Deduplicator()
	if err != nil {
		return nil, fmt.Errorf("failed to get inbox for saga reactor: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for saga reactor: %w", err)
	}

	return orderUseCase.NewSagaReactor(
		txManager,
		orderRepo,
		writer,
		dedup,
		c.Clock(),
		businessMetrics,
		c.Logger(),
	), nil
}

// initOrderHandler creates the order HTTP handler with all its dependencies.
func (c *Container) initOrderHandler() (*orderHTTP.OrderHandler, error) {
	useCase, err := c.OrderUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get order use case for order handler: %w", err)
	}

	return orderHTTP.NewOrderHandler(useCase, c.Logger()), nil
}
