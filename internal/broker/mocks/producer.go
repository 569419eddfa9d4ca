// Package mocks provides mock implementations of the broker interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProducer is a mock implementation of broker.Producer.
type MockProducer struct {
	mock.Mock
}

// Send mocks the Send method of Producer.
func (m *MockProducer) Send(
	ctx context.Context,
	topic, key string,
	value []byte,
	headers map[string]string,
) error {
	args := m.Called(ctx, topic, key, value, headers)
	return args.Error(0)
}

// Close mocks the Close method of Producer.
func (m *MockProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}
