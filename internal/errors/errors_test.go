package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type transitionError struct {
	From string
}

func (e transitionError) Error() string { return "cannot leave " + e.From }

func TestNew(t *testing.T) {
	err := New("test error")
	assert.EqualError(t, err, "test error")
}

func TestWrap(t *testing.T) {
	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(ErrNotFound, "order not found")
		assert.EqualError(t, wrapped, "order not found: not found")
		assert.True(t, errors.Is(wrapped, ErrNotFound))
	})

	t.Run("wrap nil error", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "wrapped"))
	})

	t.Run("wrap twice keeps the chain", func(t *testing.T) {
		wrapped := Wrap(Wrap(ErrConflict, "invalid transition"), "failed to cancel order")
		assert.True(t, Is(wrapped, ErrConflict))
		assert.False(t, Is(wrapped, ErrNotFound))
	})
}

func TestAs(t *testing.T) {
	err := Wrap(transitionError{From: "CONFIRMED"}, "reactor")

	var target transitionError
	assert.True(t, As(err, &target))
	assert.Equal(t, "CONFIRMED", target.From)
}
