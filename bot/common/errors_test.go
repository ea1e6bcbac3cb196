package common

import (
	"errors"
	"fmt"
	"testing"

	"gemarcade/service"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	t.Run("wrapped service error", func(t *testing.T) {
		err := fmt.Errorf("debit 500 from 100: %w", service.ErrInsufficientFunds)

		message, known := UserMessage(err)

		assert.True(t, known)
		assert.Equal(t, "You don't have enough gems for that.", message)
	})

	t.Run("every sentinel has a message", func(t *testing.T) {
		for _, m := range userMessages {
			message, known := UserMessage(m.err)
			assert.True(t, known, m.err.Error())
			assert.NotEmpty(t, message)
		}
	})

	t.Run("unknown error", func(t *testing.T) {
		message, known := UserMessage(errors.New("connection reset"))

		assert.False(t, known)
		assert.Equal(t, "Something went wrong. Please try again later.", message)
	})
}
