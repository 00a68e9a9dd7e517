package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorClassification(t *testing.T) {
	err := validationErrorf("unknown step index %d", 7)
	require.Error(t, err)
	assert.Equal(t, "unknown step index 7", err.Error())
	assert.True(t, IsValidation(err))
	assert.False(t, IsTransient(err))

	// Classification survives wrapping.
	wrapped := fmt.Errorf("complete step: %w", err)
	assert.True(t, IsValidation(wrapped))

	var ve *ValidationError
	require.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "unknown step index 7", ve.Message)
}

func TestTransientErrorClassification(t *testing.T) {
	cause := errors.New("connection reset")
	err := transientError("list wallets", cause)
	require.Error(t, err)
	assert.Equal(t, "list wallets: connection reset", err.Error())
	assert.True(t, IsTransient(err))
	assert.False(t, IsValidation(err))

	// The underlying store error stays reachable.
	assert.ErrorIs(t, err, cause)

	var te *TransientError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "list wallets", te.Op)
}

func TestErrWalletExistsIsNeitherKind(t *testing.T) {
	// Handlers match it with errors.Is and map it to 409 themselves.
	assert.False(t, IsValidation(ErrWalletExists))
	assert.False(t, IsTransient(ErrWalletExists))
	assert.ErrorIs(t, fmt.Errorf("connect: %w", ErrWalletExists), ErrWalletExists)
}
