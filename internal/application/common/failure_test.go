package common

import (
	"errors"
	"testing"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFail(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	log := zap.New(core)

	t.Run("domain errors pass through", func(t *testing.T) {
		err := Fail(log, "create account", shared.ErrNotFound)
		assert.Same(t, shared.ErrNotFound, err)
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("infrastructure errors are masked and logged", func(t *testing.T) {
		err := Fail(log, "create account", errors.New("pq: connection refused"))
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "OPERATION_FAILED", de.Code)
		assert.NotContains(t, de.Message, "pq:")
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "create account", logs.All()[0].ContextMap()["operation"])
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Fail(nil, "noop", nil))
	})
}

func TestNotFound(t *testing.T) {
	err := NotFound("Account")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Account not found", err.Error())
}
