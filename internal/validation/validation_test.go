package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateServices(t *testing.T) {
	var called []string
	checks := map[string]Check{
		"database": func(context.Context) error { called = append(called, "database"); return nil },
		"redis":    func(context.Context) error { called = append(called, "redis"); return errors.New("connection refused") },
	}

	t.Run("nothing required", func(t *testing.T) {
		called = nil
		require.NoError(t, NewServiceValidator(nil, checks).ValidateServices(context.Background()))
		assert.Empty(t, called)
	})

	t.Run("all healthy", func(t *testing.T) {
		called = nil
		sv := NewServiceValidator([]string{" Database ", "database", ""}, checks)
		require.NoError(t, sv.ValidateServices(context.Background()))
		assert.Equal(t, []string{"database"}, called)
	})

	t.Run("failing check", func(t *testing.T) {
		err := NewServiceValidator([]string{"database", "redis"}, checks).ValidateServices(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"redis"`)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("unknown service", func(t *testing.T) {
		err := NewServiceValidator([]string{"gorse"}, checks).ValidateServices(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database, redis")
	})
}
