package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/signal-map/internal/pkg/errors"
	"github.com/signal-map/internal/usecase"
)

func TestSessionRegistry(t *testing.T) {
	registry := usecase.NewSessionRegistry(&MockDecoder{}, usecase.ViewConfig{}, zap.NewNop())

	var gauge []int
	registry.OnChange(func(active int) { gauge = append(gauge, active) })

	first := registry.Create()
	second := registry.Create()
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, 2, registry.Len())

	got, err := registry.Get(first.ID())
	require.NoError(t, err)
	assert.Same(t, first, got)

	require.NoError(t, registry.Delete(first.ID()))
	_, err = registry.Get(first.ID())
	assert.True(t, errors.HasCode(err, errors.CodeSessionNotFound))

	err = registry.Delete(first.ID())
	assert.True(t, errors.HasCode(err, errors.CodeSessionNotFound))

	assert.Equal(t, []int{1, 2, 1}, gauge)
}

func TestSessionRegistry_Sweep(t *testing.T) {
	registry := usecase.NewSessionRegistry(&MockDecoder{}, usecase.ViewConfig{}, zap.NewNop())
	view := registry.Create()

	assert.Equal(t, 0, registry.Sweep(time.Now(), time.Hour))
	assert.Equal(t, 1, registry.Len())

	assert.Equal(t, 1, registry.Sweep(time.Now().Add(2*time.Hour), time.Hour))
	assert.Equal(t, 0, registry.Len())

	_, err := registry.Get(view.ID())
	assert.True(t, errors.HasCode(err, errors.CodeSessionNotFound))
}
