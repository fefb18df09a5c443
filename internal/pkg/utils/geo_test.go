package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(0, 0))
	assert.True(t, ValidateCoordinates(-90, 180))
	assert.False(t, ValidateCoordinates(90.1, 0))
	assert.False(t, ValidateCoordinates(0, -180.5))
}

func TestMercator(t *testing.T) {
	assert.InDelta(t, 0.5, MercatorX(0), 1e-12)
	assert.InDelta(t, 0.0, MercatorX(-180), 1e-12)
	assert.InDelta(t, 0.5, MercatorY(0), 1e-12)
	assert.Less(t, MercatorY(45), MercatorY(0))
	assert.InDelta(t, 0.0, MercatorY(90), 1e-6)
	assert.InDelta(t, 1.0, MercatorY(-90), 1e-6)
}
