package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), MinorUnits(19.99))
	assert.Equal(t, int64(10000), MinorUnits(100))
	assert.Equal(t, int64(33), MinorUnits(0.11+0.11+0.11))
	assert.Equal(t, int64(0), MinorUnits(0))
}
