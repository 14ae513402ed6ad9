package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 66.6667, RoundFloat(200.0/3.0, 4))
	assert.Equal(t, 1333.33, RoundFloat(1333.3333333, 2))
	assert.Equal(t, 0.0, RoundFloat(0, 4))
	assert.Equal(t, -2.5, RoundFloat(-2.4999, 1))
}
