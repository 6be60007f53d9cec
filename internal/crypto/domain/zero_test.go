package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	key := bytes.Repeat([]byte{0xAB}, KeySize)
	view := key[8:16]

	Zero(key)

	assert.Equal(t, make([]byte, KeySize), key)
	assert.Equal(t, make([]byte, 8), view, "slices sharing the array are cleared too")
	assert.NotPanics(t, func() { Zero(nil) })
	assert.NotPanics(t, func() { Zero([]byte{}) })
}
