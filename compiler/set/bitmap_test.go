package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitmap(t *testing.T) {
	var s Bitmap

	assert.False(t, s.IsSet(3))
	assert.Equal(t, 0, s.Size())

	s.Set(3)
	s.Set(70)
	s.Set(3)

	assert.True(t, s.IsSet(3))
	assert.True(t, s.IsSet(70))
	assert.False(t, s.IsSet(4))
	assert.False(t, s.IsSet(1000))

	assert.Equal(t, 2, s.Size())
}

func TestMakeBitmap(t *testing.T) {
	s := MakeBitmap(130)

	s.Set(129)
	s.Set(200)

	assert.True(t, s.IsSet(129))
	assert.True(t, s.IsSet(200))
	assert.False(t, s.IsSet(128))
	assert.Equal(t, 2, s.Size())
}
