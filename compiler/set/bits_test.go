package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBits(t *testing.T) {
	s := Of(1, 3, 70)

	assert.True(t, s.IsSet(1))
	assert.True(t, s.IsSet(70))
	assert.False(t, s.IsSet(2))
	assert.False(t, s.IsSet(200))

	var got []int
	s.Range(func(k int) bool {
		got = append(got, k)
		return true
	})

	assert.Equal(t, []int{1, 3, 70}, got)

	got = got[:0]
	s.Range(func(k int) bool {
		got = append(got, k)
		return k < 3
	})

	assert.Equal(t, []int{1, 3}, got)
}

func TestBitsZero(t *testing.T) {
	var s Bits[int]

	assert.False(t, s.IsSet(0))

	s.Range(func(k int) bool {
		t.Errorf("unexpected key %d", k)
		return true
	})

	s.SetAll(0, 63, 64)

	assert.True(t, s.IsSet(63))
	assert.True(t, s.IsSet(64))
	assert.False(t, s.IsSet(65))
}
