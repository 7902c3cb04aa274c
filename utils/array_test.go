package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunks(t *testing.T) {
	assert.Nil(t, Chunks([]int{}, 3))
	assert.Equal(t, [][]int{{1, 2, 3}}, Chunks([]int{1, 2, 3}, 3))
	assert.Equal(t, [][]int{{1, 2, 3}, {4}}, Chunks([]int{1, 2, 3, 4}, 3))
	assert.Equal(t, [][]int{{1}, {2}, {3}}, Chunks([]int{1, 2, 3}, 1))
}

func TestValuesFunc(t *testing.T) {
	doubled := ValuesFunc([]int{1, 2, 3}, func(x int) int { return x * 2 })
	assert.Equal(t, []int{2, 4, 6}, doubled)

	evens := ValuesFunc([]int{1, 2, 3, 4}, func(x int) int { return x }, func(x int) bool { return x%2 == 0 })
	assert.Equal(t, []int{2, 4}, evens)
}
