package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindReturnsFirstMatch(t *testing.T) {
	v, ok := From([]int{1, 4, 6, 8}).Find(func(n int) bool { return n%2 == 0 })
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	_, ok = From([]int{1, 3}).Find(func(n int) bool { return n > 10 })
	assert.False(t, ok)
}

func TestFilterCollect(t *testing.T) {
	it := From([]int{1, 2, 3, 4, 5}).Filter(func(n int) bool { return n > 2 })
	assert.Equal(t, []int{3, 4, 5}, it.Collect())
	assert.Equal(t, []int{3, 4, 5}, it.Collect(), "iterators are reusable")

	assert.NotNil(t, From[int](nil).Collect())
	assert.Empty(t, From[int](nil).Collect())
}

func TestRangeStopsEarly(t *testing.T) {
	var seen []int
	for v := range From([]int{1, 2, 3, 4}).Filter(func(n int) bool { return n != 2 }).Seq() {
		seen = append(seen, v)
		if v == 3 {
			break
		}
	}
	assert.Equal(t, []int{1, 3}, seen)
}

func TestMap(t *testing.T) {
	lengths := Map(From([]string{"aa", "b"}), func(s string) int { return len(s) }).Collect()
	assert.Equal(t, []int{2, 1}, lengths)

	var first int
	for n := range Map(From([]string{"abc", "de"}), func(s string) int { return len(s) }).Seq() {
		first = n
		break
	}
	assert.Equal(t, 3, first)
}

func TestFromCapturesSliceHeader(t *testing.T) {
	data := []int{1, 2}
	it := From(data)
	data = append(data, 3)
	assert.Equal(t, []int{1, 2}, it.Collect())
	assert.Len(t, data, 3)
}
