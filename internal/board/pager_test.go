package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPager_Bounds(t *testing.T) {
	p := NewPager(0)
	p.Sync("", 12)
	require.Equal(t, 3, p.TotalPages())

	items := make([]int, 12)
	for i := range items {
		items[i] = i
	}
	require.Equal(t, []int{0, 1, 2, 3, 4}, Window(p, items))

	p.Next()
	p.Next()
	p.Next()
	require.Equal(t, 3, p.Page())
	require.Equal(t, []int{10, 11}, Window(p, items))

	p.Prev()
	require.Equal(t, 2, p.Page())
	p.First()
	require.Equal(t, 1, p.Page())
	p.Prev()
	require.Equal(t, 1, p.Page())
	p.Last()
	require.Equal(t, 3, p.Page())
}

func TestPager_ResetsOnChange(t *testing.T) {
	p := NewPager(5)
	p.Sync("", 12)
	p.Last()

	p.Sync("", 12)
	require.Equal(t, 3, p.Page())

	p.Sync("x", 12)
	require.Equal(t, 1, p.Page())

	p.Last()
	p.Sync("x", 11)
	require.Equal(t, 1, p.Page())
}

func TestPager_Empty(t *testing.T) {
	p := NewPager(5)
	p.Sync("", 0)
	require.Equal(t, 1, p.TotalPages())
	require.Empty(t, Window(p, []string{}))
}

func TestPager_PagesCoverEverything(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}
	p := NewPager(5)
	p.Sync("", len(items))

	var all []int
	for i := 0; i < p.TotalPages(); i++ {
		all = append(all, Window(p, items)...)
		p.Next()
	}
	require.Equal(t, items, all)
}
