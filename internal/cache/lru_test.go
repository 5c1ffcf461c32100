package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRU_GetSet(t *testing.T) {
	c := NewLRU[[]string](2)
	k1 := Key{Kind: KindCategorySubstring, Query: "lab"}
	k2 := Key{Kind: KindNameSubstring, Query: "lab"}

	_, ok := c.Get(k1)
	assert.False(t, ok)

	c.Set(k1, []string{"X1"})
	c.Set(k2, []string{"X2"})

	v, ok := c.Get(k1)
	assert.True(t, ok)
	assert.Equal(t, []string{"X1"}, v)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2)
	a := Key{Query: "a"}
	b := Key{Query: "b"}
	d := Key{Query: "d"}

	c.Set(a, 1)
	c.Set(b, 2)
	c.Get(a) // b is now the oldest
	c.Set(d, 3)

	_, ok := c.Get(b)
	assert.False(t, ok)
	_, ok = c.Get(a)
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())

	// Overwrite keeps the size.
	c.Set(a, 10)
	v, _ := c.Get(a)
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_ZeroCapacity(t *testing.T) {
	c := NewLRU[int](0)
	c.Set(Key{Query: "a"}, 1)
	assert.Equal(t, 0, c.Len())
}

func TestLRU_InvalidateAndPurge(t *testing.T) {
	c := NewLRU[int](10)
	for i := 0; i < 4; i++ {
		c.Set(Key{Kind: KindCategorySubstring, Generation: uint64(i % 2), Query: fmt.Sprint(i)}, i)
	}

	n := c.Invalidate(func(k Key) bool { return k.Generation == 0 })
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int](16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				k := Key{Query: fmt.Sprint(i % 32)}
				c.Set(k, i)
				c.Get(k)
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "category_substring", KindCategorySubstring.String())
	assert.Equal(t, "name_substring", KindNameSubstring.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
