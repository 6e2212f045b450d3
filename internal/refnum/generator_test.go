package refnum

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var formatPattern = regexp.MustCompile(`^GB\d+[A-Z0-9]{5}$`)

func TestGenerate_Format(t *testing.T) {
	g := New()

	for i := 0; i < 100; i++ {
		ref := g.Generate()
		assert.Regexp(t, formatPattern, ref)
		assert.True(t, IsValid(ref))
	}
}

func TestGenerate_SameMillisecondPairwiseDistinct(t *testing.T) {
	g := New()
	frozen := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return frozen }

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		ref := g.Generate()
		_, dup := seen[ref]
		require.False(t, dup, "duplicate reference %s at iteration %d", ref, i)
		seen[ref] = struct{}{}
	}
}

func TestGenerate_ConcurrentDistinct(t *testing.T) {
	g := New()

	const goroutines = 8
	const perGoroutine = 500

	var mu sync.Mutex
	seen := make(map[string]struct{}, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perGoroutine)
			for j := 0; j < perGoroutine; j++ {
				local = append(local, g.Generate())
			}
			mu.Lock()
			for _, ref := range local {
				seen[ref] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("GB1756468800000A1B2C"))
	assert.False(t, IsValid("XX1756468800000A1B2C"))
	assert.False(t, IsValid("GBA1B2C"))
	assert.False(t, IsValid("GB17564688abcdeA1B2C"))
	assert.False(t, IsValid("GB1756468800000a1b2c"))
}
