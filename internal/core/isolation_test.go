package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsolationRegistryCreatesOncePerID(t *testing.T) {
	registry := NewIsolationRegistry()

	first := registry.GetOrCreate("shared")
	second := registry.GetOrCreate("shared")
	require.Same(t, first, second)

	other := registry.GetOrCreate("other")
	require.NotSame(t, first, other)

	got, ok := registry.Get("shared")
	require.True(t, ok)
	require.Same(t, first, got)

	_, ok = registry.Get("absent")
	require.False(t, ok)
}

func TestIsolationRegistryConcurrentCreation(t *testing.T) {
	registry := NewIsolationRegistry()

	const goroutines = 32
	units := make([]*LoadingUnit, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			units[slot] = registry.GetOrCreate("raced")
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		require.Same(t, units[0], units[i])
	}
}

func TestLoadingUnitAccumulatesPaths(t *testing.T) {
	unit := &LoadingUnit{id: "u"}
	unit.AddPath("/cache/a.jar")
	unit.AddPath("/cache/b.jar")

	require.Equal(t, "u", unit.ID())
	require.Equal(t, []string{"/cache/a.jar", "/cache/b.jar"}, unit.Paths())

	// Snapshot must be detached from internal state.
	paths := unit.Paths()
	paths[0] = "mutated"
	require.Equal(t, "/cache/a.jar", unit.Paths()[0])
}
