// Package cmap provides a concurrent-safe sharded map keyed by string.
package cmap

import (
	"fmt"
	"sort"
	"sync"
	"testing"
)

func TestMap_BasicOperations(t *testing.T) {
	m := New[int]()

	m.Set("a", 1)
	m.Set("b", 2)

	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if !m.Has("b") {
		t.Error("Has(b) should be true")
	}
	if m.Has("missing") {
		t.Error("Has(missing) should be false")
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}

	m.Delete("a")
	if m.Has("a") {
		t.Error("Has(a) should be false after Delete")
	}
}

func TestMap_Pop(t *testing.T) {
	m := New[string]()
	m.Set("k", "v")

	v, ok := m.Pop("k")
	if !ok || v != "v" {
		t.Errorf("Pop(k) = %q, %v; want %q, true", v, ok, "v")
	}
	if _, ok := m.Pop("k"); ok {
		t.Error("Second Pop(k) should report absent")
	}
}

func TestMap_Range(t *testing.T) {
	m := New[int]()
	want := []string{"a", "b", "c"}
	for i, k := range want {
		m.Set(k, i)
	}

	var got []string
	m.Range(func(key string, _ int) bool {
		got = append(got, key)
		return true
	})
	sort.Strings(got)

	if len(got) != len(want) {
		t.Fatalf("Range visited %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMap_RangeStop(t *testing.T) {
	m := New[int]()
	for i := 0; i < 10; i++ {
		m.Set(fmt.Sprintf("k%d", i), i)
	}

	visited := 0
	m.Range(func(string, int) bool {
		visited++
		return false
	})

	if visited != 1 {
		t.Errorf("Range visited %d keys after stop, want 1", visited)
	}
}

func TestNewWithShards_InvalidCount(t *testing.T) {
	// Non-power-of-2 counts fall back to the default.
	m := NewWithShards[int](7)
	if m.ShardCount() != DefaultShardCount {
		t.Errorf("ShardCount() = %d, want %d", m.ShardCount(), DefaultShardCount)
	}
}

func TestMap_ConcurrentAccess(t *testing.T) {
	m := New[int]()
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("g%d-k%d", g, i)
				m.Set(key, i)
				m.Get(key)
				if i%2 == 0 {
					m.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if m.Count() != 8*50 {
		t.Errorf("Count() = %d, want %d", m.Count(), 8*50)
	}
}
