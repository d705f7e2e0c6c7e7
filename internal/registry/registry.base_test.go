package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("one", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("one", 11)
	require.NoError(t, err)
	assert.False(t, isNew)

	got, ok := r.Get("one")
	assert.True(t, ok)
	assert.Equal(t, 11, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegisterRejectsEmptyName(t *testing.T) {
	r := NewRegistry[int]()
	_, err := r.Register("", 1)
	assert.Error(t, err)
}

func TestGetOrCreateRunsCreatorOnce(t *testing.T) {
	r := NewRegistry[int]()
	calls := 0
	creator := func() (int, error) {
		calls++
		return 42, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.GetOrCreate("answer", creator)
			assert.NoError(t, err)
			assert.Equal(t, 42, got)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestGetOrCreatePropagatesCreatorError(t *testing.T) {
	r := NewRegistry[int]()
	wantErr := errors.New("boom")
	_, err := r.GetOrCreate("broken", func() (int, error) { return 0, wantErr })
	assert.ErrorIs(t, err, wantErr)

	// A failed creation leaves nothing behind.
	_, ok := r.Get("broken")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	r := NewRegistry[int]()
	_, err := r.Register("one", 1)
	require.NoError(t, err)

	cleaned := false
	deleted, err := r.Clear("one", func(int) error {
		cleaned = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.True(t, cleaned)

	_, ok := r.Get("one")
	assert.False(t, ok)
}
