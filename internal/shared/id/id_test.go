package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	assert.NotEqual(t, id1.String(), id2.String())
	assert.Less(t, id1.String(), id2.String(), "monotonic entropy keeps creation order")
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{WindowPrefix, PiPSessionPrefix, RequestPrefix} {
		s := gen.GenerateWithPrefix(prefix)

		require.True(t, strings.HasPrefix(s, prefix+"_"), s)
		parts := strings.Split(s, "_")
		require.Len(t, parts, 2)
		assert.True(t, IsValid(parts[1]))
		assert.True(t, HasPrefix(s, prefix))
	}
}

func TestTypedIDGeneration(t *testing.T) {
	assert.True(t, HasPrefix(NewWindowID().String(), "win"))
	assert.True(t, HasPrefix(NewPiPSessionID().String(), "pip"))
	assert.True(t, HasPrefix(NewSubscriptionID().String(), "sub"))
	assert.True(t, HasPrefix(NewRequestID().String(), "req"))
	assert.False(t, HasPrefix(NewWindowID().String(), "pip"))
}

func TestHasPrefixRejectsGarbage(t *testing.T) {
	assert.False(t, HasPrefix("win_not-a-ulid", "win"))
	assert.False(t, HasPrefix("win", "win"))
	assert.False(t, HasPrefix("", "win"))
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := Timestamp(NewWindowID().String())
	require.NoError(t, err)
	assert.True(t, ts.After(before))

	_, err = Timestamp("win_bogus")
	assert.Error(t, err)
}

func TestConcurrentGenerationIsUnique(t *testing.T) {
	const workers, perWorker = 8, 200

	var (
		mu   sync.Mutex
		seen = make(map[WindowID]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				wid := NewWindowID()
				mu.Lock()
				seen[wid] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
