package tokens

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wordEncoder struct{}

func (wordEncoder) Encode(text string, _ []string, _ []string) []int {
	return make([]int, len(strings.Fields(text)))
}

func failingLoader(string) (Encoder, error) {
	return nil, errors.New("vocabulary unavailable")
}

func TestCountFallsBackToHeuristic(t *testing.T) {
	tk := NewWithLoader("", failingLoader)
	info := tk.Count(strings.Repeat("x", 40))
	assert.Equal(t, Info{Tokens: 10, Model: HeuristicModel, Approximate: true}, info)
	assert.Error(t, tk.Err())

	assert.Equal(t, 1, tk.Count("abc").Tokens)
	assert.Equal(t, 0, tk.Count("").Tokens)
}

func TestCountRecoversFromPanickingLoader(t *testing.T) {
	tk := NewWithLoader("m", func(string) (Encoder, error) { panic("boom") })
	info := tk.Count("12345")
	assert.True(t, info.Approximate)
	assert.Equal(t, 2, info.Tokens)
}

func TestCountExact(t *testing.T) {
	calls := 0
	tk := NewWithLoader("test-model", func(model string) (Encoder, error) {
		calls++
		assert.Equal(t, "test-model", model)
		return wordEncoder{}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info := tk.Count("one two three")
			assert.Equal(t, Info{Tokens: 3, Model: "test-model"}, info)
		}()
	}
	wg.Wait()
	require.NoError(t, tk.Err())
	assert.Equal(t, 1, calls)
}

func TestEstimateCountsRunes(t *testing.T) {
	assert.Equal(t, 1, Estimate("héé").Tokens)
	assert.Equal(t, 2, Heuristic{}.Count("12345").Tokens)
}
