package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	require.NotNil(t, params)

	assert.Equal(t, []int{1, 3, 7, 14, 30}, params.ReviewIntervals)
	assert.Equal(t, 0.5, params.GreenRatio)
	assert.Equal(t, 1.5, params.OrangeRatio)
	assert.Equal(t, 4, params.DecayWeights[DecayLevelRed])
	assert.Equal(t, 1, params.DecayWeights[DecayLevelGreen])
}

func TestNewParams(t *testing.T) {
	t.Parallel()

	t.Run("overrides replace defaults", func(t *testing.T) {
		t.Parallel()
		params := NewParams(ParamsConfig{
			ReviewIntervals: []int{2, 5, 10},
			GreenRatio:      0.4,
		})

		assert.Equal(t, []int{2, 5, 10}, params.ReviewIntervals)
		assert.Equal(t, 0.4, params.GreenRatio)
	})

	t.Run("zero values keep defaults", func(t *testing.T) {
		t.Parallel()
		params := NewParams(ParamsConfig{})

		assert.Equal(t, []int{1, 3, 7, 14, 30}, params.ReviewIntervals)
		assert.Equal(t, 1.5, params.OrangeRatio)
		assert.Equal(t, 20.0, params.DecayWeightFactor)
		assert.Equal(t, 0.2, params.GoalUrgencyFactor)
	})
}
