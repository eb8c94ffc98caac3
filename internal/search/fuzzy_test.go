package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedRatio(t *testing.T) {
	assert.Equal(t, 100.0, WeightedRatio("robotics", "Robotics"))
	assert.Zero(t, WeightedRatio("", "robotics"))
	assert.Less(t, WeightedRatio("robot", "chess club"), 60.0)
	assert.GreaterOrEqual(t, WeightedRatio("robotcs", "robotics"), 80.0)
	// a short query inside a long name scores through the partial match
	assert.InDelta(t, 90.0, WeightedRatio("robotics", "longhorn robotics"), 0.001)
	assert.InDelta(t, 95.0, WeightedRatio("club chess", "chess club"), 1e-9)
}

func TestFuzzyTop(t *testing.T) {
	values := []string{"Chess Club", "Robotics", "Robotics Society", "Rowing"}
	got := fuzzyTop("robotics", values, 60, 2)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, got[0].index)
	assert.Equal(t, 100.0, got[0].score)
	assert.Equal(t, 2, got[1].index)
}
