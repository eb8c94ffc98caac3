package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"longhorn", "developers", "club"}, tokenize("The Longhorn Developers, a club!"))
	assert.Empty(t, tokenize("a I of"))
}

func TestTFIDFSimilarities(t *testing.T) {
	m := FitTFIDF([]string{
		"Longhorn Robotics build robots for competitions",
		"Chess Club play chess every week",
		"Robotics outreach for high schools",
	}, 0)

	sims := m.Similarities("robotics")
	require.Len(t, sims, 3)
	assert.Greater(t, sims[0], 0.0)
	assert.Greater(t, sims[2], 0.0)
	assert.Zero(t, sims[1])

	self := m.Similarities("Chess Club play chess every week")
	assert.InDelta(t, 1.0, self[1], 1e-9)

	assert.Equal(t, []float64{0, 0, 0}, m.Similarities("the of and"))
}

func TestTFIDFMaxFeatures(t *testing.T) {
	m := FitTFIDF([]string{"alpha alpha beta", "alpha gamma"}, 1)
	assert.Equal(t, 1, m.Terms())
	sims := m.Similarities("beta")
	assert.Equal(t, []float64{0, 0}, sims)
}
