package outfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsForInterviewPrompt(t *testing.T) {
	matched, tags := TagsFor("Job interview today")

	require.Equal(t, []string{"interview"}, matched)
	assert.True(t, tags.Contains("Formal"))
	assert.True(t, tags.Contains("Business"))
	assert.True(t, tags.Contains("Work"))
}

func TestTagsForSubstringContainment(t *testing.T) {
	matched, tags := TagsFor("Gymnastics practice")

	require.Contains(t, matched, "gym")
	assert.True(t, tags.Contains("Sport"))
}

func TestTagsForTableOrder(t *testing.T) {
	// "rainy" contains "rain"; keywords must come back in table order,
	// not prompt order.
	matched, _ := TagsFor("rainy winter meeting")

	require.Equal(t, []string{"meeting", "winter", "rain"}, matched)
}

func TestTagsForNoMatch(t *testing.T) {
	matched, tags := TagsFor("xyzzy")

	assert.Empty(t, matched)
	assert.Empty(t, tags)
}

func TestNeedsOuterwear(t *testing.T) {
	assert.True(t, NeedsOuterwear("Rainy day walk"))
	assert.True(t, NeedsOuterwear("Freezing morning commute"))
	assert.True(t, NeedsOuterwear("Need my coat"))
	assert.False(t, NeedsOuterwear("Casual coffee date"))
	assert.False(t, NeedsOuterwear("Beach party"))
}
