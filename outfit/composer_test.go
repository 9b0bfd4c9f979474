package outfit

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outfitapi/models"
)

func TestComposeJobInterview(t *testing.T) {
	wardrobe := []models.Clothing{
		testItem(1, models.CategoryTop, "Formal", "Business"),
		testItem(2, models.CategoryBottom, "Formal"),
		testItem(3, models.CategoryShoes, "Casual"),
	}
	rng := rand.New(rand.NewSource(1))

	outfit := Compose(rng, "Job interview today", wardrobe)

	require.NotNil(t, outfit.Top)
	require.NotNil(t, outfit.Bottom)
	require.NotNil(t, outfit.Shoes)
	assert.Equal(t, uint(1), outfit.Top.ID)
	assert.Equal(t, uint(2), outfit.Bottom.ID)
	// Shoes fall back to random since nothing scores; only one candidate.
	assert.Equal(t, uint(3), outfit.Shoes.ID)
	assert.Nil(t, outfit.Outerwear)
	assert.Equal(t, []string{"interview"}, outfit.MatchedKeywords)
	assert.True(t, outfit.IsValid())
}

func TestComposeOuterwearOnlyWhenPromptAsks(t *testing.T) {
	wardrobe := []models.Clothing{
		testItem(1, models.CategoryTop, "Casual"),
		testItem(2, models.CategoryBottom, "Casual"),
		testItem(3, models.CategoryShoes, "Casual"),
		testItem(4, models.CategoryOuterwear, "All-Season", "Outerwear"),
	}

	rainy := Compose(rand.New(rand.NewSource(1)), "Rainy day walk", wardrobe)
	require.NotNil(t, rainy.Outerwear)
	assert.Equal(t, uint(4), rainy.Outerwear.ID)

	coffee := Compose(rand.New(rand.NewSource(1)), "Casual coffee date", wardrobe)
	assert.Nil(t, coffee.Outerwear, "outerwear must stay empty without a trigger keyword")
}

func TestComposeAccessoriesExcluded(t *testing.T) {
	wardrobe := []models.Clothing{
		testItem(1, models.CategoryAccessory, "Formal"),
		testItem(2, models.CategoryAccessory, "Casual"),
	}

	outfit := Compose(rand.New(rand.NewSource(1)), "Job interview today", wardrobe)

	assert.False(t, outfit.IsValid())
	assert.Empty(t, outfit.Items())
}

func TestComposeOuterwearAloneNotValid(t *testing.T) {
	wardrobe := []models.Clothing{
		testItem(1, models.CategoryOuterwear, "Warm", "Winter"),
	}

	outfit := Compose(rand.New(rand.NewSource(1)), "Cold winter walk", wardrobe)

	require.NotNil(t, outfit.Outerwear)
	assert.False(t, outfit.IsValid())
	assert.Equal(t, []*models.Clothing{outfit.Outerwear}, outfit.Items())
}

func TestComposeEmptyWardrobeNeverValid(t *testing.T) {
	outfit := Compose(rand.New(rand.NewSource(1)), "Anything at all", nil)

	assert.False(t, outfit.IsValid())
}

func TestComposeIdempotentWithFixedSeed(t *testing.T) {
	wardrobe := []models.Clothing{
		testItem(1, models.CategoryTop, "Casual"),
		testItem(2, models.CategoryTop, "Casual"),
		testItem(3, models.CategoryBottom, "Casual"),
		testItem(4, models.CategoryBottom, "Sport"),
		testItem(5, models.CategoryShoes, "Casual"),
		testItem(6, models.CategoryShoes, "Sport"),
	}

	first := Compose(rand.New(rand.NewSource(99)), "weekend walk", wardrobe)
	second := Compose(rand.New(rand.NewSource(99)), "weekend walk", wardrobe)

	require.NotNil(t, first.Top)
	require.NotNil(t, second.Top)
	assert.Equal(t, first.Top.ID, second.Top.ID)
	assert.Equal(t, first.Bottom.ID, second.Bottom.ID)
	assert.Equal(t, first.Shoes.ID, second.Shoes.ID)
	assert.Equal(t, first.MatchedKeywords, second.MatchedKeywords)
}

func TestStyleNotesNeverEmpty(t *testing.T) {
	prompts := []string{
		"Job interview today",
		"Romantic dinner date",
		"Gym session",
		"Birthday party",
		"Casual coffee",
		"Cold winter walk",
		"Beach day",
		"xyzzy",
	}
	rng := rand.New(rand.NewSource(1))

	for _, prompt := range prompts {
		rationale, tip := StyleNotes(rng, prompt)
		assert.NotEmpty(t, rationale, "prompt %q", prompt)
		assert.NotEmpty(t, tip, "prompt %q", prompt)
	}
}

func TestStyleNotesSeededReproducibility(t *testing.T) {
	rationale1, tip1 := StyleNotes(rand.New(rand.NewSource(7)), "office meeting")
	rationale2, tip2 := StyleNotes(rand.New(rand.NewSource(7)), "office meeting")

	assert.Equal(t, rationale1, rationale2)
	assert.Equal(t, tip1, tip2)
}
