package outfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outfitapi/models"
)

func TestReconcileFillsSlotsByCategory(t *testing.T) {
	wardrobe := []models.Clothing{
		testItem(1, models.CategoryTop, "Formal"),
		testItem(2, models.CategoryBottom, "Formal"),
		testItem(3, models.CategoryShoes, "Casual"),
		testItem(4, models.CategoryOuterwear, "Warm"),
	}
	suggestion := Suggestion{SelectedItemIDs: []uint{3, 1, 4, 2}}

	outfit := Reconcile(suggestion, wardrobe)

	require.NotNil(t, outfit.Top)
	require.NotNil(t, outfit.Bottom)
	require.NotNil(t, outfit.Shoes)
	require.NotNil(t, outfit.Outerwear)
	assert.Equal(t, uint(1), outfit.Top.ID)
	assert.Equal(t, uint(2), outfit.Bottom.ID)
	assert.Equal(t, uint(3), outfit.Shoes.ID)
	assert.Equal(t, uint(4), outfit.Outerwear.ID)
	assert.Equal(t, models.CategoryTop, outfit.Top.ClothingType)
	assert.Empty(t, outfit.MatchedKeywords)
}

func TestReconcileFirstItemPerSlotWins(t *testing.T) {
	wardrobe := []models.Clothing{
		testItem(1, models.CategoryTop, "Formal"),
		testItem(2, models.CategoryTop, "Casual"),
	}
	suggestion := Suggestion{SelectedItemIDs: []uint{2, 1}}

	outfit := Reconcile(suggestion, wardrobe)

	require.NotNil(t, outfit.Top)
	assert.Equal(t, uint(2), outfit.Top.ID)
}

func TestReconcileDropsUnknownAndAccessoryIDs(t *testing.T) {
	wardrobe := []models.Clothing{
		testItem(1, models.CategoryAccessory, "Gold"),
		testItem(2, models.CategoryTop, "Casual"),
	}
	suggestion := Suggestion{SelectedItemIDs: []uint{999, 1, 2}}

	outfit := Reconcile(suggestion, wardrobe)

	require.NotNil(t, outfit.Top)
	assert.Equal(t, uint(2), outfit.Top.ID)
	assert.Nil(t, outfit.Bottom)
	assert.Nil(t, outfit.Shoes)
	assert.Nil(t, outfit.Outerwear)
}

func TestReconcileNothingResolves(t *testing.T) {
	wardrobe := []models.Clothing{
		testItem(1, models.CategoryTop, "Casual"),
	}
	suggestion := Suggestion{SelectedItemIDs: []uint{5, 6}}

	outfit := Reconcile(suggestion, wardrobe)

	assert.False(t, outfit.IsValid())
	assert.Empty(t, outfit.Items())
}
