package outfit

import "outfitapi/models"

// Reconcile resolves the stylist's selected item IDs back onto the live
// wardrobe. IDs are processed in suggestion order; the first item resolved
// per slot wins and later IDs for an already filled slot are ignored.
// Accessory items and IDs that no longer resolve are dropped silently.
// MatchedKeywords stays empty, marking the result as AI-sourced.
func Reconcile(suggestion Suggestion, wardrobe []models.Clothing) GeneratedOutfit {
	byID := make(map[uint]*models.Clothing, len(wardrobe))
	for i := range wardrobe {
		byID[wardrobe[i].ID] = &wardrobe[i]
	}

	var result GeneratedOutfit
	for _, id := range suggestion.SelectedItemIDs {
		item, ok := byID[id]
		if !ok {
			continue
		}
		switch item.ClothingType {
		case models.CategoryTop:
			if result.Top == nil {
				result.Top = item
			}
		case models.CategoryBottom:
			if result.Bottom == nil {
				result.Bottom = item
			}
		case models.CategoryShoes:
			if result.Shoes == nil {
				result.Shoes = item
			}
		case models.CategoryOuterwear:
			if result.Outerwear == nil {
				result.Outerwear = item
			}
		}
	}
	return result
}
