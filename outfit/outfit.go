// Package outfit picks a coherent outfit from a wardrobe for a free-text
// occasion prompt, either by local keyword matching or by reconciling an AI
// stylist suggestion against the live wardrobe.
package outfit

import "outfitapi/models"

// GeneratedOutfit is one generation result: up to four slots, each holding a
// wardrobe item whose clothing type matches the slot. Values are immutable
// once built; a new generation supersedes, never mutates.
type GeneratedOutfit struct {
	Top       *models.Clothing
	Bottom    *models.Clothing
	Shoes     *models.Clothing
	Outerwear *models.Clothing

	// keywords the lexicon recognized in the prompt, in lexicon order.
	// Always empty for the AI path.
	MatchedKeywords []string
}

// Items returns the filled slots in slot order: top, bottom, shoes, outerwear.
func (o GeneratedOutfit) Items() []*models.Clothing {
	var items []*models.Clothing
	for _, item := range []*models.Clothing{o.Top, o.Bottom, o.Shoes, o.Outerwear} {
		if item != nil {
			items = append(items, item)
		}
	}
	return items
}

// IsValid reports whether the outfit is wearable: at least one of top,
// bottom or shoes. Outerwear alone never counts.
func (o GeneratedOutfit) IsValid() bool {
	return o.Top != nil || o.Bottom != nil || o.Shoes != nil
}

// Suggestion is what the AI stylist returned for one prompt: wardrobe item
// IDs in its preferred order plus free-text reasoning. Transient, consumed
// by Reconcile.
type Suggestion struct {
	SelectedItemIDs []uint
	Reasoning       string
	StyleTip        *string

	Model            string
	InputTokenCount  int32
	OutputTokenCount int32
	TotalTokenCount  int32
}

type wardrobePools struct {
	Tops      []models.Clothing
	Bottoms   []models.Clothing
	Shoes     []models.Clothing
	Outerwear []models.Clothing
}

// partitionWardrobe groups items into per-slot candidate pools. Accessories
// never participate in composition.
func partitionWardrobe(wardrobe []models.Clothing) wardrobePools {
	var pools wardrobePools
	for _, item := range wardrobe {
		switch item.ClothingType {
		case models.CategoryTop:
			pools.Tops = append(pools.Tops, item)
		case models.CategoryBottom:
			pools.Bottoms = append(pools.Bottoms, item)
		case models.CategoryShoes:
			pools.Shoes = append(pools.Shoes, item)
		case models.CategoryOuterwear:
			pools.Outerwear = append(pools.Outerwear, item)
		}
	}
	return pools
}
