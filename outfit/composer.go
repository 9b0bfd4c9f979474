package outfit

import (
	"math/rand"
	"strings"

	"outfitapi/models"
)

// Compose assembles an outfit from the wardrobe for the prompt using only
// the local tag lexicon. Top, bottom and shoes are always matched; the
// outerwear slot is only considered when the prompt asks for it, even if
// outerwear items exist. Accessories are skipped entirely.
func Compose(rng *rand.Rand, prompt string, wardrobe []models.Clothing) GeneratedOutfit {
	matched, desired := TagsFor(prompt)
	pools := partitionWardrobe(wardrobe)

	result := GeneratedOutfit{
		Top:             BestMatch(rng, pools.Tops, desired),
		Bottom:          BestMatch(rng, pools.Bottoms, desired),
		Shoes:           BestMatch(rng, pools.Shoes, desired),
		MatchedKeywords: matched,
	}
	if NeedsOuterwear(prompt) {
		result.Outerwear = BestMatch(rng, pools.Outerwear, desired)
	}
	return result
}

type notePool struct {
	Keywords   []string
	Rationales []string
	Tips       []string
}

// Templated rationale/tip text per coarse prompt category. The first pool
// whose keyword appears in the prompt wins; the last pool is the default.
var notePools = []notePool{
	{
		Keywords: []string{"date", "dinner", "romantic"},
		Rationales: []string{
			"Picked pieces that read effortless but intentional for your date.",
			"A look that balances charm with comfort for the evening.",
		},
		Tips: []string{
			"A subtle fragrance finishes a date look better than any accessory.",
			"Keep one statement piece and let the rest stay quiet.",
		},
	},
	{
		Keywords: []string{"interview", "work", "office", "meeting", "business"},
		Rationales: []string{
			"Went with your sharpest pieces so the outfit says competent before you do.",
			"Clean lines and muted tones to keep the focus on you, not the clothes.",
		},
		Tips: []string{
			"Pressed clothes and clean shoes carry a work look further than brands.",
			"Stick to two colors max for anything business.",
		},
	},
	{
		Keywords: []string{"gym", "workout", "run", "yoga", "training"},
		Rationales: []string{
			"Chose breathable, movement-friendly pieces from your activewear.",
			"Function first: everything here can take a sweat session.",
		},
		Tips: []string{
			"Moisture-wicking layers beat cotton for any real workout.",
			"Proper shoes matter more than anything else you wear to train.",
		},
	},
	{
		Keywords: []string{"party", "club", "night"},
		Rationales: []string{
			"Turned up the contrast so the outfit holds its own in low light.",
			"Statement-forward picks that still let you dance.",
		},
		Tips: []string{
			"Darker base, one loud piece: the reliable party formula.",
			"Comfortable shoes win every long night out.",
		},
	},
	{
		Keywords: []string{"casual", "coffee", "walk", "weekend", "brunch"},
		Rationales: []string{
			"Relaxed pieces that still look put together for a casual day.",
			"Comfort-led picks that photograph well anyway.",
		},
		Tips: []string{
			"Rolling sleeves or cuffs instantly relaxes a casual outfit.",
			"Casual works best when everything fits slightly relaxed, not baggy.",
		},
	},
	{
		Keywords: []string{"cold", "winter", "snow", "rain"},
		Rationales: []string{
			"Layered warm pieces so the weather stays outside the outfit.",
			"Built around your outer layer, the rest supports it.",
		},
		Tips: []string{
			"Layer thin to thick: base, knit, shell.",
			"Waterproof shoes save a rainy outfit more than an umbrella does.",
		},
	},
	{
		Keywords: []string{"summer", "beach", "hot", "pool"},
		Rationales: []string{
			"Light fabrics and light colors to keep you cool.",
			"Minimal layers, maximum breathability for the heat.",
		},
		Tips: []string{
			"Linen and loose cotton are your friends in the heat.",
			"Light colors reflect sun; save the black for the evening.",
		},
	},
	{
		// default
		Rationales: []string{
			"Matched the pieces in your closet that work best together for this.",
			"A balanced pick from your wardrobe for the occasion.",
		},
		Tips: []string{
			"Confidence is the one piece that fits every outfit.",
			"When unsure, fit beats color and color beats brand.",
		},
	},
}

// StyleNotes picks a human-readable rationale and a style tip for the
// prompt. Pure table lookup over coarse prompt categories with a uniformly
// random pick inside the winning pool.
func StyleNotes(rng *rand.Rand, prompt string) (rationale string, tip string) {
	lowered := strings.ToLower(prompt)
	pool := notePools[len(notePools)-1]
	for _, candidate := range notePools[:len(notePools)-1] {
		if containsAny(lowered, candidate.Keywords) {
			pool = candidate
			break
		}
	}
	return pool.Rationales[rng.Intn(len(pool.Rationales))], pool.Tips[rng.Intn(len(pool.Tips))]
}

func containsAny(lowered string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
