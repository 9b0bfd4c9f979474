package models

import "github.com/lib/pq"

const (
	CategoryTop       = "top"
	CategoryBottom    = "bottom"
	CategoryShoes     = "shoes"
	CategoryOuterwear = "outerwear"
	CategoryAccessory = "accessory"
)

type Clothing struct {
	JsonModel
	Name         string         `json:"name"`
	Description  *string        `gorm:"type:text" json:"description"`
	ClothingType string         `json:"clothing_type"` // top, bottom, shoes, outerwear, accessory
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`
	Owner        UserAccount    `json:"-"`
	OwnerID      uint           `json:"-"`
	Status       string         `json:"status"`       // temporary, in_closet
	ImageStatus  string         `json:"image_status"` // draft, uploaded
	ImageURL     *string        `json:"image_url"`
}

// OutfitGeneration is one generation attempt: the occasion prompt together
// with the resolved slots and the bookkeeping of how they were produced.
type OutfitGeneration struct {
	JsonModel
	Prompt        string      `gorm:"type:text" json:"prompt"`
	UserAccountID uint        `json:"-"`
	UserAccount   UserAccount `json:"user_account"`

	TopClothingID       *uint     `json:"top_clothing_id"`
	TopClothing         *Clothing `json:"top_clothing"`
	BottomClothingID    *uint     `json:"bottom_clothing_id"`
	BottomClothing      *Clothing `json:"bottom_clothing"`
	ShoesClothingID     *uint     `json:"shoes_clothing_id"`
	ShoesClothing       *Clothing `json:"shoes_clothing"`
	OuterwearClothingID *uint     `json:"outerwear_clothing_id"`
	OuterwearClothing   *Clothing `json:"outerwear_clothing"`

	// keywords the local matcher recognized in the prompt; empty for the AI path
	MatchedKeywords pq.StringArray `gorm:"type:text[]" json:"matched_keywords"`
	Reasoning       *string        `gorm:"type:text" json:"reasoning"`
	StyleTip        *string        `gorm:"type:text" json:"style_tip"`

	Source string `json:"source"` // ai, local
	Status string `json:"status"` // pending, completed, empty, failed

	GenerationRetryTimes   int     `json:"generation_retry_times"`
	GenerationErrorMessage *string `json:"generation_error_message"`

	LLMModel            *string `json:"llm_model"`
	LLMInputTokenCount  *int32  `json:"llm_input_token_count"`
	LLMOutputTokenCount *int32  `json:"llm_output_token_count"`
	LLMTotalTokenCount  *int32  `json:"llm_total_token_count"`
}
