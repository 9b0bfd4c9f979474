package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"outfitapi/models"
	"outfitapi/outfit"
)

// LLMModelName is the GenAI model to use for suggestion calls.
type LLMModelName int32

const (
	Pro25 LLMModelName = iota
	Flash25
	FlashLite25
	Flash20
)

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite-preview-06-17"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.0-flash"
	}
}

const stylistSystemInstruction = `You are a personal fashion stylist. The user gives you an occasion ` +
	`and their wardrobe as a list of items with numeric ids, a category and style tags. ` +
	`Pick at most one item per category among top, bottom, shoes and outerwear that together form ` +
	`a coherent outfit for the occasion. Only include outerwear when the occasion or weather calls for it. ` +
	`Never invent ids that are not in the wardrobe. Respond with the selected item ids in order of importance, ` +
	`a short reasoning the user will read, and one practical style tip.`

type stylistWardrobeItem struct {
	ID       uint     `json:"id"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

type stylistResponse struct {
	SelectedItemIDs []uint  `json:"selected_item_ids"`
	Reasoning       string  `json:"reasoning"`
	StyleTip        *string `json:"style_tip"`
}

// GeminiStylist asks Gemini to pick an outfit from the wardrobe. The JSON
// response shape is pinned through a response schema so parsing failures
// stay rare; when they do happen the caller falls back to local matching.
type GeminiStylist struct {
	Model LLMModelName
}

func (s GeminiStylist) GenerateSuggestion(ctx context.Context, prompt string, wardrobe []models.Clothing, userStyle *string) (outfit.Suggestion, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return outfit.Suggestion{}, classifyGenAIError(err)
	}

	items := make([]stylistWardrobeItem, 0, len(wardrobe))
	for _, item := range wardrobe {
		items = append(items, stylistWardrobeItem{
			ID:       item.ID,
			Category: item.ClothingType,
			Tags:     item.Tags,
		})
	}
	wardrobeJSON, err := json.Marshal(items)
	if err != nil {
		return outfit.Suggestion{}, fmt.Errorf("failed to encode wardrobe: %v", err)
	}

	var userPrompt strings.Builder
	fmt.Fprintf(&userPrompt, "Occasion: %s\n", prompt)
	if userStyle != nil && *userStyle != "" {
		fmt.Fprintf(&userPrompt, "The user prefers a %s style.\n", *userStyle)
	}
	fmt.Fprintf(&userPrompt, "Wardrobe: %s", wardrobeJSON)

	result, err := client.Models.GenerateContent(ctx, s.Model.String(), []*genai.Content{
		{Parts: []*genai.Part{{Text: userPrompt.String()}}},
	}, &genai.GenerateContentConfig{
		CandidateCount:   1,
		MaxOutputTokens:  2000,
		Temperature:      floatPointer(1),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"selected_item_ids": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeInteger},
				},
				"reasoning": {Type: genai.TypeString},
				"style_tip": {Type: genai.TypeString},
			},
			Required: []string{"selected_item_ids", "reasoning"},
		},
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: stylistSystemInstruction}},
		},
	})
	if err != nil {
		fmt.Println("Error in GenerateContent:", err)
		return outfit.Suggestion{}, classifyGenAIError(err)
	}

	if result.PromptFeedback != nil {
		fmt.Println(result.PromptFeedback.BlockReason)
		fmt.Println(result.PromptFeedback.BlockReasonMessage)
		return outfit.Suggestion{}, fmt.Errorf("content violation: %s", result.PromptFeedback.BlockReasonMessage)
	}

	var parsed stylistResponse
	if err := json.Unmarshal([]byte(result.Text()), &parsed); err != nil {
		return outfit.Suggestion{}, fmt.Errorf("failed to parse stylist response: %v", err)
	}

	suggestion := outfit.Suggestion{
		SelectedItemIDs: parsed.SelectedItemIDs,
		Reasoning:       parsed.Reasoning,
		StyleTip:        parsed.StyleTip,
		Model:           s.Model.String(),
	}
	if result.UsageMetadata != nil {
		suggestion.InputTokenCount = result.UsageMetadata.PromptTokenCount
		suggestion.OutputTokenCount = result.UsageMetadata.CandidatesTokenCount
		suggestion.TotalTokenCount = result.UsageMetadata.TotalTokenCount
		fmt.Println("Input token count:", suggestion.InputTokenCount)
		fmt.Println("Output token count:", suggestion.OutputTokenCount)
		fmt.Println("Total token count:", suggestion.TotalTokenCount)
	}
	return suggestion, nil
}

// classifyGenAIError maps API failures onto the generator's terminal error
// kinds. Everything unrecognized stays as-is and triggers the local
// fallback upstream.
func classifyGenAIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return fmt.Errorf("%w: %v", outfit.ErrAINotAuthenticated, err)
		case 429:
			return fmt.Errorf("%w: %v", outfit.ErrAIUsageLimitReached, err)
		}
	}
	return err
}
