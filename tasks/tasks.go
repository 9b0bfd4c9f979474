package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"outfitapi/models"
	"outfitapi/outfit"
	"outfitapi/services"
)

type OutfitGenerationPayload struct {
	UserID       uint `json:"user_id"`
	GenerationID uint `json:"generation_id"`
}

func NewOutfitGenerationTask(userID uint, generationID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(OutfitGenerationPayload{UserID: userID, GenerationID: generationID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask("generate:outfit", payload), nil
}

func NewStyleTipAlertTask() *asynq.Task {
	return asynq.NewTask("style:tip_alert", []byte{}, asynq.Queue("generate"))
}

func saveGenerationFail(db *gorm.DB, generation models.OutfitGeneration, msg string, shouldRetry bool) error {
	generation.GenerationRetryTimes = generation.GenerationRetryTimes + 1
	generation.GenerationErrorMessage = &msg
	if !shouldRetry || generation.GenerationRetryTimes >= 3 {
		generation.Status = "failed"
	}
	tx := db.Save(&generation)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Generation %v] Error on saving generation for failed status", generation.ID))
		return tx.Error
	}
	return nil
}

// HandleOutfitGenerationTask runs one persisted generation attempt through
// the orchestrator and writes the outcome back onto the OutfitGeneration
// row.
func HandleOutfitGenerationTask(ctx context.Context, t *asynq.Task, db *gorm.DB, stylist outfit.Stylist, fbApp *firebase.App) error {
	var payload OutfitGenerationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Generation %v] Start processing\n", payload.GenerationID)

	var generation models.OutfitGeneration
	res := db.Joins("UserAccount").First(&generation, payload.GenerationID)
	if res.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving generation for processing %v", payload.GenerationID))
		return res.Error
	}
	user := generation.UserAccount

	var wardrobe []models.Clothing
	if err := db.Where("owner_id = ?", user.ID).Find(&wardrobe).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Generation %v] Error fetching wardrobe: %v", generation.ID, err))
		saveGenerationFail(db, generation, "Failed to read your wardrobe, please try again", true)
		return err
	}

	var dailyGenerationCount int64
	today := time.Now().UTC().Format("2006-01-02")
	if err := db.Model(&models.OutfitGeneration{}).Where(
		"user_account_id = ? AND DATE(created_at) = ? AND id <> ?", user.ID, today, generation.ID,
	).Count(&dailyGenerationCount).Error; err != nil {
		saveGenerationFail(db, generation, "Failed to check your generation quota, please try again", true)
		return err
	}

	generator := outfit.NewGenerator(stylist, rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	results, failure := generator.Generate(ctx, outfit.Request{
		Prompt:               generation.Prompt,
		Wardrobe:             wardrobe,
		AIAvailable:          os.Getenv("GOOGLE_API_KEY") != "",
		QuotaRemaining:       int(int64(user.DailyGenerationLimit()) - dailyGenerationCount),
		UnlimitedEntitlement: user.HasUnlimitedEntitlement(),
		UserStyle:            user.StylePreference,
	})
	if failure != nil {
		fmt.Printf("[Generation %v] Rejected: %v\n", generation.ID, failure)
		return saveGenerationFail(db, generation, failureMessage(failure), false)
	}

	result := <-results
	if result.Failure != nil {
		fmt.Printf("[Generation %v] Terminal AI failure: %v\n", generation.ID, result.Failure)
		sentry.CaptureException(fmt.Errorf("[Generation %v] terminal AI failure: %w", generation.ID, result.Failure))
		return saveGenerationFail(db, generation, failureMessage(result.Failure), false)
	}
	if result.FallbackErr != nil {
		// swallowed on the user path, still recorded for observability
		sentry.CaptureException(fmt.Errorf("[Generation %v] AI fallback: %w", generation.ID, result.FallbackErr))
		generation.GenerationErrorMessage = services.StrPointer(result.FallbackErr.Error())
	}

	generation.TopClothingID = clothingID(result.Outfit.Top)
	generation.BottomClothingID = clothingID(result.Outfit.Bottom)
	generation.ShoesClothingID = clothingID(result.Outfit.Shoes)
	generation.OuterwearClothingID = clothingID(result.Outfit.Outerwear)
	generation.MatchedKeywords = result.Outfit.MatchedKeywords
	generation.Reasoning = services.StrPointer(result.Reasoning)
	generation.StyleTip = result.StyleTip
	generation.Source = result.Source
	if result.Empty {
		generation.Status = "empty"
	} else {
		generation.Status = "completed"
	}
	if result.Suggestion != nil {
		generation.LLMModel = services.StrPointer(result.Suggestion.Model)
		generation.LLMInputTokenCount = services.Int32Pointer(result.Suggestion.InputTokenCount)
		generation.LLMOutputTokenCount = services.Int32Pointer(result.Suggestion.OutputTokenCount)
		generation.LLMTotalTokenCount = services.Int32Pointer(result.Suggestion.TotalTokenCount)
	}
	if err := db.Save(&generation).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Generation %v] Error saving generation result: %v", generation.ID, err))
		return err
	}
	fmt.Printf("[Generation %v] Done, status: %s source: %s\n", generation.ID, generation.Status, generation.Source)

	if fbApp != nil && user.ReceiveNotifications {
		if result.Empty {
			services.SendNotification(fbApp, db, user.ID, "Nothing suitable 😔", "We couldn't put together an outfit for that occasion. Try adding more clothes!", nil)
		} else {
			services.SendNotification(fbApp, db, user.ID, "Your outfit is ready ✨", "Open the app to see what we picked for you!", map[string]string{"generation_id": fmt.Sprint(generation.ID)})
		}
	}
	return nil
}

func failureMessage(failure *outfit.Failure) string {
	switch {
	case failure.OfferUpgrade:
		return "You have reached your daily generation limit, please upgrade to continue"
	default:
		return "Sorry, we could not generate your outfit, please try again"
	}
}

func clothingID(item *models.Clothing) *uint {
	if item == nil {
		return nil
	}
	id := item.ID
	return &id
}

// HandleStyleTipAlertTask sends the daily style tip push to users who
// opted in.
func HandleStyleTipAlertTask(ctx context.Context, t *asynq.Task, db *gorm.DB, fbApp *firebase.App) error {
	var users []models.UserAccount
	if err := db.Where("receive_notifications = true").Find(&users).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error fetching users for style tip alert: %v", err))
		return err
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, user := range users {
		prompt := "casual"
		if user.StylePreference != nil && *user.StylePreference != "" {
			prompt = *user.StylePreference
		}
		_, tip := outfit.StyleNotes(rng, prompt)
		services.SendNotification(fbApp, db, user.ID, "Style tip of the day 💡", tip, nil)
	}
	fmt.Printf("[QUEUE] Style tip alert sent to %v users\n", len(users))
	return nil
}
