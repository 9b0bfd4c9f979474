package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"outfitapi/models"
	"outfitapi/services"
	"outfitapi/tasks"
)

type GenerateOutfitIn struct {
	Prompt string `json:"prompt" validate:"required,max=500"`
}

type OutfitGenerationResponse struct {
	ID              uint              `json:"id"`
	Prompt          string            `json:"prompt"`
	Status          string            `json:"status"`
	Source          string            `json:"source"`
	Top             *ClothingResponse `json:"top"`
	Bottom          *ClothingResponse `json:"bottom"`
	Shoes           *ClothingResponse `json:"shoes"`
	Outerwear       *ClothingResponse `json:"outerwear"`
	MatchedKeywords []string          `json:"matched_keywords"`
	Reasoning       *string           `json:"reasoning"`
	StyleTip        *string           `json:"style_tip"`
	CreatedAt       string            `json:"created_at"`
}

type OutfitGenerationCreatedResponse struct {
	GenerationID uint   `json:"generation_id"`
	Status       string `json:"status"`
}

type OutfitsController struct {
	URLCache services.URLCacheServiceProvider
}

func (controller *OutfitsController) OutfitRoutes(g *echo.Group) {
	g.POST("/generate", controller.GenerateOutfit)
	g.GET("/generations/:generationId", controller.GetGeneration)
	g.GET("/generations", controller.ListGenerations)
}

func (controller *OutfitsController) GenerateOutfit(c echo.Context) error {
	var req GenerateOutfitIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Please describe the occasion first"})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
	}

	var wardrobeCount int64
	if err := db.Model(&models.Clothing{}).Where("owner_id = ? AND clothing_type <> ?", user.ID, models.CategoryAccessory).Count(&wardrobeCount).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get wardrobe data"})
	}
	if wardrobeCount == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Your wardrobe is empty, add some clothes first"})
	}

	if !user.HasUnlimitedEntitlement() {
		var dailyGenerationCount int64
		today := time.Now().UTC().Format("2006-01-02")
		if err := db.Model(&models.OutfitGeneration{}).Where("user_account_id = ? AND DATE(created_at) = ?", user.ID, today).Count(&dailyGenerationCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get generation data"})
		}
		limit := user.DailyGenerationLimit()
		fmt.Printf("[User %v] Daily generation count: %v limit: %v\n", user.ID, dailyGenerationCount, limit)
		if dailyGenerationCount >= int64(limit) {
			return c.JSON(http.StatusForbidden, echo.Map{
				"error":         fmt.Sprintf("You have reached the limit of %v daily outfit generations. Please wait for the next day.", limit),
				"offer_upgrade": true,
			})
		}
	}

	generation := models.OutfitGeneration{
		Prompt:        req.Prompt,
		UserAccountID: user.ID,
		Status:        "pending",
	}
	if err := db.Create(&generation).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to start generation, please try again"})
	}

	task, err := tasks.NewOutfitGenerationTask(user.ID, generation.ID)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not start generation, please try again"})
	}
	info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("generate"))
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not start generation, please try again"})
	}
	fmt.Println("[Queue] Outfit generation task submitted, Generation ID: ", generation.ID, " Task ID: ", info.ID)

	return c.JSON(http.StatusCreated, OutfitGenerationCreatedResponse{
		GenerationID: generation.ID,
		Status:       generation.Status,
	})
}

func (controller *OutfitsController) GetGeneration(c echo.Context) error {
	var generationId uint
	if err := echo.PathParamsBinder(c).Uint("generationId", &generationId).BindError(); err != nil {
		return echo.ErrBadRequest
	}
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var generation models.OutfitGeneration
	r := db.Preload("TopClothing").Preload("BottomClothing").Preload("ShoesClothing").Preload("OuterwearClothing").
		Where("id = ? and user_account_id = ?", generationId, user.ID).Limit(1).Find(&generation)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch generation"})
	}
	if r.RowsAffected == 0 {
		return echo.ErrNotFound
	}
	return c.JSON(http.StatusOK, controller.generationResponse(c, generation))
}

func (controller *OutfitsController) ListGenerations(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var generations []models.OutfitGeneration
	if err := db.Preload("TopClothing").Preload("BottomClothing").Preload("ShoesClothing").Preload("OuterwearClothing").
		Where("user_account_id = ?", user.ID).Order("created_at desc").Limit(50).Find(&generations).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch generations"})
	}

	responses := make([]OutfitGenerationResponse, 0, len(generations))
	for _, generation := range generations {
		responses = append(responses, controller.generationResponse(c, generation))
	}
	return c.JSON(http.StatusOK, responses)
}

func (controller *OutfitsController) generationResponse(c echo.Context, generation models.OutfitGeneration) OutfitGenerationResponse {
	return OutfitGenerationResponse{
		ID:              generation.ID,
		Prompt:          generation.Prompt,
		Status:          generation.Status,
		Source:          generation.Source,
		Top:             controller.slotResponse(c, generation.TopClothing),
		Bottom:          controller.slotResponse(c, generation.BottomClothing),
		Shoes:           controller.slotResponse(c, generation.ShoesClothing),
		Outerwear:       controller.slotResponse(c, generation.OuterwearClothing),
		MatchedKeywords: generation.MatchedKeywords,
		Reasoning:       generation.Reasoning,
		StyleTip:        generation.StyleTip,
		CreatedAt:       generation.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (controller *OutfitsController) slotResponse(c echo.Context, item *models.Clothing) *ClothingResponse {
	if item == nil {
		return nil
	}
	var uri *string
	if item.ImageURL != nil && *item.ImageURL != "" {
		url, err := controller.URLCache.GetReadURL(c.Request().Context(), *item.ImageURL)
		if err != nil {
			fmt.Println("Error getting read URL for clothing image:", err)
		} else {
			uri = &url
		}
	}
	response := clothingResponse(*item, uri)
	return &response
}
