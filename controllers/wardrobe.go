package controllers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"outfitapi/models"
	"outfitapi/services"
)

const freePlanWardrobeLimit = 20

const maxImageUploadBytes = 10 << 20

type CreateClothingIn struct {
	Name         string   `json:"name" validate:"required,max=100"`
	FileName     *string  `json:"file_name" validate:"omitempty,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=500"`
	ClothingType string   `json:"clothing_type" validate:"required,oneof=top bottom shoes outerwear accessory"`
	Tags         []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
}

type ClothingResponse struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	ClothingType string   `json:"clothing_type"`
	Tags         []string `json:"tags"`
	Status       string   `json:"status"`
	Uri          *string  `json:"uri,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type ClothingCreatedResponse struct {
	ClothingResponse ClothingResponse `json:"clothes"`
	FileUploadUrl    string           `json:"file_upload_url"`
}

type WardrobeListResponse struct {
	Tops        []ClothingResponse `json:"tops"`
	Bottoms     []ClothingResponse `json:"bottoms"`
	Shoes       []ClothingResponse `json:"shoes"`
	Outerwear   []ClothingResponse `json:"outerwear"`
	Accessories []ClothingResponse `json:"accessories"`
}

type WardrobeController struct {
	AWSService services.AWSServiceProvider
	URLCache   services.URLCacheServiceProvider
}

func (controller *WardrobeController) WardrobeRoutes(g *echo.Group) {
	g.POST("/clothes", controller.CreateClothing)
	g.POST("/clothes/:clothingId/image", controller.UploadClothingImage)
	g.GET("/clothes/list", controller.ListClothes)
	g.DELETE("/clothes/:clothingId", controller.DeleteClothing)
}

func (controller *WardrobeController) CreateClothing(c echo.Context) error {
	var req CreateClothingIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	if user.Subscription == models.Free {
		var totalClothingCount int64
		if err := db.Model(&models.Clothing{}).Where("owner_id = ?", user.ID).Count(&totalClothingCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get wardrobe data"})
		}
		fmt.Printf("[User %v] Free plan, wardrobe count: %v\n", user.ID, totalClothingCount)
		if totalClothingCount >= freePlanWardrobeLimit {
			return c.JSON(http.StatusForbidden, map[string]string{"error": fmt.Sprintf("You have reached the free limit of %v wardrobe items, please subscribe", freePlanWardrobeLimit)})
		}
	}

	clothing := models.Clothing{
		Name:         req.Name,
		Description:  req.Description,
		ClothingType: req.ClothingType,
		Tags:         req.Tags,
		OwnerID:      user.ID,
		Status:       "in_closet",
		ImageStatus:  "draft",
	}

	var uploadUrl string
	if req.FileName != nil && *req.FileName != "" {
		bucketName := services.GetEnv("R2_BUCKET_NAME", "")
		safeFileName := fmt.Sprintf("clothes/%v/%s", user.ID, *req.FileName)
		var presignErr error
		uploadUrl, presignErr = controller.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
		if presignErr != nil {
			log.Printf("Unable to presign upload for %s!, %s", clothing.Name, presignErr)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Error while creating clothing with attachment",
			})
		}
		clothing.ImageURL = &safeFileName
	}

	if err := db.Create(&clothing).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	return c.JSON(http.StatusCreated, ClothingCreatedResponse{
		ClothingResponse: clothingResponse(clothing, nil),
		FileUploadUrl:    uploadUrl,
	})
}

// UploadClothingImage uploads the image through the backend for clients
// that cannot PUT to the presigned URL themselves.
func (controller *WardrobeController) UploadClothingImage(c echo.Context) error {
	var clothingId uint
	if err := echo.PathParamsBinder(c).Uint("clothingId", &clothingId).BindError(); err != nil {
		return echo.ErrBadRequest
	}
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var clothing models.Clothing
	r := db.Where("id = ? and owner_id = ?", clothingId, user.ID).Limit(1).Find(&clothing)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch clothing"})
	}
	if r.RowsAffected == 0 {
		return echo.ErrNotFound
	}

	fileContent, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImageUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read image data"})
	}
	if len(fileContent) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Image data is empty"})
	}
	if len(fileContent) > maxImageUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "Image is too large"})
	}

	bucketName := services.GetEnv("R2_BUCKET_NAME", "")
	objectKey := fmt.Sprintf("clothes/%v/%v-upload", user.ID, clothing.ID)
	if clothing.ImageURL != nil && *clothing.ImageURL != "" {
		objectKey = *clothing.ImageURL
	}
	uploadUrl, err := controller.AWSService.PresignLink(c.Request().Context(), bucketName, objectKey)
	if err != nil {
		log.Printf("Unable to presign upload for clothing %v: %s", clothing.ID, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to prepare upload"})
	}

	_, statusCode, err := controller.AWSService.UploadToPresignedURL(c.Request().Context(), bucketName, uploadUrl, fileContent)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if statusCode >= 300 {
		fmt.Printf("[User %v] R2 upload for clothing %v returned %v\n", user.ID, clothing.ID, statusCode)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Upload to storage failed"})
	}

	clothing.ImageURL = &objectKey
	clothing.ImageStatus = "uploaded"
	if err := db.Save(&clothing).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update clothing"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "uploaded", "image_key": objectKey})
}

func (controller *WardrobeController) DeleteClothing(c echo.Context) error {
	var clothingId uint
	if err := echo.PathParamsBinder(c).Uint("clothingId", &clothingId).BindError(); err != nil {
		return echo.ErrBadRequest
	}
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	result := db.Where("id = ? and owner_id = ?", clothingId, user.ID).Delete(&models.Clothing{})
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete clothing"})
	}
	if result.RowsAffected == 0 {
		return echo.ErrNotFound
	}
	return c.NoContent(http.StatusNoContent)
}

func clothingResponse(item models.Clothing, uri *string) ClothingResponse {
	return ClothingResponse{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		ClothingType: item.ClothingType,
		Tags:         item.Tags,
		Status:       item.Status,
		Uri:          uri,
		CreatedAt:    item.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    item.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// populatePresignedClothingImages enriches raw clothing rows with presigned
// read URLs concurrently, with a direct R2 fallback when the cache system
// itself fails.
func (controller *WardrobeController) populatePresignedClothingImages(ctx context.Context, clothes []models.Clothing) []ClothingResponse {
	if len(clothes) == 0 {
		return []ClothingResponse{}
	}

	var wg sync.WaitGroup
	processedResponses := make([]ClothingResponse, len(clothes))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, clothingItem := range clothes {
		wg.Add(1)
		go func(index int, item models.Clothing) {
			defer wg.Done()

			var imageUrl string
			if item.ImageURL != nil && *item.ImageURL != "" {
				objectKey := *item.ImageURL
				url, err := controller.URLCache.GetReadURL(ctx, objectKey)
				if err == nil {
					imageUrl = url
				} else {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})
					fallbackUrl, fallbackErr := controller.AWSService.GetPresignedR2FileReadURL(ctx, bucketName, objectKey)
					if fallbackErr != nil {
						log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, fallbackErr)
						sentry.CaptureException(fallbackErr)
					} else {
						imageUrl = fallbackUrl
					}
				}
			}
			processedResponses[index] = clothingResponse(item, &imageUrl)
		}(i, clothingItem)
	}

	wg.Wait()
	return processedResponses
}

func (controller *WardrobeController) ListClothes(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var clothes []models.Clothing
	if err := db.Where("owner_id = ?", user.ID).Order("created_at desc").Find(&clothes).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe"})
	}

	processedResponses := controller.populatePresignedClothingImages(c.Request().Context(), clothes)

	response := WardrobeListResponse{
		Tops:        []ClothingResponse{},
		Bottoms:     []ClothingResponse{},
		Shoes:       []ClothingResponse{},
		Outerwear:   []ClothingResponse{},
		Accessories: []ClothingResponse{},
	}
	for _, resp := range processedResponses {
		switch resp.ClothingType {
		case models.CategoryTop:
			response.Tops = append(response.Tops, resp)
		case models.CategoryBottom:
			response.Bottoms = append(response.Bottoms, resp)
		case models.CategoryShoes:
			response.Shoes = append(response.Shoes, resp)
		case models.CategoryOuterwear:
			response.Outerwear = append(response.Outerwear, resp)
		case models.CategoryAccessory:
			response.Accessories = append(response.Accessories, resp)
		}
	}
	return c.JSON(http.StatusOK, response)
}
