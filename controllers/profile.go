package controllers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"outfitapi/models"
)

type ProfileController struct {
}

func (controller *ProfileController) ProfileRoutes(g *echo.Group) {
	g.GET("/me", controller.Me)
	g.PUT("/settings", controller.UpdateSettings)
	g.POST("/push-token", controller.RegisterPushToken)
}

func (controller *ProfileController) Me(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	return c.JSON(http.StatusOK, models.UserMeInfoOut{
		Id:                   UIntToStr(user.ID),
		Name:                 user.Name,
		Email:                user.Email,
		AvatarURL:            user.AvatarURL,
		Subscription:         string(user.Subscription),
		StylePreference:      user.StylePreference,
		ReceiveNotifications: user.ReceiveNotifications,
	})
}

func (controller *ProfileController) UpdateSettings(c echo.Context) error {
	var req models.UserSettingsIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	user.ReceiveNotifications = req.ReceiveNotifications
	user.StylePreference = req.StylePreference
	if err := db.Save(&user).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update settings"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"receive_notifications": user.ReceiveNotifications,
		"style_preference":      user.StylePreference,
	})
}

func (controller *ProfileController) RegisterPushToken(c echo.Context) error {
	var req models.UserPushIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var existing models.UserPushToken
	r := db.Where("user_account_id = ? and token = ?", user.ID, req.Token).Limit(1).Find(&existing)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to register push token"})
	}
	if r.RowsAffected > 0 {
		existing.Active = true
		existing.Platform = models.ScanPlatform(req.Platform)
		db.Save(&existing)
		return c.JSON(http.StatusOK, echo.Map{"id": existing.ID})
	}

	pushToken := models.UserPushToken{
		UserAccountID: user.ID,
		Platform:      models.ScanPlatform(req.Platform),
		Token:         req.Token,
		Active:        true,
	}
	if err := db.Create(&pushToken).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to register push token"})
	}
	fmt.Println("Registered push token for user:", user.ID, "platform:", req.Platform)
	return c.JSON(http.StatusCreated, echo.Map{"id": pushToken.ID})
}
