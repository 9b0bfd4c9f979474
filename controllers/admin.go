package controllers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"outfitapi/models"
)

type EnforcedLimitIn struct {
	Limit *int32 `json:"limit" validate:"omitempty,min=0,max=1000"`
}

type BanUserIn struct {
	Banned bool `json:"banned"`
}

type AdminController struct {
}

func (controller *AdminController) AdminRoutes(g *echo.Group) {
	g.PUT("/users/:userId/generation-limit", controller.SetGenerationLimit)
	g.PUT("/users/:userId/ban", controller.SetBanned)
}

// SetGenerationLimit overrides the plan's daily generation cap for one
// user. A null limit restores the plan default.
func (controller *AdminController) SetGenerationLimit(c echo.Context) error {
	var userId uint
	if err := echo.PathParamsBinder(c).Uint("userId", &userId).BindError(); err != nil {
		return echo.ErrBadRequest
	}
	var req EnforcedLimitIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	db := c.Get("__db").(*gorm.DB)

	var target models.UserAccount
	r := db.Where("ID = ?", userId).Limit(1).Find(&target)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch user"})
	}
	if r.RowsAffected == 0 {
		return echo.ErrNotFound
	}
	target.EnforcedDailyGenerationLimit = req.Limit
	if err := db.Save(&target).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update user"})
	}
	fmt.Printf("[Admin] User %v enforced daily limit set to %v\n", target.ID, req.Limit)
	return c.JSON(http.StatusOK, echo.Map{
		"id":          target.ID,
		"daily_limit": target.DailyGenerationLimit(),
	})
}

func (controller *AdminController) SetBanned(c echo.Context) error {
	var userId uint
	if err := echo.PathParamsBinder(c).Uint("userId", &userId).BindError(); err != nil {
		return echo.ErrBadRequest
	}
	var req BanUserIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	db := c.Get("__db").(*gorm.DB)

	var target models.UserAccount
	r := db.Where("ID = ?", userId).Limit(1).Find(&target)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch user"})
	}
	if r.RowsAffected == 0 {
		return echo.ErrNotFound
	}
	target.Banned = req.Banned
	if err := db.Save(&target).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update user"})
	}
	fmt.Printf("[Admin] User %v banned: %v\n", target.ID, req.Banned)
	return c.JSON(http.StatusOK, echo.Map{"id": target.ID, "banned": target.Banned})
}
