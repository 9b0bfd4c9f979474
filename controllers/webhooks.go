package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"outfitapi/models"
	"outfitapi/services"
)

type WebhooksController struct {
	Google      services.GoogleServiceProvider
	FirebaseApp *firebase.App
	Alerts      services.AlertServiceProvider
}

func (wc *WebhooksController) alert(text string) {
	if wc.Alerts != nil {
		wc.Alerts.Notify(text)
	}
}

func (wc *WebhooksController) SetupRoutes(g *echo.Group) {
	g.POST("/rc-subscription-webhooks", wc.HandleSubscriptionEvent)
}

func (wc *WebhooksController) HandleSubscriptionEvent(c echo.Context) error {
	fmt.Println("Received webhook for subscription event auth: ", c.Request().Header.Get("Authorization"))
	if c.Request().Header.Get("Authorization") != "Bearer "+os.Getenv("RC_WEBHOOK_TOKEN") {
		fmt.Println("Invalid Authorization header for webhook!")
		fmt.Println("[Malicious] IP: ", c.RealIP(), "User agent: ", c.Request().Header.Get("User-Agent"))
		return echo.ErrUnauthorized
	}

	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		fmt.Println("error getting DB for subscription!")
		return echo.ErrInternalServerError
	}

	b, err := io.ReadAll(c.Request().Body)
	if err != nil {
		fmt.Println(err)
		return echo.ErrInternalServerError
	}
	var eventData map[string]interface{}
	fmt.Println("Event: ", string(b))
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&eventData); err != nil {
		fmt.Println("error parsing event json!")
		return echo.ErrInternalServerError
	}

	event, ok := eventData["event"].(map[string]interface{})
	if !ok {
		fmt.Println("Cannot parse event!")
		return echo.ErrInternalServerError
	}
	eventType, _ := event["type"].(string)
	if eventType == "TRANSFER" {
		fmt.Println("Transfer skip..")
		return c.JSON(http.StatusOK, echo.Map{"message": "OK TRANSFER"})
	}

	appUserId, ok := event["app_user_id"].(string)
	if !ok {
		fmt.Println("Cannot parse app user id!")
		return echo.ErrInternalServerError
	}
	if strings.Contains(appUserId, "$RCAnonymousID") {
		appUserId, _ = event["original_app_user_id"].(string)
		if strings.Contains(appUserId, "$RCAnonymousID") {
			fmt.Println("Anonymous ID couldn't verify the user!", appUserId)
			wc.alert(fmt.Sprintf("Unknown user %s event: %s ", appUserId, eventType))
			return c.JSON(http.StatusOK, echo.Map{"message": "Error unknown user"})
		}
	}

	var user models.UserAccount
	userId, err := strconv.ParseUint(appUserId, 10, 32)
	if err != nil {
		fmt.Println("Cannot parse user id to update sub!", appUserId)
		return echo.ErrInternalServerError
	}
	result := db.First(&user, userId)
	if result.Error != nil {
		fmt.Println("Cannot get user to update sub!", appUserId)
		return echo.ErrInternalServerError
	}

	if eventType == "EXPIRATION" {
		reason := event["expiration_reason"]
		user.Subscription = models.Free
		user.SubscriptionExpiresAt = nil
		db.Save(&user)
		wc.alert(fmt.Sprintf("🛑 %s %s reason %v", user.Name, eventType, reason))
		services.SendNotification(wc.FirebaseApp, db, user.ID, "Subscription expired", "Oh no! Your outfit generations are back on the free plan. Subscribe again to keep styling! 🔥", nil)
		return c.JSON(http.StatusOK, echo.Map{"message": "expire ok"})
	}

	if eventType == "CANCELLATION" {
		reason := event["cancel_reason"]
		wc.alert(fmt.Sprintf("🛑 %s %s reason %v", user.Name, eventType, reason))
		if reason == "UNSUBSCRIBE" {
			services.SendNotification(wc.FirebaseApp, db, user.ID, "Subscription cancelled", "Ready to take a survey for a discount just for one feedback? 🔥 sales@skripe.com", nil)
		} else if reason == "BILLING_ERROR" {
			services.SendNotification(wc.FirebaseApp, db, user.ID, "Payment error", "Please update your payment to keep your subscription active! 😮", nil)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "cancel ok"})
	}

	// fetch the authoritative entitlement state from RevenueCat
	b, err = wc.Google.GetUserSubscriptionStatus(context.Background(), appUserId)
	if err != nil {
		fmt.Println(err)
		return echo.ErrInternalServerError
	}
	fmt.Println("Status sub: ", string(b))

	var subData map[string]interface{}
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&subData); err != nil {
		fmt.Println("Error decoding user subscription status", err)
		return echo.ErrInternalServerError
	}
	subscriber, ok := subData["subscriber"].(map[string]interface{})
	if !ok {
		fmt.Println("Error reading sub status of user ", appUserId)
		return echo.ErrInternalServerError
	}
	entitlements, ok := subscriber["entitlements"].(map[string]interface{})
	if !ok {
		fmt.Println("Error reading entitlements of user ", appUserId)
		return echo.ErrInternalServerError
	}

	timeLayout := "2006-01-02T15:04:05Z"
	// RevenueCat entitlement identifiers, checked highest tier first
	planEntitlements := []struct {
		key  string
		plan models.Subscription
	}{
		{"Pro Plus", models.ProPlus},
		{"Pro", models.Pro},
	}
	for _, candidate := range planEntitlements {
		plan := candidate.plan
		entitlement, planOk := entitlements[candidate.key].(map[string]interface{})
		if !planOk {
			continue
		}
		expires, ok := entitlement["expires_date"].(string)
		if !ok {
			fmt.Println("Error parsing expiration date for plan", plan)
			return echo.ErrInternalServerError
		}
		t, err := time.Parse(timeLayout, expires)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if t.After(time.Now()) {
			user.Subscription = plan
			user.SubscriptionExpiresAt = &t
			db.Save(&user)
			if eventType == "INITIAL_PURCHASE" {
				wc.alert(fmt.Sprintf("🎉⚡️🔥 %s subscribed for: %s ", user.Name, string(plan)))
			}
			periodType, ok := event["period_type"].(string)
			if ok && periodType == "PROMOTIONAL" {
				services.SendNotification(wc.FirebaseApp, db, user.ID, "Promo activated 🎉", fmt.Sprintf("Your %s subscription is now active until %s", string(plan), t.Format("2006-01-02")), nil)
			}
			return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("%s is active", plan)})
		}
	}

	fmt.Println("No active sub/entitlements found for user, updating backend sub ", appUserId)
	user.Subscription = models.Free
	user.SubscriptionExpiresAt = nil
	db.Save(&user)
	wc.alert(fmt.Sprintf("⚠️ %s subscription updated: %s %s", user.Name, string(models.Free), eventType))
	return c.JSON(http.StatusOK, echo.Map{"message": "OK"})
}
