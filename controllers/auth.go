package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	firebase "firebase.google.com/go/v4"
	apple "github.com/Timothylock/go-signin-with-apple/apple"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"outfitapi/models"
	"outfitapi/services"
)

type AuthController struct {
	Google      services.GoogleServiceProvider
	FirebaseApp *firebase.App
}

func (m *AuthController) AuthRoutes(g *echo.Group) {
	g.POST("/google", m.GoogleSignIn)
	g.POST("/apple", m.AppleSignIn)
}

func (m *AuthController) GoogleSignIn(c echo.Context) error {
	googleCreds := new(models.GoogleAuthSignIn)
	if err := c.Bind(googleCreds); err != nil {
		return err
	}
	if !models.ValidatePlatformRaw(googleCreds.Platform) {
		return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Please provide proper platform parameter"})
	}
	if err := c.Validate(googleCreds); err != nil {
		return err
	}

	payload, err := m.Google.ValidateIdToken(context.Background(), googleCreds.IdToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials"})
	}
	sub, ok := payload.Claims["sub"]
	if !ok {
		sentry.CaptureMessage(fmt.Sprintf("Error when fetching user data %s", payload.Claims))
		return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials"})
	}
	var googleId string = sub.(string)

	googleEmail, ok := payload.Claims["email"].(string)
	if !ok {
		sentry.CaptureMessage(fmt.Sprintf("Error when fetching user data email %s", payload.Claims))
		return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials"})
	}
	pictureUrl, _ := payload.Claims["picture"].(string)
	googleName, _ := payload.Claims["name"].(string)

	db := c.Get("__db").(*gorm.DB)
	var user *models.UserAccount
	r := db.Where("google_id = ? or email = ?", googleId, googleEmail).Limit(1).Find(&user)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"message": "Internal server error"})
	}

	isNew := r.RowsAffected == 0
	if isNew {
		user = &models.UserAccount{
			Name:      googleName,
			Email:     googleEmail,
			GoogleID:  googleId,
			Platform:  models.ScanPlatform(googleCreds.Platform),
			LastIp:    c.RealIP(),
			Status:    "FINISHED_AUTH",
			AvatarURL: pictureUrl,
		}
		if err := db.Create(&user).Error; err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{"message": "Internal server error"})
		}
		fmt.Println("User onboarding finished google: ", googleEmail, googleId)
	} else {
		if user.Banned {
			return echo.ErrForbidden
		}
		user.GoogleID = googleId
		if pictureUrl != "" {
			user.AvatarURL = pictureUrl
		}
		if googleName != "" {
			user.Name = googleName
		}
		user.LastIp = c.RealIP()
		user.Platform = models.ScanPlatform(googleCreds.Platform)
		db.Save(&user)
	}

	refreshToken, err := GenerateRefreshToken(fmt.Sprint(user.ID))
	if err != nil {
		fmt.Println(err)
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"new":           isNew,
		"avatar":        user.AvatarURL,
		"subscription":  user.Subscription,
		"access_token":  GenerateUserToken(fmt.Sprint(user.ID), c, 72),
		"refresh_token": refreshToken,
	})
}

func (m *AuthController) AppleSignIn(c echo.Context) error {
	var req models.AppleAuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	teamID := services.GetEnv("APPLE_TEAM_ID", "")
	keyID := services.GetEnv("APPLE_SIGNIN_KEY_ID", "")
	clientID := services.GetEnv("APPLE_BUNDLE_ID", "com.skripe.outfitai")

	secret, err := services.DecodeBase64EnvPrivateKey("APPLE_SIGNIN_PKEY_BASE64")
	if err != nil {
		log.Println("Error getting Apple private key:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	secret, err = apple.GenerateClientSecret(secret, teamID, clientID, keyID)
	if err != nil {
		log.Println("Error generating Apple client secret:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	client := apple.New()

	vReq := apple.AppValidationTokenRequest{
		ClientID:     clientID,
		ClientSecret: secret,
		Code:         req.AuthorizationCode,
	}
	var resp apple.ValidationResponse
	err = client.VerifyAppToken(context.Background(), vReq, &resp)
	if err != nil {
		fmt.Println("error verifying: " + err.Error())
		return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials"})
	}
	if resp.Error != "" {
		fmt.Printf("apple returned an error: %s - %s\n", resp.Error, resp.ErrorDescription)
		return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials through Apple"})
	}

	unique, err := apple.GetUniqueID(resp.IDToken)
	if err != nil {
		fmt.Println("failed to get unique ID: " + err.Error())
		return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't get your unique identifier"})
	}
	claim, err := apple.GetClaims(resp.IDToken)
	if err != nil {
		fmt.Println("failed to get claims: " + err.Error())
		return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't get your information"})
	}

	appleEmail, ok := (*claim)["email"].(string)
	if !ok {
		fmt.Printf("[Apple signin] no email in token %v\n", claim)
	}
	appleId := unique

	db := c.Get("__db").(*gorm.DB)
	var user *models.UserAccount
	var r *gorm.DB
	if appleEmail == "" {
		r = db.Where("apple_id = ?", appleId).Limit(1).Find(&user)
	} else {
		r = db.Where("apple_id = ? or email = ?", appleId, appleEmail).Limit(1).Find(&user)
	}
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"message": "Internal server error"})
	}

	isNew := r.RowsAffected == 0
	if isNew {
		if appleEmail == "" {
			fmt.Println("[Apple signin] New user but no email in claims")
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "It seems you are signing in the first time and no email was provided by Apple. Please try again or contact us at support@skripe.com."})
		}
		user = &models.UserAccount{
			Name:     appleEmail,
			Email:    appleEmail,
			AppleID:  appleId,
			Platform: models.ScanPlatform(req.Platform),
			LastIp:   c.RealIP(),
			Status:   "FINISHED_AUTH",
		}
		if err := db.Create(&user).Error; err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{"message": "Internal server error"})
		}
		fmt.Println("User onboarding finished apple: ", appleEmail, appleId)
	} else {
		if user.Banned {
			return echo.ErrForbidden
		}
		user.AppleID = appleId
		if user.Name == "" && appleEmail != "" {
			user.Name = appleEmail
		}
		user.LastIp = c.RealIP()
		user.Platform = models.ScanPlatform(req.Platform)
		db.Save(&user)
	}

	refreshToken, err := GenerateRefreshToken(fmt.Sprint(user.ID))
	if err != nil {
		fmt.Println(err)
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"new":           isNew,
		"avatar":        user.AvatarURL,
		"subscription":  user.Subscription,
		"access_token":  GenerateUserToken(fmt.Sprint(user.ID), c, 72),
		"refresh_token": refreshToken,
	})
}
