package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"outfitapi/dbhelper"
	"outfitapi/models"
	"outfitapi/test"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAuthGoogleNewUser(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})

	param := models.GoogleAuthSignIn{
		IdToken:  "fake-google-id-token",
		Platform: "ios",
	}
	req := test.NewJSONRequest("POST", "/auth/google", param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp echo.Map
	json.Unmarshal(rec.Body.Bytes(), &resp)

	assert.Equal(t, "fake@example.com", resp["email"], resp)
	assert.Equal(t, true, resp["new"], resp)
	assert.Equal(t, "pictureurl", resp["avatar"], resp)
	assert.NotEmpty(t, resp["access_token"], resp)
	assert.NotEmpty(t, resp["refresh_token"], resp)

	var user models.UserAccount
	db.First(&user, "email = ?", "fake@example.com")

	assert.Equal(t, "fake@example.com", user.Email)
	assert.Equal(t, "123googleid", user.GoogleID)
	assert.Equal(t, "FINISHED_AUTH", user.Status)
	assert.Equal(t, models.PlatformIOS, user.Platform)
	assert.Equal(t, models.Free, user.Subscription)
}

func TestAuthGoogleExistingUser(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})

	existing := models.UserAccount{
		Name:     "Old Name",
		Email:    "fake@example.com",
		GoogleID: "123googleid",
		Platform: models.PlatformAndroid,
		Status:   "FINISHED_AUTH",
	}
	db.Create(&existing)

	param := models.GoogleAuthSignIn{
		IdToken:  "fake-google-id-token",
		Platform: "ios",
	}
	req := test.NewJSONRequest("POST", "/auth/google", param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp echo.Map
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, false, resp["new"], resp)

	var count int64
	db.Model(&models.UserAccount{}).Where("email = ?", "fake@example.com").Count(&count)
	assert.Equal(t, int64(1), count)

	var user models.UserAccount
	db.First(&user, "email = ?", "fake@example.com")
	assert.Equal(t, models.PlatformIOS, user.Platform)
}

func TestAuthGoogleBannedUser(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})

	banned := models.UserAccount{
		Name:     "Banned",
		Email:    "fake@example.com",
		GoogleID: "123googleid",
		Platform: models.PlatformIOS,
		Status:   "FINISHED_AUTH",
		Banned:   true,
	}
	db.Create(&banned)

	param := models.GoogleAuthSignIn{
		IdToken:  "fake-google-id-token",
		Platform: "ios",
	}
	req := test.NewJSONRequest("POST", "/auth/google", param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthGoogleBadPlatform(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})

	param := models.GoogleAuthSignIn{
		IdToken:  "fake-google-id-token",
		Platform: "symbian",
	}
	req := test.NewJSONRequest("POST", "/auth/google", param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
