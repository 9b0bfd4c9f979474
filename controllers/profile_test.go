package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"outfitapi/dbhelper"
	"outfitapi/models"
	"outfitapi/test"

	"github.com/stretchr/testify/assert"
)

func TestGetProfileOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db, nil)

	req := test.NewJSONAuthRequest("GET", "/api/profile/me", strconv.FormatUint(uint64(user.ID), 10), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := map[string]interface{}{}

	err := json.Unmarshal([]byte(rec.Body.String()), &payload)
	if err != nil {
		log.Fatal(err)
	}
	assert.Equal(t, user.Name, payload["name"])
	assert.Equal(t, user.Email, payload["email"])
	assert.Equal(t, "free", payload["subscription"])
}

func TestGetProfileUnauthorized(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	test.FakeUser(db, nil)

	req := test.NewJSONRequest("GET", "/api/profile/me", "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateSettingsOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db, nil)

	reqBody := models.UserSettingsIn{
		ReceiveNotifications: true,
		StylePreference:      test.NewRefString("minimal, dark colors"),
	}
	req := test.NewJSONAuthRequest("PUT", "/api/profile/settings", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.UserAccount
	db.First(&updated, user.ID)
	assert.True(t, updated.ReceiveNotifications)
	assert.Equal(t, "minimal, dark colors", *updated.StylePreference)
}

func TestRegisterPushTokenUpsert(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db, nil)

	reqBody := models.UserPushIn{Token: "new-device-token", Platform: "ios"}
	req := test.NewJSONAuthRequest("POST", "/api/profile/push-token", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// same token again only reactivates, no duplicate row
	req = test.NewJSONAuthRequest("POST", "/api/profile/push-token", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	db.Model(&models.UserPushToken{}).Where("user_account_id = ? and token = ?", user.ID, "new-device-token").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegisterPushTokenInvalidPlatform(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db, nil)

	reqBody := models.UserPushIn{Token: "new-device-token", Platform: "blackberry"}
	req := test.NewJSONAuthRequest("POST", "/api/profile/push-token", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
