package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"outfitapi/dbhelper"
	"outfitapi/models"
	"outfitapi/test"

	"github.com/stretchr/testify/assert"
)

func webhookEvent(userID uint, eventType string, extra map[string]interface{}) map[string]interface{} {
	event := map[string]interface{}{
		"app_id":               "app70fd013e95",
		"app_user_id":          fmt.Sprint(userID),
		"country_code":         "US",
		"environment":          "SANDBOX",
		"event_timestamp_ms":   1715405366686,
		"id":                   "791C890E-B8AD-46C9-8290-13EAF5F14C9F",
		"original_app_user_id": fmt.Sprint(userID),
		"period_type":          "NORMAL",
		"product_id":           "outfit_pro_plus",
		"store":                "PLAY_STORE",
		"type":                 eventType,
	}
	for k, v := range extra {
		event[k] = v
	}
	return map[string]interface{}{"event": event}
}

func TestWebhookInitialPurchase(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	alerts := &test.AlertServiceMock{}
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, alerts, &test.URLCacheMock{})
	user := test.FakeUser(db, nil)

	data := webhookEvent(user.ID, "INITIAL_PURCHASE", nil)
	req := test.NewJSONAuthRequestCustomAuth("POST", "/webhooks/rc-subscription-webhooks", fmt.Sprintf("Bearer %s", "fake"), data)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// mock subscription status carries an active Pro Plus entitlement
	var updated models.UserAccount
	db.First(&updated, user.ID)
	assert.Equal(t, models.ProPlus, updated.Subscription)
	assert.NotNil(t, updated.SubscriptionExpiresAt)
	assert.True(t, updated.SubscriptionExpiresAt.After(time.Now()))
	assert.Len(t, alerts.Messages, 1)
	assert.Contains(t, alerts.Messages[0], "subscribed")
}

func TestWebhookExpirationDowngrades(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	alerts := &test.AlertServiceMock{}
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, alerts, &test.URLCacheMock{})
	proPlus := models.ProPlus
	user := test.FakeUser(db, &proPlus)

	data := webhookEvent(user.ID, "EXPIRATION", map[string]interface{}{
		"expiration_reason": "UNSUBSCRIBE",
	})
	req := test.NewJSONAuthRequestCustomAuth("POST", "/webhooks/rc-subscription-webhooks", fmt.Sprintf("Bearer %s", "fake"), data)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.UserAccount
	db.First(&updated, user.ID)
	assert.Equal(t, models.Free, updated.Subscription)
	assert.Nil(t, updated.SubscriptionExpiresAt)
	assert.Len(t, alerts.Messages, 1)
}

func TestWebhookTransferSkipped(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db, nil)

	data := webhookEvent(user.ID, "TRANSFER", nil)
	req := test.NewJSONAuthRequestCustomAuth("POST", "/webhooks/rc-subscription-webhooks", fmt.Sprintf("Bearer %s", "fake"), data)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.UserAccount
	db.First(&updated, user.ID)
	assert.Equal(t, models.Free, updated.Subscription)
}

func TestWebhookBadToken(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db, nil)

	data := webhookEvent(user.ID, "INITIAL_PURCHASE", nil)
	req := test.NewJSONAuthRequestCustomAuth("POST", "/webhooks/rc-subscription-webhooks", "Bearer wrong-token", data)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
