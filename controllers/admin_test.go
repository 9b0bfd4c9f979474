package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"outfitapi/dbhelper"
	"outfitapi/models"
	"outfitapi/test"

	"github.com/stretchr/testify/assert"
)

func TestSetGenerationLimitRequiresSuperadmin(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db, nil)

	reqBody := EnforcedLimitIn{Limit: Int32Pointer(50)}
	req := test.NewJSONAuthRequest("PUT", fmt.Sprintf("/api/admin/users/%v/generation-limit", user.ID), strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSetGenerationLimitOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	admin := test.FakeUser(db, nil)
	admin.IsSuperadmin = true
	db.Save(&admin)
	target := test.FakeUserV2(db, "Target", "target@example.com")

	reqBody := EnforcedLimitIn{Limit: Int32Pointer(50)}
	req := test.NewJSONAuthRequest("PUT", fmt.Sprintf("/api/admin/users/%v/generation-limit", target.ID), strconv.FormatUint(uint64(admin.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, float64(50), resp["daily_limit"])

	var updated models.UserAccount
	db.First(&updated, target.ID)
	assert.Equal(t, int32(50), *updated.EnforcedDailyGenerationLimit)
	assert.Equal(t, int32(50), updated.DailyGenerationLimit())

	// clearing the override restores the plan default
	req = test.NewJSONAuthRequestRaw("PUT", fmt.Sprintf("/api/admin/users/%v/generation-limit", target.ID), strconv.FormatUint(uint64(admin.ID), 10), `{"limit": null}`)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	db.First(&updated, target.ID)
	assert.Nil(t, updated.EnforcedDailyGenerationLimit)
	assert.Equal(t, int32(3), updated.DailyGenerationLimit())
}

func TestBanUserLocksAccount(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	admin := test.FakeUser(db, nil)
	admin.IsSuperadmin = true
	db.Save(&admin)
	target := test.FakeUserV2(db, "Target", "target@example.com")

	req := test.NewJSONAuthRequest("PUT", fmt.Sprintf("/api/admin/users/%v/ban", target.ID), strconv.FormatUint(uint64(admin.ID), 10), BanUserIn{Banned: true})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// banned users are locked out of the API
	req = test.NewJSONAuthRequest("GET", "/api/profile/me", strconv.FormatUint(uint64(target.ID), 10), "")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusLocked, rec.Code)
}
