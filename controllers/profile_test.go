package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"stylaapi/dbhelper"
	"stylaapi/models"
	"stylaapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterPushTokenOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.StylistMock{}, &test.AWSProviderMock{}, test.PDFRendererMock{}, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := RegisterPushTokenIn{Token: "fcm-token-abc", Platform: models.PlatformIOS}
	req := test.NewJSONAuthRequest("POST", "/profile/push-token", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var token models.UserPushToken
	require.NoError(t, db.Where("user_account_id = ? and token = ?", user.ID, "fcm-token-abc").Take(&token).Error)
	assert.True(t, token.Active)
	assert.Equal(t, models.PlatformIOS, token.Platform)
}

func TestRegisterPushTokenUpdatesExisting(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.StylistMock{}, &test.AWSProviderMock{}, test.PDFRendererMock{}, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	stale := models.UserPushToken{UserAccountID: user.ID, Platform: models.PlatformAndroid, Token: "fcm-token-abc", Active: false}
	db.Create(&stale)

	reqBody := RegisterPushTokenIn{Token: "fcm-token-abc", Platform: models.PlatformIOS}
	req := test.NewJSONAuthRequest("POST", "/profile/push-token", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var tokens []models.UserPushToken
	db.Where("user_account_id = ? and token = ?", user.ID, "fcm-token-abc").Find(&tokens)
	require.Len(t, tokens, 1)
	assert.True(t, tokens[0].Active)
	assert.Equal(t, models.PlatformIOS, tokens[0].Platform)
}

func TestRegisterPushTokenInvalidPlatform(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.StylistMock{}, &test.AWSProviderMock{}, test.PDFRendererMock{}, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	// "iosx" must not slip through as "ios"
	reqBody := RegisterPushTokenIn{Token: "fcm-token-abc", Platform: models.Platform("iosx")}
	req := test.NewJSONAuthRequest("POST", "/profile/push-token", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response["error"], "Platform")
}
