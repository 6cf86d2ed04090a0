package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"stylaapi/dbhelper"
	"stylaapi/models"
	"stylaapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func generatedPlanFixture(db *gorm.DB, ownerID uint) *models.OutfitPlan {
	plan := &models.OutfitPlan{
		OwnerID:  ownerID,
		PlanType: "week",
		Context:  "Office week",
		Preview:  "Day | Outfit | Extra Notes\nDay 1 | White Shirt | Keep it light",
		Status:   "generated",
		Outfits: []models.PlanOutfit{
			{
				Name:              "Outfit 1: Monday",
				ColorCoordination: "White on blue",
				Position:          0,
				Items: []models.PlanOutfitItem{
					{Name: "White Shirt", Category: "clothing", Color: "white", StyleTags: []string{}},
				},
			},
		},
		MixAndMatchOptions:   []string{"White Shirt + Blue Jeans"},
		BudgetConsiderations: "Use what you own.",
	}
	db.Create(plan)
	return plan
}

func TestCreatePlanInvalidType(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.StylistMock{}, &test.AWSProviderMock{}, test.PDFRendererMock{}, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := CreatePlanIn{PlanType: "decade", Context: "Office week"}
	req := test.NewJSONAuthRequest("POST", "/plans/create", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response["error"], "PlanType")
}

func TestCreatePlanInvalidPreferences(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.StylistMock{}, &test.AWSProviderMock{}, test.PDFRendererMock{}, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	reqBody := CreatePlanIn{
		PlanType:    "week",
		Context:     "Office week",
		Preferences: &models.StylePreferencesIn{PreferredFit: test.NewRefString("baggy")},
	}
	req := test.NewJSONAuthRequest("POST", "/plans/create", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response["error"], "PreferredFit")
}

func TestListPlansOwnOnly(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.StylistMock{}, &test.AWSProviderMock{}, test.PDFRendererMock{}, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)
	other := test.FakeUser2(db, "Other", "other@example.com")

	generatedPlanFixture(db, user.ID)
	generatedPlanFixture(db, other.ID)

	req := test.NewJSONAuthRequest("GET", "/plans/list", strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response []models.OutfitPlan
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Len(t, response, 1)
	assert.Equal(t, "Office week", response[0].Context)
}

func TestGetPlanWithOutfits(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.StylistMock{}, &test.AWSProviderMock{}, test.PDFRendererMock{}, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)
	plan := generatedPlanFixture(db, user.ID)

	req := test.NewJSONAuthRequest("GET", fmt.Sprintf("/plans/%d", plan.ID), strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response models.OutfitPlan
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "generated", response.Status)
	require.Len(t, response.Outfits, 1)
	require.Len(t, response.Outfits[0].Items, 1)
	assert.Equal(t, "White Shirt", response.Outfits[0].Items[0].Name)
}

func TestGetPlanForeignOwner(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.StylistMock{}, &test.AWSProviderMock{}, test.PDFRendererMock{}, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)
	other := test.FakeUser2(db, "Other", "other@example.com")
	plan := generatedPlanFixture(db, other.ID)

	req := test.NewJSONAuthRequest("GET", fmt.Sprintf("/plans/%d", plan.ID), strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportPlanDocumentOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()

	var capturedHTML string
	renderer := test.PDFRendererMock{LastHTML: &capturedHTML}
	e := SetupServer(db, test.StylistMock{}, &test.AWSProviderMock{}, renderer, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)
	test.FakeWardrobeItem(db, user, "White Shirt", "Shirt", "white", "Summer", []string{"casual"})
	plan := generatedPlanFixture(db, user.ID)

	req := test.NewJSONAuthRequest("GET", fmt.Sprintf("/plans/%d/document", plan.ID), strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), fmt.Sprintf("styling-plan-%d.pdf", plan.ID))
	assert.Equal(t, "%PDF-1.4 fake", rec.Body.String())

	assert.Contains(t, capturedHTML, `<table class="outfit-plan">`)
	assert.Contains(t, capturedHTML, `<a href="https://fakecache.com/wardrobe/white-shirt.jpg" target="_blank">White Shirt</a>`)
}

func TestExportPlanDocumentPendingPlan(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.StylistMock{}, &test.AWSProviderMock{}, test.PDFRendererMock{}, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)

	plan := &models.OutfitPlan{
		OwnerID:            user.ID,
		PlanType:           "trip",
		Context:            "Weekend away",
		Status:             "pending",
		MixAndMatchOptions: []string{},
	}
	db.Create(plan)

	req := test.NewJSONAuthRequest("GET", fmt.Sprintf("/plans/%d/document", plan.ID), strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportPlanDocumentRendererDown(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	renderer := test.PDFRendererMock{Err: errors.New("render service returned status 503: chromium crashed")}
	e := SetupServer(db, test.StylistMock{}, &test.AWSProviderMock{}, renderer, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db)
	plan := generatedPlanFixture(db, user.ID)

	req := test.NewJSONAuthRequest("GET", fmt.Sprintf("/plans/%d/document", plan.ID), strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var response map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response["error"], "status 503")
}
