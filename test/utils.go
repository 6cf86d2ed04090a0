package test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"stylaapi/models"
	"stylaapi/services"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {

	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func GenerateUserToken(userPk string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userPk,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	t, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Fatalf("Error when signing user token for %s. Error %s ", userPk, err)
	}
	return t
}

func NewJSONAuthRequest(method string, target string, userPk string, param interface{}) *http.Request {
	log.Println(JsonString(param))
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	token := GenerateUserToken(userPk)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}

func NewRefString(data string) *string {
	return &data
}

func FakeUser(db *gorm.DB) *models.UserAccount {
	user := &models.UserAccount{
		Name:      "OurName",
		Email:     "email@example.com",
		Platform:  models.PlatformIOS,
		LastIp:    "123.122.122.122",
		Status:    "FINISHED_AUTH",
		AvatarURL: "pictureurl",
	}
	db.Create(&user)

	tokenDb := models.UserPushToken{
		UserAccountID: user.ID,
		Platform:      models.PlatformAndroid,
		Token:         "fcm-fake-token-for-tests",
		Active:        true,
	}
	db.Save(&tokenDb)
	return user
}

func FakeUser2(db *gorm.DB, userName string, email string) *models.UserAccount {
	if email == "" {
		email = "email2@example.com"
	}
	user := &models.UserAccount{
		Name:      userName,
		Email:     email,
		Platform:  models.PlatformAndroid,
		LastIp:    "123.122.122.122",
		Status:    "FINISHED_AUTH",
		AvatarURL: "pictureurl",
	}
	db.Create(&user)
	return user
}

func FakeWardrobeItem(db *gorm.DB, owner *models.UserAccount, name string, category string, color string, season string, styleTags []string) *models.WardrobeItem {
	imageKey := fmt.Sprintf("wardrobe/%s.jpg", strings.ToLower(strings.ReplaceAll(name, " ", "-")))
	item := &models.WardrobeItem{
		Name:      name,
		Category:  category,
		Color:     color,
		Season:    season,
		StyleTags: styleTags,
		OwnerID:   owner.ID,
		ImageURL:  &imageKey,
		Status:    "in_closet",
	}
	db.Create(&item)
	return item
}

// StylistMock replays canned replies so controller and task tests never talk
// to the real model.
type StylistMock struct {
	ComposeReply  string
	ComposeErr    error
	NarrativeText string
	NarrativeErr  error
}

func (m StylistMock) ComposeOutfit(ctx context.Context, items []models.WardrobeItem, mood string, season string, occasion string, modelName services.LLMModelName) (*services.LLMResponse, error) {
	if m.ComposeErr != nil {
		return nil, m.ComposeErr
	}
	return &services.LLMResponse{
		Response:           m.ComposeReply,
		InputTokenCount:    10,
		OutputTokenCount:   13,
		ThoughtsTokenCount: 12,
		TotalTokenCount:    11,
	}, nil
}

func (m StylistMock) GeneratePlanNarrative(ctx context.Context, items []models.WardrobeItem, plan models.OutfitPlan, prefs models.StylePreferencesIn, modelName services.LLMModelName) (*services.LLMResponse, error) {
	if m.NarrativeErr != nil {
		return nil, m.NarrativeErr
	}
	return &services.LLMResponse{
		Response:           m.NarrativeText,
		InputTokenCount:    10,
		OutputTokenCount:   13,
		ThoughtsTokenCount: 12,
		TotalTokenCount:    11,
	}, nil
}

type AWSProviderMock struct {
	MockUrl string
}

func (awsService AWSProviderMock) InitPresignClient(ctx context.Context) error {
	return nil
}

func (awsService AWSProviderMock) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {

	return fmt.Sprintf("https://fakebucketurl.com/%s", fileName), nil
}

func (awsService AWSProviderMock) GetPresignedFileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	if awsService.MockUrl != "" {
		return awsService.MockUrl, nil
	}
	return fmt.Sprintf("https://fakebucketurl.com/%s", fileKey), nil
}

type URLCacheMock struct {
	Err error
}

func (m URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return fmt.Sprintf("https://fakecache.com/%s", objectKey), nil
}

type PDFRendererMock struct {
	Err      error
	LastHTML *string
}

func (m PDFRendererMock) RenderDocument(ctx context.Context, title string, bodyHTML string) ([]byte, error) {
	if m.LastHTML != nil {
		*m.LastHTML = bodyHTML
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return []byte("%PDF-1.4 fake"), nil
}
