package controllers

import (
	"errors"
	"net/http"

	"stylaapi/models"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type RegisterPushTokenIn struct {
	Token    string          `json:"token" validate:"required,max=512"`
	Platform models.Platform `json:"platform" validate:"required,platform"`
}

type ProfileController struct{}

func (controller *ProfileController) ProfileRoutes(g *echo.Group) {
	g.POST("/push-token", controller.RegisterPushToken)
}

// RegisterPushToken stores or reactivates a device token so plan-ready
// pushes reach this device.
func (controller *ProfileController) RegisterPushToken(c echo.Context) error {
	var req RegisterPushTokenIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var token models.UserPushToken
	result := db.Where("user_account_id = ? and token = ?", user.ID, req.Token).Take(&token)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		token = models.UserPushToken{
			UserAccountID: user.ID,
			Platform:      req.Platform,
			Token:         req.Token,
			Active:        true,
		}
		if err := db.Create(&token).Error; err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save push token"})
		}
	} else {
		token.Platform = req.Platform
		token.Active = true
		if err := db.Save(&token).Error; err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save push token"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Push token saved"})
}
