package services

import (
	"context"
	"fmt"

	"stylaapi/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

// SendNotification pushes a message to every active device token of the
// user. Best effort: push failures are logged and reported, never returned.
func SendNotification(fbApp *firebase.App, db *gorm.DB, userId uint, title string, message string, customData map[string]string) {
	if fbApp == nil {
		fmt.Println("Firebase app is nil, abort push:", title)
		return
	}
	client, err := fbApp.Messaging(context.Background())
	if err != nil {
		fmt.Println("Error initing FB client", err)
		fmt.Println("Abort push: ", title)
		return
	}
	var tokens []models.UserPushToken
	result := db.Model(models.UserPushToken{}).Where(
		"user_account_id = ? and active = true", userId,
	).Find(&tokens)
	if result.Error != nil {
		fmt.Println("Error fetching push tokens", result.Error)
		sentry.CaptureException(fmt.Errorf("error fetching push tokens for user %v: %v", userId, result.Error))
		return
	}
	for _, token := range tokens {
		msg := &messaging.Message{
			Notification: &messaging.Notification{
				Title: title,
				Body:  message,
			},
			Data:  customData,
			Token: token.Token,
		}
		response, err := client.Send(context.Background(), msg)
		if err != nil {
			fmt.Printf("Error sending push to token %v: %v\n", token.ID, err)
			continue
		}
		fmt.Println("Successfully sent push:", response)
	}
}
