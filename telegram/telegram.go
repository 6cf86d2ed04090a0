package telegram

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"
)

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

func adminChatIDs() []int64 {
	var ids []int64
	for _, raw := range strings.Split(os.Getenv("TG_ADMIN_CHAT_IDS"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fmt.Println("Invalid TG_ADMIN_CHAT_IDS entry:", raw)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// NotifyAdmins sends an ops alert to the configured admin chats. Best
// effort, noop without a token.
func NotifyAdmins(message string) {
	token := os.Getenv("TG_TOKEN")
	if token == "" {
		return
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		fmt.Println("Error tg bot init", err)
		return
	}
	for _, chatID := range adminChatIDs() {
		msg := tgbotapi.NewMessage(chatID, EscapeMessage(message))
		msg.ParseMode = "markdown"
		if _, err := bot.Send(msg); err != nil {
			fmt.Println("Error sending tg alert to", chatID, err)
		}
	}
}

// RunOpsBot answers admin /stats commands with live counts. Blocks, run it
// in a goroutine.
func RunOpsBot(db *gorm.DB) {
	token := os.Getenv("TG_TOKEN")
	if token == "" {
		log.Println("TG_TOKEN not set, ops bot disabled")
		return
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		println("Error tg bot init")
		log.Panic(err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if update.Message.Command() == "stats" {
			var userCount, itemCount, planCount int64
			db.Table("user_accounts").Count(&userCount)
			db.Table("wardrobe_items").Count(&itemCount)
			db.Table("outfit_plans").Count(&planCount)
			text := fmt.Sprintf("Users: %d\nWardrobe items: %d\nPlans: %d", userCount, itemCount, planCount)
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, text)
			bot.Send(msg)
		}
	}
}
