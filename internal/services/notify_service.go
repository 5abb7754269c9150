package services

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"wavemedia/internal/models"
)

// Notifier pushes events to the ops channel. All sends are fire-and-forget:
// a delivery failure is logged and never bubbles into the request.
type Notifier interface {
	OrderCreated(order *models.Order)
	NewsPublished(news *models.News)
}

type telegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier returns nil when the token is unset; callers treat a
// nil Notifier as disabled.
func NewTelegramNotifier(botToken string, chatID int64) Notifier {
	if botToken == "" || chatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Warnf("[notify][init] telegram bot unavailable: %v", err)
		return nil
	}
	return &telegramNotifier{bot: bot, chatID: chatID}
}

func (n *telegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.bot.Send(msg); err != nil {
		log.Warnf("[notify][send] telegram send failed: %v", err)
	}
}

func (n *telegramNotifier) OrderCreated(order *models.Order) {
	n.send(fmt.Sprintf(
		"<b>New order</b> %s\nproduct #%d x%d, total %.2f",
		order.Number, order.ProductID, order.Quantity, float64(order.TotalCents)/100,
	))
}

func (n *telegramNotifier) NewsPublished(news *models.News) {
	n.send(fmt.Sprintf("<b>Published:</b> %s", news.Title))
}
