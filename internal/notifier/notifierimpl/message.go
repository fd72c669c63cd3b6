package notifierimpl

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pulse-social/pulse/internal/domain"
)

// SendMessage sends a text message to a subscriber chat.
func (n *NotifierImpl) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := n.TgBot.Send(msg); err != nil {
		n.Logger.Error("Error sending message",
			"chat_id", chatID,
			"error", err)
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// SendMediaByUrl sends a story's media to a subscriber chat. Telegram
// resolves the URL itself, so no download happens here. Videos must go out
// as video messages; Telegram rejects a video URL wrapped in a photo.
func (n *NotifierImpl) SendMediaByUrl(chatID int64, kind domain.MediaKind, url string) error {
	var msg tgbotapi.Chattable
	switch kind {
	case domain.MediaKindVideo:
		msg = tgbotapi.NewVideo(chatID, tgbotapi.FileURL(url))
	default:
		msg = tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url))
	}
	if _, err := n.TgBot.Send(msg); err != nil {
		n.Logger.Error("Error sending media",
			"chat_id", chatID,
			"kind", string(kind),
			"url", url,
			"error", err)
		return fmt.Errorf("failed to send media to chat %d: %w", chatID, err)
	}
	return nil
}

// SendAlert sends an operational alert to the configured ops user. Failures
// are logged and swallowed; alerting must never take the caller down.
func (n *NotifierImpl) SendAlert(msg string) {
	m := tgbotapi.NewMessage(n.Config.Telegram.User, msg)
	if _, err := n.TgBot.Send(m); err != nil {
		n.Logger.Error("Error sending alert",
			"userID", n.Config.Telegram.User,
			"error", err)
		return
	}

	n.Logger.Info("Alert sent", "userID", n.Config.Telegram.User)
}
