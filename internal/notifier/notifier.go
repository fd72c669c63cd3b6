package notifier

import "github.com/pulse-social/pulse/internal/domain"

// Client delivers out-of-band notifications: new-story pings to subscriber
// chats and operational alerts to the default ops channel.
type Client interface {
	SendMessage(chatID int64, text string) error
	SendMediaByUrl(chatID int64, kind domain.MediaKind, url string) error

	SendAlert(msg string)
}
