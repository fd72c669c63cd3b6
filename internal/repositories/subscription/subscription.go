package subscription

import (
	"context"
	"errors"
	"strings"

	"github.com/pulse-social/pulse/internal/domain"
)

var (
	ErrAlreadyExists = errors.New("subscription already exists")
	ErrNotFound      = errors.New("subscription not found")
)

//go:generate go run go.uber.org/mock/mockgen -source=subscription.go -destination=mocks/mock.go
type Repository interface {
	Create(ctx context.Context, sub domain.Subscription) error
	Delete(ctx context.Context, chatID int64, username string) error
	GetByChatID(ctx context.Context, chatID int64) ([]*domain.Subscription, error)
	GetAllUniqueAuthors(ctx context.Context) ([]string, error)
	GetSubscribersForAuthor(ctx context.Context, username string) ([]int64, error)
}

// SanitizeUsername normalizes user input into a bare username.
func SanitizeUsername(raw string) string {
	username := strings.TrimSpace(raw)
	username = strings.TrimPrefix(username, "@")
	return strings.ToLower(username)
}
