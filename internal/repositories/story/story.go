package story

import (
	"context"
	"errors"
	"time"

	"github.com/pulse-social/pulse/internal/domain"
)

var ErrNotFound = errors.New("story not found")
var ErrCannotCreate = errors.New("error create story")

//go:generate go run go.uber.org/mock/mockgen -source=story.go -destination=mocks/mock.go

type Repository interface {
	GetByStoryID(ctx context.Context, storyID string) (*domain.Story, error)
	ListByAuthor(ctx context.Context, username string) ([]*domain.Story, error)
	Create(ctx context.Context, story domain.Story) error
	MarkViewed(ctx context.Context, storyID string) error
	Delete(ctx context.Context, storyID string) error
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
