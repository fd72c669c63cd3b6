package comment

import (
	"context"
	"errors"

	"github.com/pulse-social/pulse/internal/domain"
)

var ErrNotFound = errors.New("comment not found")
var ErrCannotCreate = errors.New("error create comment")

//go:generate go run go.uber.org/mock/mockgen -source=comment.go -destination=mocks/mock.go

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	// ListByPost returns a post's comments in creation order, the only order
	// the thread model preserves.
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	Create(ctx context.Context, comment domain.Comment) error
}
