package story

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pulse-social/pulse/internal/domain"
	"github.com/pulse-social/pulse/internal/repositories"
	"github.com/pulse-social/pulse/pkg/logger"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("StoryRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) GetByStoryID(ctx context.Context, storyID string) (*domain.Story, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "story_id", "author_id", "username", "media_kind", "media_url", "caption", "viewed", "created_at").
		From("stories").
		Where(sq.Eq{"story_id": storyID}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var s domain.Story
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&s.ID, &s.StoryID, &s.AuthorID, &s.UserName, &s.MediaKind, &s.MediaURL, &s.Caption, &s.Viewed, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *PgxRepository) ListByAuthor(ctx context.Context, username string) ([]*domain.Story, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "story_id", "author_id", "username", "media_kind", "media_url", "caption", "viewed", "created_at").
		From("stories").
		Where(sq.Eq{"username": username}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []*domain.Story
	for rows.Next() {
		var s domain.Story
		if err := rows.Scan(&s.ID, &s.StoryID, &s.AuthorID, &s.UserName, &s.MediaKind, &s.MediaURL, &s.Caption, &s.Viewed, &s.CreatedAt); err != nil {
			return nil, err
		}
		stories = append(stories, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stories, nil
}

func (r *PgxRepository) Create(ctx context.Context, story domain.Story) error {
	query, args, err := repositories.SqBuilder.
		Insert("stories").
		Columns("story_id", "author_id", "username", "media_kind", "media_url", "caption", "viewed", "created_at").
		Values(story.StoryID, story.AuthorID, story.UserName, story.MediaKind, story.MediaURL, story.Caption, story.Viewed, story.CreatedAt).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return errors.Join(err, ErrCannotCreate)
	}

	return nil
}

func (r *PgxRepository) MarkViewed(ctx context.Context, storyID string) error {
	query, args, err := repositories.SqBuilder.
		Update("stories").
		Set("viewed", true).
		Where(sq.Eq{"story_id": storyID}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PgxRepository) Delete(ctx context.Context, storyID string) error {
	query, args, err := repositories.SqBuilder.
		Delete("stories").
		Where(sq.Eq{"story_id": storyID}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PgxRepository) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	query, args, err := repositories.SqBuilder.
		Delete("stories").
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	deleted := result.RowsAffected()
	if deleted > 0 {
		r.logger.Info("Cleaned up expired stories", "count", deleted)
	}

	return deleted, nil
}
