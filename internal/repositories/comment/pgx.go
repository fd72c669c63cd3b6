package comment

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pulse-social/pulse/internal/domain"
	"github.com/pulse-social/pulse/internal/repositories"
	pkgerrors "github.com/pulse-social/pulse/pkg/errors"
	"github.com/pulse-social/pulse/pkg/logger"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("CommentRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "post_id", "author_id", "author_username", "content", "parent_id", "created_at").
		From("comments").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var c domain.Comment
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorUsername, &c.Content, &c.ParentID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &c, nil
}

func (r *PgxRepository) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "post_id", "author_id", "author_username", "content", "parent_id", "created_at").
		From("comments").
		Where(sq.Eq{"post_id": postID}).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorUsername, &c.Content, &c.ParentID, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *PgxRepository) Create(ctx context.Context, comment domain.Comment) error {
	query, args, err := repositories.SqBuilder.
		Insert("comments").
		Columns("id", "post_id", "author_id", "author_username", "content", "parent_id", "created_at").
		Values(comment.ID, comment.PostID, comment.AuthorID, comment.AuthorUsername, comment.Content, comment.ParentID, comment.CreatedAt).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503: the parent_id foreign key does not exist. The UI never
		// offers reply-to on a comment it does not hold, so this is a
		// desync bug and must surface loudly.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return pkgerrors.ErrUnknownParent
		}
		return errors.Join(err, ErrCannotCreate)
	}

	return nil
}
