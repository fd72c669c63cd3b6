package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upInit, downInit)
}

func upInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE stories (
		id SERIAL PRIMARY KEY,
		story_id VARCHAR NOT NULL UNIQUE,
		author_id VARCHAR NOT NULL,
		username VARCHAR NOT NULL,
		media_kind VARCHAR NOT NULL,
		media_url TEXT NOT NULL,
		caption TEXT NOT NULL DEFAULT '',
		viewed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX idx_stories_username ON stories (username);
	CREATE INDEX idx_stories_created_at ON stories (created_at);

	CREATE TABLE comments (
		seq BIGSERIAL PRIMARY KEY,
		id VARCHAR NOT NULL UNIQUE,
		post_id VARCHAR NOT NULL,
		author_id VARCHAR NOT NULL,
		author_username VARCHAR NOT NULL,
		content TEXT NOT NULL,
		parent_id VARCHAR REFERENCES comments (id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX idx_comments_post_id ON comments (post_id);
	CREATE INDEX idx_comments_parent_id ON comments (parent_id);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE comments;
	DROP TABLE stories;
	`)
	if err != nil {
		return err
	}
	return nil
}
