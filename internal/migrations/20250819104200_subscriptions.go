package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upSubscriptions, downSubscriptions)
}

func upSubscriptions(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE subscriptions (
		id SERIAL PRIMARY KEY,
		chat_id BIGINT NOT NULL,
		author_username VARCHAR NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (chat_id, author_username)
	);
	CREATE INDEX idx_subscriptions_author ON subscriptions (author_username);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downSubscriptions(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE subscriptions;
	`)
	if err != nil {
		return err
	}
	return nil
}
