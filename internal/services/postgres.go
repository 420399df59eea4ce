package services

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// InitPostgres connects to postgres and creates the tables the server needs.
func InitPostgres(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
	id          UUID PRIMARY KEY,
	black_discs INTEGER NOT NULL,
	white_discs INTEGER NOT NULL,
	winner      INTEGER NOT NULL,
	depth       INTEGER NOT NULL,
	move_count  INTEGER NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
