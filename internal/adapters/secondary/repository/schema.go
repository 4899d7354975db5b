package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Les règles de cascade vivent dans le schéma, pas dans le code applicatif :
// un user supprimé emporte ses posts et commentaires ; un groupe supprimé
// détache ses posts (SET NULL) sans les supprimer ; un post supprimé emporte
// ses commentaires.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		slug        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id         TEXT PRIMARY KEY,
		text       TEXT NOT NULL,
		image_url  TEXT NOT NULL DEFAULT '',
		author_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		group_id   TEXT REFERENCES groups(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id         TEXT PRIMARY KEY,
		post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		author_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		text       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	// Index alignés sur l'ordre de tri des listings.
	`CREATE INDEX IF NOT EXISTS idx_posts_created ON posts (created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_author ON posts (author_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_group ON posts (group_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_post ON comments (post_id, created_at ASC)`,
}

// EnsureSchema applique le DDL au démarrage (idempotent).
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}
