package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied on startup. Statements are idempotent so repeated
// boots against the same database are safe.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS users (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		firebase_uid text NOT NULL UNIQUE,
		email text,
		display_name text,
		photo_url text,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS card_profiles (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		public_id text NOT NULL UNIQUE,
		user_id uuid NOT NULL REFERENCES users(id),
		slug text NOT NULL UNIQUE,
		prefix text NOT NULL DEFAULT '',
		first_name text NOT NULL,
		last_name text NOT NULL,
		title text NOT NULL DEFAULT '',
		company text NOT NULL DEFAULT '',
		department text NOT NULL DEFAULT '',
		email text NOT NULL DEFAULT '',
		phone text NOT NULL DEFAULT '',
		website text NOT NULL DEFAULT '',
		address text NOT NULL DEFAULT '',
		bio text NOT NULL DEFAULT '',
		is_default boolean NOT NULL DEFAULT false,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now(),
		deleted_at timestamptz
	);`,
	`CREATE INDEX IF NOT EXISTS idx_card_profiles_user ON card_profiles (user_id) WHERE deleted_at IS NULL;`,
	`CREATE TABLE IF NOT EXISTS card_designs (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		public_id text NOT NULL UNIQUE,
		user_id uuid NOT NULL REFERENCES users(id),
		profile_id uuid NOT NULL REFERENCES card_profiles(id),
		name text NOT NULL DEFAULT '',
		template text NOT NULL DEFAULT '',
		color_scheme text NOT NULL DEFAULT '',
		font text NOT NULL DEFAULT '',
		layout text NOT NULL DEFAULT '',
		logo_url text NOT NULL DEFAULT '',
		is_primary boolean NOT NULL DEFAULT false,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now(),
		deleted_at timestamptz
	);`,
	`CREATE INDEX IF NOT EXISTS idx_card_designs_user ON card_designs (user_id) WHERE deleted_at IS NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_card_designs_profile ON card_designs (profile_id) WHERE deleted_at IS NULL;`,
	// One default profile per user, one primary design per (user, profile).
	// The repos clear the flag before setting it inside one transaction; the
	// partial indexes make the invariant hold even against concurrent writers.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_card_profiles_default ON card_profiles (user_id) WHERE is_default AND deleted_at IS NULL;`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_card_designs_primary ON card_designs (user_id, profile_id) WHERE is_primary AND deleted_at IS NULL;`,
}

// EnsureSchema creates the tables the service needs if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
