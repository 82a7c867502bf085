package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/cardfolio/cardfolio-backend/internal/cards/domain"
)

const profileCols = `public_id, slug, prefix, first_name, last_name, title, company, department,
email, phone, website, address, bio, is_default, created_at, updated_at`

// ProfileRepository provides persistence operations for card profiles.
// Every query is scoped by user_id, so a record owned by someone else is
// indistinguishable from a missing one.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.PublicID, &p.Slug, &p.Prefix, &p.FirstName, &p.LastName, &p.Title,
		&p.Company, &p.Department, &p.Email, &p.Phone, &p.Website, &p.Address,
		&p.Bio, &p.IsDefault, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new profile for the given user. When the new profile is
// marked default, the user's other profiles lose the flag in the same
// transaction.
func (r *ProfileRepository) Create(ctx context.Context, userDBID string, in domain.Profile) (*domain.Profile, error) {
	if in.FirstName == "" || in.LastName == "" {
		return nil, domain.ErrNameRequired
	}

	for i := 0; i < 5; i++ {
		publicID, err := NewPublicID("card")
		if err != nil {
			return nil, err
		}
		slug := NewSlug()

		p, err := r.create(ctx, userDBID, publicID, slug, in)
		if err == nil {
			return p, nil
		}

		// unique violation on public_id/slug → regenerate and retry
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique profile id")
}

func (r *ProfileRepository) create(ctx context.Context, userDBID, publicID, slug string, in domain.Profile) (*domain.Profile, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if in.IsDefault {
		if err := clearDefaultProfiles(ctx, tx, userDBID, ""); err != nil {
			return nil, err
		}
	}

	const q = `
INSERT INTO card_profiles (public_id, user_id, slug, prefix, first_name, last_name, title,
  company, department, email, phone, website, address, bio, is_default)
VALUES ($1, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + profileCols + `;`

	p, err := scanProfile(tx.QueryRowContext(ctx, q,
		publicID, userDBID, slug, in.Prefix, in.FirstName, in.LastName, in.Title,
		in.Company, in.Department, in.Email, in.Phone, in.Website, in.Address,
		in.Bio, in.IsDefault,
	))
	if err != nil {
		return nil, err
	}

	return p, tx.Commit()
}

// clearDefaultProfiles drops the default flag on all of the user's profiles
// except the one named by keepPublicID (pass "" to clear all).
func clearDefaultProfiles(ctx context.Context, tx *sql.Tx, userDBID, keepPublicID string) error {
	const q = `
UPDATE card_profiles
SET is_default = false, updated_at = now()
WHERE user_id = $1::uuid AND is_default AND public_id <> $2 AND deleted_at IS NULL;
`
	_, err := tx.ExecContext(ctx, q, userDBID, keepPublicID)
	return err
}

// GetByPublicID returns the user's profile, or ErrNotFound when it is
// missing or owned by another user.
func (r *ProfileRepository) GetByPublicID(ctx context.Context, userDBID, publicID string) (*domain.Profile, error) {
	const q = `
SELECT ` + profileCols + `
FROM card_profiles
WHERE user_id = $1::uuid AND public_id = $2 AND deleted_at IS NULL;
`
	p, err := scanProfile(r.db.QueryRowContext(ctx, q, userDBID, publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns all non-deleted profiles of the user, newest first.
func (r *ProfileRepository) List(ctx context.Context, userDBID string) ([]domain.Profile, error) {
	const q = `
SELECT ` + profileCols + `
FROM card_profiles
WHERE user_id = $1::uuid AND deleted_at IS NULL
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userDBID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Profile, 0, 8)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update applies a partial update. Nil patch fields leave the stored value
// untouched; an empty patch returns the stored record unchanged. Names may
// not be patched to blank. Marking the profile default clears the flag on
// the user's other profiles in the same transaction.
func (r *ProfileRepository) Update(ctx context.Context, userDBID, publicID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	if patch.Empty() {
		return r.GetByPublicID(ctx, userDBID, publicID)
	}
	if (patch.FirstName != nil && *patch.FirstName == "") ||
		(patch.LastName != nil && *patch.LastName == "") {
		return nil, domain.ErrNameRequired
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if patch.IsDefault != nil && *patch.IsDefault {
		if err := clearDefaultProfiles(ctx, tx, userDBID, publicID); err != nil {
			return nil, err
		}
	}

	const q = `
UPDATE card_profiles
SET prefix     = COALESCE($3, prefix),
    first_name = COALESCE($4, first_name),
    last_name  = COALESCE($5, last_name),
    title      = COALESCE($6, title),
    company    = COALESCE($7, company),
    department = COALESCE($8, department),
    email      = COALESCE($9, email),
    phone      = COALESCE($10, phone),
    website    = COALESCE($11, website),
    address    = COALESCE($12, address),
    bio        = COALESCE($13, bio),
    is_default = COALESCE($14, is_default),
    updated_at = now()
WHERE user_id = $1::uuid AND public_id = $2 AND deleted_at IS NULL
RETURNING ` + profileCols + `;`

	p, err := scanProfile(tx.QueryRowContext(ctx, q,
		userDBID, publicID, patch.Prefix, patch.FirstName, patch.LastName,
		patch.Title, patch.Company, patch.Department, patch.Email, patch.Phone,
		patch.Website, patch.Address, patch.Bio, patch.IsDefault,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return p, tx.Commit()
}

// SoftDelete marks the profile deleted. Designs referencing it are left in
// place; the nightly sweep retires them.
func (r *ProfileRepository) SoftDelete(ctx context.Context, userDBID, publicID string) (*domain.Profile, error) {
	const q = `
UPDATE card_profiles
SET deleted_at = now(), updated_at = now()
WHERE user_id = $1::uuid AND public_id = $2 AND deleted_at IS NULL
RETURNING ` + profileCols + `;`

	p, err := scanProfile(r.db.QueryRowContext(ctx, q, userDBID, publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// SlugByPublicID returns the share slug of the user's profile. Used for
// cache invalidation after design writes.
func (r *ProfileRepository) SlugByPublicID(ctx context.Context, userDBID, publicID string) (string, error) {
	const q = `
SELECT slug FROM card_profiles
WHERE user_id = $1::uuid AND public_id = $2 AND deleted_at IS NULL;
`
	var slug string
	err := r.db.QueryRowContext(ctx, q, userDBID, publicID).Scan(&slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return slug, nil
}

// GetPublicBySlug resolves a share link: the profile plus its primary
// design, without any ownership check. Used by the unauthenticated viewer.
func (r *ProfileRepository) GetPublicBySlug(ctx context.Context, slug string) (*domain.PublicCard, error) {
	const q = `
SELECT ` + profileCols + `
FROM card_profiles
WHERE slug = $1 AND deleted_at IS NULL;
`
	p, err := scanProfile(r.db.QueryRowContext(ctx, q, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	card := &domain.PublicCard{Profile: *p}

	const dq = `
SELECT d.public_id, p.public_id, d.name, d.template, d.color_scheme, d.font, d.layout,
  d.logo_url, d.is_primary, d.created_at, d.updated_at
FROM card_designs d
JOIN card_profiles p ON p.id = d.profile_id
WHERE p.slug = $1 AND d.is_primary AND d.deleted_at IS NULL AND p.deleted_at IS NULL;
`
	var d domain.Design
	err = r.db.QueryRowContext(ctx, dq, slug).Scan(
		&d.PublicID, &d.ProfilePublicID, &d.Name, &d.Template, &d.ColorScheme,
		&d.Font, &d.Layout, &d.LogoURL, &d.IsPrimary, &d.CreatedAt, &d.UpdatedAt,
	)
	switch {
	case err == nil:
		card.Design = &d
	case errors.Is(err, sql.ErrNoRows):
		// profile without a primary design still renders
	default:
		return nil, err
	}

	return card, nil
}
