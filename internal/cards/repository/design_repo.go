package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/cardfolio/cardfolio-backend/internal/cards/domain"
)

const designCols = `d.public_id, p.public_id, d.name, d.template, d.color_scheme, d.font,
d.layout, d.logo_url, d.is_primary, d.created_at, d.updated_at`

// DesignRepository provides persistence operations for card designs.
// Designs are scoped by user and reference exactly one of the user's
// profiles.
type DesignRepository struct {
	db *sql.DB
}

func NewDesignRepository(db *sql.DB) *DesignRepository {
	return &DesignRepository{db: db}
}

func scanDesign(row rowScanner) (*domain.Design, error) {
	var d domain.Design
	err := row.Scan(
		&d.PublicID, &d.ProfilePublicID, &d.Name, &d.Template, &d.ColorScheme,
		&d.Font, &d.Layout, &d.LogoURL, &d.IsPrimary, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// resolveProfileID maps a profile public ID to its internal uuid, enforcing
// ownership. A profile of another user resolves to ErrNotFound.
func resolveProfileID(ctx context.Context, q querier, userDBID, profilePublicID string) (string, error) {
	const query = `
SELECT id FROM card_profiles
WHERE user_id = $1::uuid AND public_id = $2 AND deleted_at IS NULL;
`
	var id string
	err := q.QueryRowContext(ctx, query, userDBID, profilePublicID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return id, nil
}

// Create inserts a new design under one of the user's profiles. Marking it
// primary clears the flag on the profile's other designs in the same
// transaction.
func (r *DesignRepository) Create(ctx context.Context, userDBID, profilePublicID string, in domain.Design) (*domain.Design, error) {
	if profilePublicID == "" {
		return nil, domain.ErrProfileRequired
	}

	for i := 0; i < 5; i++ {
		publicID, err := NewPublicID("dsgn")
		if err != nil {
			return nil, err
		}

		d, err := r.create(ctx, userDBID, profilePublicID, publicID, in)
		if err == nil {
			return d, nil
		}

		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique design id")
}

func (r *DesignRepository) create(ctx context.Context, userDBID, profilePublicID, publicID string, in domain.Design) (*domain.Design, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	profileID, err := resolveProfileID(ctx, tx, userDBID, profilePublicID)
	if err != nil {
		return nil, err
	}

	if in.IsPrimary {
		if err := clearPrimaryDesigns(ctx, tx, userDBID, profileID, ""); err != nil {
			return nil, err
		}
	}

	const q = `
INSERT INTO card_designs (public_id, user_id, profile_id, name, template, color_scheme,
  font, layout, logo_url, is_primary)
VALUES ($1, $2::uuid, $3::uuid, $4, $5, $6, $7, $8, $9, $10)
RETURNING public_id, name, template, color_scheme, font, layout, logo_url, is_primary,
  created_at, updated_at;
`
	var d domain.Design
	err = tx.QueryRowContext(ctx, q,
		publicID, userDBID, profileID, in.Name, in.Template, in.ColorScheme,
		in.Font, in.Layout, in.LogoURL, in.IsPrimary,
	).Scan(
		&d.PublicID, &d.Name, &d.Template, &d.ColorScheme, &d.Font, &d.Layout,
		&d.LogoURL, &d.IsPrimary, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.ProfilePublicID = profilePublicID

	return &d, tx.Commit()
}

// clearPrimaryDesigns drops the primary flag on the profile's designs
// except the one named by keepPublicID (pass "" to clear all).
func clearPrimaryDesigns(ctx context.Context, tx *sql.Tx, userDBID, profileID, keepPublicID string) error {
	const q = `
UPDATE card_designs
SET is_primary = false, updated_at = now()
WHERE user_id = $1::uuid AND profile_id = $2::uuid AND is_primary
  AND public_id <> $3 AND deleted_at IS NULL;
`
	_, err := tx.ExecContext(ctx, q, userDBID, profileID, keepPublicID)
	return err
}

// GetByPublicID returns the user's design, or ErrNotFound when it is
// missing or owned by another user.
func (r *DesignRepository) GetByPublicID(ctx context.Context, userDBID, publicID string) (*domain.Design, error) {
	const q = `
SELECT ` + designCols + `
FROM card_designs d
JOIN card_profiles p ON p.id = d.profile_id
WHERE d.user_id = $1::uuid AND d.public_id = $2 AND d.deleted_at IS NULL;
`
	d, err := scanDesign(r.db.QueryRowContext(ctx, q, userDBID, publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// List returns the user's designs, newest first. A non-empty profileFilter
// narrows the result to one profile; filtering by a profile the user does
// not own fails with ErrNotFound.
func (r *DesignRepository) List(ctx context.Context, userDBID, profileFilter string) ([]domain.Design, error) {
	if profileFilter != "" {
		if _, err := resolveProfileID(ctx, r.db, userDBID, profileFilter); err != nil {
			return nil, err
		}
	}

	const q = `
SELECT ` + designCols + `
FROM card_designs d
JOIN card_profiles p ON p.id = d.profile_id
WHERE d.user_id = $1::uuid AND d.deleted_at IS NULL
  AND ($2 = '' OR p.public_id = $2)
ORDER BY d.created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userDBID, profileFilter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Design, 0, 8)
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Update applies a partial update. Nil patch fields leave the stored value
// untouched; an empty patch returns the stored record unchanged. Whenever the
// design ends up primary under the (possibly new) profile, the sibling
// designs of that profile lose the flag in the same transaction. Re-parenting
// via profile_id re-checks ownership of the target profile.
func (r *DesignRepository) Update(ctx context.Context, userDBID, publicID string, patch domain.DesignPatch) (*domain.Design, error) {
	if patch.Empty() {
		return r.GetByPublicID(ctx, userDBID, publicID)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var currentProfileID string
	var currentPrimary bool
	const sel = `
SELECT profile_id, is_primary FROM card_designs
WHERE user_id = $1::uuid AND public_id = $2 AND deleted_at IS NULL;
`
	if err := tx.QueryRowContext(ctx, sel, userDBID, publicID).Scan(&currentProfileID, &currentPrimary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var newProfileID *string
	scopeProfileID := currentProfileID
	if patch.ProfilePublicID != nil {
		id, err := resolveProfileID(ctx, tx, userDBID, *patch.ProfilePublicID)
		if err != nil {
			return nil, err
		}
		newProfileID = &id
		scopeProfileID = id
	}

	// A design keeps its primary flag across a re-parent, and the target
	// profile may already have a primary of its own.
	willBePrimary := currentPrimary
	if patch.IsPrimary != nil {
		willBePrimary = *patch.IsPrimary
	}
	if willBePrimary && (patch.IsPrimary != nil || newProfileID != nil) {
		if err := clearPrimaryDesigns(ctx, tx, userDBID, scopeProfileID, publicID); err != nil {
			return nil, err
		}
	}

	const q = `
UPDATE card_designs
SET profile_id   = COALESCE($3::uuid, profile_id),
    name         = COALESCE($4, name),
    template     = COALESCE($5, template),
    color_scheme = COALESCE($6, color_scheme),
    font         = COALESCE($7, font),
    layout       = COALESCE($8, layout),
    logo_url     = COALESCE($9, logo_url),
    is_primary   = COALESCE($10, is_primary),
    updated_at   = now()
WHERE user_id = $1::uuid AND public_id = $2 AND deleted_at IS NULL
RETURNING public_id, name, template, color_scheme, font, layout, logo_url, is_primary,
  created_at, updated_at, (SELECT public_id FROM card_profiles WHERE id = profile_id);
`
	var d domain.Design
	err = tx.QueryRowContext(ctx, q,
		userDBID, publicID, newProfileID, patch.Name, patch.Template,
		patch.ColorScheme, patch.Font, patch.Layout, patch.LogoURL, patch.IsPrimary,
	).Scan(
		&d.PublicID, &d.Name, &d.Template, &d.ColorScheme, &d.Font, &d.Layout,
		&d.LogoURL, &d.IsPrimary, &d.CreatedAt, &d.UpdatedAt, &d.ProfilePublicID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &d, tx.Commit()
}

// SoftDelete marks the design deleted and returns it.
func (r *DesignRepository) SoftDelete(ctx context.Context, userDBID, publicID string) (*domain.Design, error) {
	const q = `
UPDATE card_designs d
SET deleted_at = now(), updated_at = now()
FROM card_profiles p
WHERE p.id = d.profile_id
  AND d.user_id = $1::uuid AND d.public_id = $2 AND d.deleted_at IS NULL
RETURNING ` + designCols + `;`

	d, err := scanDesign(r.db.QueryRowContext(ctx, q, userDBID, publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// RetireOrphans soft-deletes designs whose profile has been deleted.
// Profile deletion does not cascade, so the nightly sweep keeps orphaned
// designs from accumulating.
func (r *DesignRepository) RetireOrphans(ctx context.Context) (int64, error) {
	const q = `
UPDATE card_designs d
SET deleted_at = now(), updated_at = now()
FROM card_profiles p
WHERE p.id = d.profile_id AND d.deleted_at IS NULL AND p.deleted_at IS NOT NULL;
`
	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
