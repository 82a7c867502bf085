package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardfolio/cardfolio-backend/internal/cards/domain"
)

const testProfileID = "7e1d0a34-55aa-4b4b-8f6e-2c9d1d0f2b11"

var designColNames = []string{
	"public_id", "profile_public_id", "name", "template", "color_scheme",
	"font", "layout", "logo_url", "is_primary", "created_at", "updated_at",
}

func designRow(publicID string, isPrimary bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(designColNames).AddRow(
		publicID, "card-11111-2222", "Dark", "minimal", "#1a1a1a",
		"Inter", "vertical", "", isPrimary, now, now,
	)
}

func insertedDesignRow(publicID string, isPrimary bool) *sqlmock.Rows {
	now := time.Now()
	cols := []string{
		"public_id", "name", "template", "color_scheme", "font", "layout",
		"logo_url", "is_primary", "created_at", "updated_at",
	}
	return sqlmock.NewRows(cols).AddRow(
		publicID, "Dark", "minimal", "#1a1a1a", "Inter", "vertical",
		"", isPrimary, now, now,
	)
}

func setupDesignRepo(t *testing.T) (*DesignRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return NewDesignRepository(db), mock, db
}

func TestDesignRepository_Create(t *testing.T) {
	t.Run("requires profile_id", func(t *testing.T) {
		repo, _, db := setupDesignRepo(t)
		defer db.Close()

		_, err := repo.Create(context.Background(), testUserID, "", domain.Design{})
		assert.ErrorIs(t, err, domain.ErrProfileRequired)
	})

	t.Run("profile of another user maps to ErrNotFound", func(t *testing.T) {
		repo, mock, db := setupDesignRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM card_profiles`).
			WithArgs(testUserID, "card-11111-2222").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.Create(context.Background(), testUserID, "card-11111-2222", domain.Design{})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("primary design clears siblings in the same transaction", func(t *testing.T) {
		repo, mock, db := setupDesignRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM card_profiles`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testProfileID))
		mock.ExpectExec(`UPDATE card_designs`).
			WithArgs(testUserID, testProfileID, "").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO card_designs`).
			WillReturnRows(insertedDesignRow("dsgn-55555-6666", true))
		mock.ExpectCommit()

		d, err := repo.Create(context.Background(), testUserID, "card-11111-2222", domain.Design{IsPrimary: true})
		require.NoError(t, err)
		assert.True(t, d.IsPrimary)
		assert.Equal(t, "card-11111-2222", d.ProfilePublicID)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDesignRepository_List(t *testing.T) {
	t.Run("filter by foreign profile maps to ErrNotFound", func(t *testing.T) {
		repo, mock, db := setupDesignRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT id FROM card_profiles`).
			WithArgs(testUserID, "card-77777-8888").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.List(context.Background(), testUserID, "card-77777-8888")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unfiltered list skips the ownership probe", func(t *testing.T) {
		repo, mock, db := setupDesignRepo(t)
		defer db.Close()

		mock.ExpectQuery(`(?s)SELECT .+ FROM card_designs`).
			WithArgs(testUserID, "").
			WillReturnRows(designRow("dsgn-55555-6666", true))

		items, err := repo.List(context.Background(), testUserID, "")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "dsgn-55555-6666", items[0].PublicID)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDesignRepository_Update(t *testing.T) {
	t.Run("empty patch returns stored record without writing", func(t *testing.T) {
		repo, mock, db := setupDesignRepo(t)
		defer db.Close()

		mock.ExpectQuery(`(?s)SELECT .+ FROM card_designs`).
			WillReturnRows(designRow("dsgn-55555-6666", false))

		d, err := repo.Update(context.Background(), testUserID, "dsgn-55555-6666", domain.DesignPatch{})
		require.NoError(t, err)
		assert.Equal(t, "Dark", d.Name)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("setting primary clears siblings of the current profile", func(t *testing.T) {
		repo, mock, db := setupDesignRepo(t)
		defer db.Close()

		updatedCols := append(append([]string{}, insertedCols...), "profile_public_id")
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT profile_id, is_primary FROM card_designs`).
			WillReturnRows(sqlmock.NewRows([]string{"profile_id", "is_primary"}).AddRow(testProfileID, false))
		mock.ExpectExec(`UPDATE card_designs`).
			WithArgs(testUserID, testProfileID, "dsgn-55555-6666").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`UPDATE card_designs`).
			WillReturnRows(sqlmock.NewRows(updatedCols).AddRow(
				"dsgn-55555-6666", "Dark", "minimal", "#1a1a1a", "Inter",
				"vertical", "", true, now, now, "card-11111-2222",
			))
		mock.ExpectCommit()

		yes := true
		d, err := repo.Update(context.Background(), testUserID, "dsgn-55555-6666", domain.DesignPatch{IsPrimary: &yes})
		require.NoError(t, err)
		assert.True(t, d.IsPrimary)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("re-parenting a primary design clears siblings in the target profile", func(t *testing.T) {
		repo, mock, db := setupDesignRepo(t)
		defer db.Close()

		const targetProfileID = "9a4c7b10-2d3e-4f5a-8b6c-1e2f3a4b5c6d"
		updatedCols := append(append([]string{}, insertedCols...), "profile_public_id")
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT profile_id, is_primary FROM card_designs`).
			WillReturnRows(sqlmock.NewRows([]string{"profile_id", "is_primary"}).AddRow(testProfileID, true))
		mock.ExpectQuery(`SELECT id FROM card_profiles`).
			WithArgs(testUserID, "card-33333-4444").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(targetProfileID))
		mock.ExpectExec(`UPDATE card_designs`).
			WithArgs(testUserID, targetProfileID, "dsgn-55555-6666").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`UPDATE card_designs`).
			WillReturnRows(sqlmock.NewRows(updatedCols).AddRow(
				"dsgn-55555-6666", "Dark", "minimal", "#1a1a1a", "Inter",
				"vertical", "", true, now, now, "card-33333-4444",
			))
		mock.ExpectCommit()

		target := "card-33333-4444"
		d, err := repo.Update(context.Background(), testUserID, "dsgn-55555-6666", domain.DesignPatch{ProfilePublicID: &target})
		require.NoError(t, err)
		assert.True(t, d.IsPrimary)
		assert.Equal(t, "card-33333-4444", d.ProfilePublicID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("re-parenting to a foreign profile maps to ErrNotFound", func(t *testing.T) {
		repo, mock, db := setupDesignRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT profile_id, is_primary FROM card_designs`).
			WillReturnRows(sqlmock.NewRows([]string{"profile_id", "is_primary"}).AddRow(testProfileID, false))
		mock.ExpectQuery(`SELECT id FROM card_profiles`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		target := "card-77777-8888"
		_, err := repo.Update(context.Background(), testUserID, "dsgn-55555-6666", domain.DesignPatch{ProfilePublicID: &target})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

var insertedCols = []string{
	"public_id", "name", "template", "color_scheme", "font", "layout",
	"logo_url", "is_primary", "created_at", "updated_at",
}

func TestDesignRepository_SoftDelete(t *testing.T) {
	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		repo, mock, db := setupDesignRepo(t)
		defer db.Close()

		mock.ExpectQuery(`UPDATE card_designs`).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.SoftDelete(context.Background(), testUserID, "dsgn-99999-0000")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDesignRepository_RetireOrphans(t *testing.T) {
	repo, mock, db := setupDesignRepo(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE card_designs`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.RetireOrphans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, mock.ExpectationsWereMet())
}
