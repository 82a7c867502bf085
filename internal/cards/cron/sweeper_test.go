package cronjob

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cardfolio/cardfolio-backend/internal/cards/repository"
)

func TestSweeperRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE card_designs`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	s := NewSweeper(repository.NewDesignRepository(db), "0 0 3 * * *", zap.NewNop())
	s.Run()

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSweeperRejectsBadSchedule(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewSweeper(repository.NewDesignRepository(db), "not a schedule", zap.NewNop())
	require.Error(t, s.Start())
	s.Stop()
}
