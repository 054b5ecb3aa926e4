package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/baker339/DOGR/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestTallyApplyUpsertsEachBucket(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewPostgresTallyRepository(db)

	mock.ExpectBegin()
	for i := 0; i < 3; i++ {
		mock.ExpectQuery(`INSERT INTO "consumption_tallies" .* ON CONFLICT \("user_id","bucket"\) DO UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(i + 1))
	}
	mock.ExpectCommit()

	err := repo.Apply(context.Background(), "u1", []string{"all", "y2026", "m2026-10"}, 3)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTallyTotals(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewPostgresTallyRepository(db)

	mock.ExpectQuery(`SELECT "user_id","total" FROM "consumption_tallies" WHERE bucket = \$1`).
		WithArgs("y2026").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "total"}).AddRow("a", 7).AddRow("b", 2))

	totals, err := repo.Totals(context.Background(), "y2026")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"a": 7, "b": 2}, totals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTallyReplace(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewPostgresTallyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "consumption_tallies"`).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectQuery(`INSERT INTO "consumption_tallies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	err := repo.Replace(context.Background(), []models.ConsumptionTally{
		{UserID: "a", Bucket: "all", Total: 5},
		{UserID: "b", Bucket: "all", Total: 1},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorLogCreate(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewPostgresErrorLogRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "error_logs"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	entry := &models.ErrorLog{Error: "boom", Location: "/api/posts", Context: "API Route"}
	require.NoError(t, repo.CreateErrorLog(context.Background(), entry))
	assert.Equal(t, uint(1), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
