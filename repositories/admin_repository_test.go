package repositories

import (
	"context"
	"regexp"
	"testing"

	"stagestream/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAdminRepository_CreateIfAbsent_OnConflictDoNothing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT ("stage_key") DO NOTHING`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	created, err := repo.CreateIfAbsent(context.Background(), &models.Admin{Username: "admin", Password: "hash", StageKey: "key"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	repo := NewAdminRepository(setupSQLiteDB(t))

	_, err := repo.GetByStageKey(ctx, "key")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	first := &models.Admin{Username: "first", Password: "hash-1", StageKey: "key"}
	created, err := repo.CreateIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	second := &models.Admin{Username: "second", Password: "hash-2", StageKey: "key"}
	created, err = repo.CreateIfAbsent(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)

	stored, err := repo.GetByStageKey(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "first", stored.Username)

	byID, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, byID.ID)
}
