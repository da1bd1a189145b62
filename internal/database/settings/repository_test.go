package settings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/gong/internal/database"
	"github.com/mrlokans/gong/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "settings.db"), database.Options{LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB), db.DB
}

func TestRepository_GetAll_Defaults(t *testing.T) {
	repo, _ := setupTestDB(t)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultSettings(), all)
	assert.Equal(t, "page", all.Tag(entities.SettingViewMode))
	assert.False(t, all.Bool(entities.SettingEinkMode))
}

func TestRepository_GetAll_SkipsUnknownRows(t *testing.T) {
	repo, db := setupTestDB(t)
	require.NoError(t, db.Create(&entities.Setting{Key: "legacyTheme", Value: "dark"}).Error)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, len(entities.SettingKeys()))
}

func TestRepository_Update(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Update(ctx, entities.SettingFontSize, entities.EnumValue("large")))
	require.NoError(t, repo.Update(ctx, entities.SettingHaptic, entities.BoolValue(true)))

	size, err := repo.Get(ctx, entities.SettingFontSize)
	require.NoError(t, err)
	assert.Equal(t, "large", size.Tag())

	haptic, err := repo.Get(ctx, entities.SettingHaptic)
	require.NoError(t, err)
	on, ok := haptic.Bool()
	assert.True(t, ok)
	assert.True(t, on)
}

func TestRepository_Update_Rejects(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	err := repo.Update(ctx, entities.SettingKey("theme"), entities.EnumValue("dark"))
	assert.True(t, errors.Is(err, database.ErrUnknownSetting))
	assert.True(t, errors.Is(err, database.ErrConstraint))

	err = repo.Update(ctx, entities.SettingFontSize, entities.EnumValue("huge"))
	assert.True(t, errors.Is(err, database.ErrConstraint))
	assert.False(t, errors.Is(err, database.ErrUnknownSetting))

	err = repo.Update(ctx, entities.SettingHaptic, entities.EnumValue("loud"))
	assert.True(t, errors.Is(err, database.ErrConstraint))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultSettings(), all)
}

func TestRepository_Update_MissingRow(t *testing.T) {
	repo, db := setupTestDB(t)
	require.NoError(t, db.Where("key = ?", "sound").Delete(&entities.Setting{}).Error)

	err := repo.Update(context.Background(), entities.SettingSound, entities.BoolValue(true))
	assert.True(t, errors.Is(err, database.ErrNotFound))
}

func TestRepository_Get_Unknown(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.Get(context.Background(), entities.SettingKey("theme"))
	assert.True(t, errors.Is(err, database.ErrUnknownSetting))
}

func TestRepository_UpsertAllAndDeleteAll(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertAll(ctx, []entities.Setting{
		{Key: "viewMode", Value: "continuous"},
		{Key: "sound", Value: "true"},
	}))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "continuous", all.Tag(entities.SettingViewMode))
	assert.True(t, all.Bool(entities.SettingSound))
	assert.Equal(t, "medium", all.Tag(entities.SettingFontSize))

	require.NoError(t, repo.DeleteAll(ctx))
	rows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
