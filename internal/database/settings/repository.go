// Package settings provides database operations for reader preferences.
//
// # Usage
//
//	repo := settings.NewRepository(db.DB)
//	all, err := repo.GetAll(ctx)
//	err = repo.Update(ctx, entities.SettingFontSize, entities.EnumValue("large"))
package settings

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/gong/internal/database"
	"github.com/mrlokans/gong/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAll returns the decoded value of every stored setting. Rows whose key
// is no longer recognised are skipped.
func (r *Repository) GetAll(ctx context.Context) (entities.Settings, error) {
	rows, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make(entities.Settings, len(rows))
	for _, row := range rows {
		key, ok := entities.ParseSettingKey(row.Key)
		if !ok {
			continue
		}
		out[key] = entities.DecodeSettingValue(row.Value)
	}
	return out, nil
}

// Get retrieves the value of a single setting.
func (r *Repository) Get(ctx context.Context, key entities.SettingKey) (entities.SettingValue, error) {
	if !key.Known() {
		return entities.SettingValue{}, fmt.Errorf("%w: %q", database.ErrUnknownSetting, string(key))
	}

	var setting entities.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", string(key)).First(&setting).Error; err != nil {
		return entities.SettingValue{}, database.TranslateError(err)
	}
	return entities.DecodeSettingValue(setting.Value), nil
}

// Update stores a new value for key. The value must belong to the key's
// domain and the row must already exist.
func (r *Repository) Update(ctx context.Context, key entities.SettingKey, value entities.SettingValue) error {
	if !key.Known() {
		return fmt.Errorf("%w: %q", database.ErrUnknownSetting, string(key))
	}
	if err := key.Check(value); err != nil {
		return database.ConstraintError(err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Setting{}).Where("key = ?", string(key)).Update("value", value.Encode())
		if result.Error != nil {
			return fmt.Errorf("failed to update setting %s: %w", key, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("setting %s: %w", key, database.ErrNotFound)
		}
		return nil
	})
}

// List returns the raw setting rows in key order.
func (r *Repository) List(ctx context.Context) ([]entities.Setting, error) {
	var rows []entities.Setting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return rows, nil
}

// UpsertAll writes the given rows, replacing existing values.
func (r *Repository) UpsertAll(ctx context.Context, rows []entities.Setting) error {
	if len(rows) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}

// DeleteAll removes every setting row.
func (r *Repository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&entities.Setting{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}
