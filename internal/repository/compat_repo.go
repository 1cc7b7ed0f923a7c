package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gmaddy200516-hash/melodyboxd/internal/database"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
)

type CompatibilityRepository interface {
	// GetCompatibilityCache returns (nil, nil) on a cache miss.
	GetCompatibilityCache(pairKey string) (*models.CompatibilityCache, error)
	UpsertCompatibilityCache(entry *models.CompatibilityCache) error
}

type compatRepo struct {
	db *gorm.DB
}

func NewCompatibilityRepository() CompatibilityRepository {
	return &compatRepo{db: database.DB}
}

func (r *compatRepo) GetCompatibilityCache(pairKey string) (*models.CompatibilityCache, error) {
	var entry models.CompatibilityCache
	err := r.db.Where("pair_key = ?", pairKey).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// UpsertCompatibilityCache overwrites any prior entry for the pair,
// last writer wins.
func (r *compatRepo) UpsertCompatibilityCache(entry *models.CompatibilityCache) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "pair_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score", "cf", "genre", "artist", "language", "era", "computed_at",
		}),
	}).Create(entry).Error
}
