package episode

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"logpose.GO/model/entity"
)

type EpisodeRepository struct {
	db *gorm.DB
}

func NewEpisodeRepository(db *gorm.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

// FindByNumber returns gorm.ErrRecordNotFound for unknown episodes.
func (r *EpisodeRepository) FindByNumber(number int) (*entity.Episode, error) {
	var ep entity.Episode
	if err := r.db.First(&ep, "number = ?", number).Error; err != nil {
		return nil, err
	}
	return &ep, nil
}

// FindRange returns episodes from..to inclusive, ordered by number.
func (r *EpisodeRepository) FindRange(from, to int) ([]entity.Episode, error) {
	var eps []entity.Episode
	err := r.db.Where("number BETWEEN ? AND ?", from, to).Order("number").Find(&eps).Error
	return eps, err
}

// LastNumber is the highest stored episode number, 0 when empty.
func (r *EpisodeRepository) LastNumber() (int, error) {
	var ep entity.Episode
	err := r.db.Order("number DESC").Limit(1).Take(&ep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return ep.Number, nil
}

func (r *EpisodeRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&entity.Episode{}).Count(&n).Error
	return n, err
}

// Upsert inserts episodes, replacing existing rows with the same number.
func (r *EpisodeRepository) Upsert(eps []entity.Episode) error {
	if len(eps) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "number"}},
		UpdateAll: true,
	}).CreateInBatches(eps, 100).Error
}
