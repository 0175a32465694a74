package chapter

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"logpose.GO/model/entity"
)

type ChapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) *ChapterRepository {
	return &ChapterRepository{db: db}
}

// FindByNumber returns gorm.ErrRecordNotFound for unknown chapters.
func (r *ChapterRepository) FindByNumber(number int) (*entity.Chapter, error) {
	var ch entity.Chapter
	if err := r.db.First(&ch, "number = ?", number).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *ChapterRepository) FindRange(from, to int) ([]entity.Chapter, error) {
	var chs []entity.Chapter
	err := r.db.Where("number BETWEEN ? AND ?", from, to).Order("number").Find(&chs).Error
	return chs, err
}

func (r *ChapterRepository) LastNumber() (int, error) {
	var ch entity.Chapter
	err := r.db.Order("number DESC").Limit(1).Take(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return ch.Number, nil
}

func (r *ChapterRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&entity.Chapter{}).Count(&n).Error
	return n, err
}

func (r *ChapterRepository) Upsert(chs []entity.Chapter) error {
	if len(chs) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "number"}},
		UpdateAll: true,
	}).CreateInBatches(chs, 100).Error
}
