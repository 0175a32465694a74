package entity

import (
	"time"

	"gorm.io/datatypes"
)

type Chapter struct {
	Number         int                         `gorm:"column:number;primaryKey;autoIncrement:false" json:"chapter"`
	ImageURL       string                      `gorm:"column:image_url;type:varchar(512)" json:"imageUrl"`
	Volume         string                      `gorm:"column:volume;type:varchar(32)" json:"volume"`
	JapaneseTitle  string                      `gorm:"column:japanese_title;type:varchar(255)" json:"japaneseTitle"`
	RomanizedTitle string                      `gorm:"column:romanized_title;type:varchar(255)" json:"romanizedTitle"`
	VizTitle       string                      `gorm:"column:viz_title;type:varchar(255)" json:"vizTitle"`
	Pages          string                      `gorm:"column:pages;type:varchar(16)" json:"pages"`
	ReleaseDate    string                      `gorm:"column:release_date;type:varchar(64)" json:"releaseDate"`
	WSJIssue       string                      `gorm:"column:wsj_issue;type:varchar(64)" json:"wsjIssue"`
	Episodes       datatypes.JSONSlice[string] `gorm:"column:episodes" json:"episodes"`
	UpdatedAt      time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Chapter) TableName() string {
	return "logpose_chapter"
}
