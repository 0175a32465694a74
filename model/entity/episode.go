package entity

import (
	"time"

	"gorm.io/datatypes"
)

// EnglishRelease is one English distribution of an episode.
type EnglishRelease struct {
	Distributor string `json:"distributor"`
	Title       string `json:"epTitle"`
	Airdate     string `json:"airdate,omitempty"`
}

type Episode struct {
	Number          int                                 `gorm:"column:number;primaryKey;autoIncrement:false" json:"episode"`
	ImageURL        string                              `gorm:"column:image_url;type:varchar(512)" json:"imageUrl"`
	Kanji           string                              `gorm:"column:kanji;type:varchar(255)" json:"kanji"`
	Romaji          string                              `gorm:"column:romaji;type:varchar(255)" json:"romaji"`
	Airdate         string                              `gorm:"column:airdate;type:varchar(64)" json:"airdate"`
	RemasterAirdate *string                             `gorm:"column:remaster_airdate;type:varchar(64)" json:"remasterAirdate,omitempty"`
	EnglishInfo     datatypes.JSONSlice[EnglishRelease] `gorm:"column:english_info" json:"englishInfo"`
	Chapters        datatypes.JSONSlice[string]         `gorm:"column:chapters" json:"chapters"`
	IsFiller        bool                                `gorm:"column:is_filler;not null;default:false" json:"isFiller"`
	NoChapters      bool                                `gorm:"column:no_chapters;not null;default:false" json:"noChapters"`
	ChapterTrouble  bool                                `gorm:"column:chapter_trouble;not null;default:false" json:"chapterTrouble"`
	UpdatedAt       time.Time                           `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Episode) TableName() string {
	return "logpose_episode"
}

// LatestEnglish is the most recent English release, if any.
func (e *Episode) LatestEnglish() (EnglishRelease, bool) {
	if len(e.EnglishInfo) == 0 {
		return EnglishRelease{}, false
	}
	return e.EnglishInfo[len(e.EnglishInfo)-1], true
}
