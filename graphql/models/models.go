package models

// --- Episode ---

type Episode struct {
	Number          int32             `json:"number"`
	ImageURL        string            `json:"imageUrl"`
	Kanji           string            `json:"kanji"`
	Romaji          string            `json:"romaji"`
	Airdate         string            `json:"airdate"`
	RemasterAirdate *string           `json:"remasterAirdate,omitempty"`
	EnglishInfo     []*EnglishRelease `json:"englishInfo"`
	Chapters        []string          `json:"chapters"`
	IsFiller        bool              `json:"isFiller"`
	NoChapters      bool              `json:"noChapters"`
	ChapterTrouble  bool              `json:"chapterTrouble"`
}

type EnglishRelease struct {
	Distributor string  `json:"distributor"`
	Title       string  `json:"title"`
	Airdate     *string `json:"airdate,omitempty"`
}

// --- Chapter ---

type Chapter struct {
	Number         int32    `json:"number"`
	ImageURL       string   `json:"imageUrl"`
	Volume         string   `json:"volume"`
	JapaneseTitle  string   `json:"japaneseTitle"`
	RomanizedTitle string   `json:"romanizedTitle"`
	VizTitle       string   `json:"vizTitle"`
	Pages          string   `json:"pages"`
	ReleaseDate    string   `json:"releaseDate"`
	WSJIssue       string   `json:"wsjIssue"`
	Episodes       []string `json:"episodes"`
}

// --- Stats ---

type Stats struct {
	Episodes   int32 `json:"episodes"`
	Chapters   int32 `json:"chapters"`
	MaxEpisode int32 `json:"maxEpisode"`
	MaxChapter int32 `json:"maxChapter"`
}
