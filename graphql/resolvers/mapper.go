package resolvers

import (
	gqlmodels "logpose.GO/graphql/models"
	"logpose.GO/model/entity"
)

func mapEpisode(ep *entity.Episode) *gqlmodels.Episode {
	out := &gqlmodels.Episode{
		Number:          int32(ep.Number),
		ImageURL:        ep.ImageURL,
		Kanji:           ep.Kanji,
		Romaji:          ep.Romaji,
		Airdate:         ep.Airdate,
		RemasterAirdate: ep.RemasterAirdate,
		EnglishInfo:     make([]*gqlmodels.EnglishRelease, 0, len(ep.EnglishInfo)),
		Chapters:        nonNil(ep.Chapters),
		IsFiller:        ep.IsFiller,
		NoChapters:      ep.NoChapters,
		ChapterTrouble:  ep.ChapterTrouble,
	}
	for _, r := range ep.EnglishInfo {
		rel := &gqlmodels.EnglishRelease{Distributor: r.Distributor, Title: r.Title}
		if r.Airdate != "" {
			airdate := r.Airdate
			rel.Airdate = &airdate
		}
		out.EnglishInfo = append(out.EnglishInfo, rel)
	}
	return out
}

func mapChapter(ch *entity.Chapter) *gqlmodels.Chapter {
	return &gqlmodels.Chapter{
		Number:         int32(ch.Number),
		ImageURL:       ch.ImageURL,
		Volume:         ch.Volume,
		JapaneseTitle:  ch.JapaneseTitle,
		RomanizedTitle: ch.RomanizedTitle,
		VizTitle:       ch.VizTitle,
		Pages:          ch.Pages,
		ReleaseDate:    ch.ReleaseDate,
		WSJIssue:       ch.WSJIssue,
		Episodes:       nonNil(ch.Episodes),
	}
}

// nonNil keeps list fields non-null in responses.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
