package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logpose.GO/model/entity"
)

const episodePage = `<html><body>
<div class="mw-parser-output">
<aside class="portable-infobox">
<figure><img class="pi-image-thumbnail" src="https://static.wikia.nocookie.net/onepiece/images/a/ab/Episode_1.png/revision/latest?cb=1"></figure>
<section class="pi-item pi-group pi-border-color">
<h2>Japanese Information</h2>
<div>
<h3>Kanji</h3>
<div>俺はルフィ!海賊王になる男だ!</div>
</div>
<div>
<h3>Romaji</h3>
<div>Ore wa Rufi! Kaizoku Ō ni Naru Otoko da!</div>
</div>
<div>
<h3>Airdate</h3>
<div>October 20, 1999</div>
</div>
<div>
<h3>Remaster Airdate</h3>
<div>November 4, 2012</div>
</div>
</section>
<section class="pi-item pi-group pi-border-color">
<h2>English Information</h2>
<h3>4Kids</h3>
<div>
<h3>Title</h3>
<div>Dawn of the Straw Hats</div>
</div>
<h3>Funimation</h3>
<div>
<h3>Title</h3>
<div>I'm Luffy! The Man Who Will Become the Pirate King!</div>
</div>
<div>
<h3>Airdate</h3>
<div>June 23, 2007</div>
</div>
</section>
<section class="pi-item pi-group pi-border-color">
<h2>Statistics</h2>
<div>
<h3>Chapters</h3>
<div>Chapter 1 (p. 1-20)Chapter 2 (p. 2-5)</div>
</div>
</section>
</aside>
</div>
</body></html>`

const chapterPage = `<html><body>
<div class="mw-parser-output">
<aside class="portable-infobox">
<figure><img class="pi-image-thumbnail" src="https://static.wikia.nocookie.net/onepiece/images/c/c1/Chapter_1.png/revision/latest?cb=2"></figure>
<section class="pi-item pi-group pi-border-color">
<h2>Chapter Info</h2>
<div>
<h3>Volume</h3>
<div>1</div>
</div>
<div>
<h3>Chapter</h3>
<div>1</div>
</div>
<div>
<h3>Japanese Title</h3>
<div>ROMANCE DAWN ―冒険の夜明け―</div>
</div>
<div>
<h3>Romanized Title</h3>
<div>Romance Dawn Bōken no Yoake</div>
</div>
<div>
<h3>Viz Title</h3>
<div>Romance Dawn</div>
</div>
<div>
<h3>Pages</h3>
<div>53</div>
</div>
<div>
<h3>Release Date</h3>
<div>July 22, 1997[ref]</div>
</div>
<div>
<h3>WSJ Issue</h3>
<div>Issue 34 1997</div>
</div>
<div>
<h3>Anime</h3>
<div>Episode 1 (p. 1-20)Episode 2</div>
</div>
</section>
</aside>
</div>
</body></html>`

const placeholderPage = `<html><body>
<div class="mw-parser-output">
<aside class="portable-infobox">
<figure><img class="pi-image-thumbnail" src="https://static.wikia.nocookie.net/onepiece/images/d/d5/NoPicAvailable.png/revision/latest"></figure>
</aside>
</div>
</body></html>`

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func wiki(t *testing.T) (*httptest.Server, *Scraper) {
	t.Helper()
	pages := map[string]string{
		"/Episode_1": episodePage,
		"/Episode_2": placeholderPage,
		"/Chapter_1": chapterPage,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/Chapter_500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv, New(srv.URL, nil, WithHTTPClient(srv.Client()), WithRateLimit(1000, 10))
}

func TestParseEpisode(t *testing.T) {
	ep, ok := ParseEpisode(doc(t, episodePage), 1)
	require.True(t, ok)

	assert.Equal(t, 1, ep.Number)
	assert.Equal(t, "https://static.wikia.nocookie.net/onepiece/images/a/ab/Episode_1.png/", ep.ImageURL)
	assert.Equal(t, "俺はルフィ!海賊王になる男だ!", ep.Kanji)
	assert.Equal(t, "Ore wa Rufi! Kaizoku Ō ni Naru Otoko da!", ep.Romaji)
	assert.Equal(t, "October 20, 1999", ep.Airdate)
	require.NotNil(t, ep.RemasterAirdate)
	assert.Equal(t, "November 4, 2012", *ep.RemasterAirdate)

	require.Len(t, ep.EnglishInfo, 2)
	assert.Equal(t, entity.EnglishRelease{Distributor: "4Kids", Title: "Dawn of the Straw Hats"}, ep.EnglishInfo[0])
	assert.Equal(t, entity.EnglishRelease{
		Distributor: "Funimation",
		Title:       "I'm Luffy! The Man Who Will Become the Pirate King!",
		Airdate:     "June 23, 2007",
	}, ep.EnglishInfo[1])

	assert.Equal(t, []string{"Chapter 1 (p. 1-20)", "Chapter 2 (p. 2-5)"}, []string(ep.Chapters))
	assert.False(t, ep.NoChapters)
	assert.False(t, ep.ChapterTrouble)
	assert.False(t, ep.IsFiller)
}

func TestParseEpisode_Placeholder(t *testing.T) {
	_, ok := ParseEpisode(doc(t, placeholderPage), 2)
	assert.False(t, ok)

	_, ok = ParseEpisode(doc(t, "<html></html>"), 2)
	assert.False(t, ok)
}

func TestStatistics(t *testing.T) {
	t.Run("filler listed", func(t *testing.T) {
		ep := &entity.Episode{Number: 5}
		statistics(ep, "Statistics\nChapters\nFiller episode")
		assert.True(t, ep.NoChapters)
		assert.Equal(t, []string{"Filler episode"}, []string(ep.Chapters))
	})

	t.Run("unsplittable list", func(t *testing.T) {
		ep := &entity.Episode{Number: 5}
		statistics(ep, "Statistics\nChapters\n12 (p. 1)3 (p. 2)")
		assert.True(t, ep.ChapterTrouble)
		assert.Equal(t, []string{"12 (p. 1), 3 (p. 2)"}, []string(ep.Chapters))
	})

	t.Run("no chapters on a filler episode", func(t *testing.T) {
		ep := &entity.Episode{Number: 54}
		statistics(ep, "Statistics\nLength\n24 min")
		assert.True(t, ep.IsFiller)
		assert.True(t, ep.NoChapters)
		assert.True(t, ep.ChapterTrouble)
		assert.Equal(t, []string{"Assumed filler"}, []string(ep.Chapters))
	})

	t.Run("no chapters on a canon episode", func(t *testing.T) {
		ep := &entity.Episode{Number: 5}
		statistics(ep, "")
		assert.Equal(t, []string{"No chapters listed"}, []string(ep.Chapters))
	})
}

func TestSplitChapters(t *testing.T) {
	assert.Nil(t, splitChapters("nothing here"))
	assert.Equal(t, []string{"Chapter 7"}, splitChapters("Chapter 7"))
	assert.Equal(t, []string{"Prologue", "Chapter 1 (p. 1-3)"}, splitChapters("Prologue Chapter 1 (p. 1-3)"))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "a\nb\nc", clean("\n   a\n\n\n   b\n c  "))
	assert.Equal(t, "Luffy's hat", clean("Luffyâ€™s hat"))
}

func TestParseChapter(t *testing.T) {
	ch, ok := ParseChapter(doc(t, chapterPage), 1)
	require.True(t, ok)

	assert.Equal(t, "https://static.wikia.nocookie.net/onepiece/images/c/c1/Chapter_1.png/", ch.ImageURL)
	assert.Equal(t, 1, ch.Number)
	assert.Equal(t, "1", ch.Volume)
	assert.Equal(t, "ROMANCE DAWN ―冒険の夜明け―", ch.JapaneseTitle)
	assert.Equal(t, "Romance Dawn Bōken no Yoake", ch.RomanizedTitle)
	assert.Equal(t, "Romance Dawn", ch.VizTitle)
	assert.Equal(t, "53", ch.Pages)
	assert.Equal(t, "July 22, 1997", ch.ReleaseDate)
	assert.Equal(t, "Issue 34 1997", ch.WSJIssue)
	assert.Equal(t, []string{"Episode 1 (p. 1-20)", "Episode 2"}, []string(ch.Episodes))
}

func TestScrapeEpisodes_StopsAtFirstUnavailable(t *testing.T) {
	_, s := wiki(t)
	eps, err := s.ScrapeEpisodes(context.Background(), 1, Unbounded)
	require.NoError(t, err)
	require.Len(t, eps, 1)
	assert.Equal(t, 1, eps[0].Number)
}

func TestScrapeChapters_StopsAtMissingPage(t *testing.T) {
	_, s := wiki(t)
	chs, err := s.ScrapeChapters(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, chs, 1)
}

func TestScrapeChapter_ServerError(t *testing.T) {
	_, s := wiki(t)
	_, _, err := s.ScrapeChapter(context.Background(), 500)
	assert.Error(t, err)
}

func TestScrape_ContextCancelled(t *testing.T) {
	_, s := wiki(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.ScrapeEpisodes(ctx, 1, 3)
	assert.Error(t, err)
}

type memStore struct {
	mu          sync.Mutex
	lastEpisode int
	lastChapter int
	episodes    []entity.Episode
	chapters    []entity.Chapter
}

func (m *memStore) LastEpisode() (int, error) { return m.lastEpisode, nil }
func (m *memStore) LastChapter() (int, error) { return m.lastChapter, nil }

func (m *memStore) SaveEpisodes(_ context.Context, eps []entity.Episode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.episodes = append(m.episodes, eps...)
	return nil
}

func (m *memStore) SaveChapters(_ context.Context, chs []entity.Chapter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chapters = append(m.chapters, chs...)
	return nil
}

func TestUpdater_ResumesAfterLastStored(t *testing.T) {
	_, s := wiki(t)
	store := &memStore{lastChapter: 1}
	u := NewUpdater(s, store, nil)

	require.NoError(t, u.UpdateAll(context.Background()))
	require.Len(t, store.episodes, 1)
	assert.Equal(t, 1, store.episodes[0].Number)
	assert.Empty(t, store.chapters)

	n, err := u.UpdateChapters(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
