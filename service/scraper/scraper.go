// Package scraper reads episode and chapter infoboxes from the One Piece
// fandom wiki.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"logpose.GO/model/entity"
	"logpose.GO/service/dataset"
)

const (
	DefaultBaseURL = "https://onepiece.fandom.com/wiki/"

	// NoPicture is the wiki's placeholder image for pages that are not
	// written yet.
	NoPicture = "https://static.wikia.nocookie.net/onepiece/images/d/d5/NoPicAvailable.png/"

	imageSelector   = ".mw-parser-output .portable-infobox .pi-image-thumbnail"
	sectionSelector = ".mw-parser-output .portable-infobox section.pi-item.pi-group.pi-border-color"

	// Unbounded is the open upper end of a scrape range.
	Unbounded = 999999
)

var (
	// ErrPageMissing is returned when the wiki has no page for a number.
	ErrPageMissing = errors.New("wiki page missing")

	leadingSpace  = regexp.MustCompile(`\n\s+`)
	blankLines    = regexp.MustCompile(`\n{2,}`)
	joinedChapter = regexp.MustCompile(`\)(\d)`)
	joinedEpisode = regexp.MustCompile(`\)([a-zA-Z])`)
)

type Scraper struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.SugaredLogger
}

type Option func(*Scraper)

func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) { s.http = c }
}

// WithRateLimit caps page fetches per second.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Scraper) { s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

func New(baseURL string, log *zap.SugaredLogger, opts ...Option) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Scraper{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
		log:     log.Named("scraper"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Scraper) fetch(ctx context.Context, page string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+page, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", page)
	}
	res, err := s.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", page)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, errors.Wrap(ErrPageMissing, page)
	}
	if res.StatusCode != http.StatusOK {
		return nil, errors.Newf("fetch %s: status %d", page, res.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", page)
	}
	return doc, nil
}

// ScrapeEpisode reads one episode page. ok is false when the wiki has no
// data for the episode yet.
func (s *Scraper) ScrapeEpisode(ctx context.Context, n int) (*entity.Episode, bool, error) {
	s.log.Debugf("scraping episode %d", n)
	doc, err := s.fetch(ctx, fmt.Sprintf("Episode_%d", n))
	if errors.Is(err, ErrPageMissing) {
		s.log.Warnf("data for episode %d is not available", n)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	ep, ok := ParseEpisode(doc, n)
	if !ok {
		s.log.Warnf("data for episode %d is not available", n)
	}
	return ep, ok, nil
}

// ScrapeChapter reads one chapter page. ok is false when the wiki has no
// data for the chapter yet.
func (s *Scraper) ScrapeChapter(ctx context.Context, n int) (*entity.Chapter, bool, error) {
	s.log.Debugf("scraping chapter %d", n)
	doc, err := s.fetch(ctx, fmt.Sprintf("Chapter_%d", n))
	if errors.Is(err, ErrPageMissing) {
		s.log.Warnf("data for chapter %d is not available", n)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	ch, ok := ParseChapter(doc, n)
	if !ok {
		s.log.Warnf("data for chapter %d is not available", n)
	}
	return ch, ok, nil
}

// ScrapeEpisodes reads episodes from..to and stops at the first one without
// data.
func (s *Scraper) ScrapeEpisodes(ctx context.Context, from, to int) ([]entity.Episode, error) {
	var out []entity.Episode
	for n := from; n <= to; n++ {
		ep, ok, err := s.ScrapeEpisode(ctx, n)
		if err != nil {
			return out, err
		}
		if !ok {
			break
		}
		out = append(out, *ep)
	}
	return out, nil
}

// ScrapeChapters reads chapters from..to and stops at the first one without
// data.
func (s *Scraper) ScrapeChapters(ctx context.Context, from, to int) ([]entity.Chapter, error) {
	var out []entity.Chapter
	for n := from; n <= to; n++ {
		ch, ok, err := s.ScrapeChapter(ctx, n)
		if err != nil {
			return out, err
		}
		if !ok {
			break
		}
		out = append(out, *ch)
	}
	return out, nil
}

// ParseEpisode extracts an episode from its wiki page.
func ParseEpisode(doc *goquery.Document, n int) (*entity.Episode, bool) {
	ep := &entity.Episode{Number: n, ImageURL: image(doc)}
	if !available(ep.ImageURL) {
		return ep, false
	}
	japaneseInfo(ep, lines(section(doc, "Japanese Information")))
	englishInfo(ep, lines(section(doc, "English Information")))
	statistics(ep, section(doc, "Statistics"))
	return ep, true
}

// ParseChapter extracts a chapter from its wiki page.
func ParseChapter(doc *goquery.Document, n int) (*entity.Chapter, bool) {
	ch := &entity.Chapter{Number: n, ImageURL: image(doc)}
	if !available(ch.ImageURL) {
		return ch, false
	}
	chapterInfo(ch, lines(section(doc, "Chapter Info")))
	return ch, true
}

func image(doc *goquery.Document) string {
	src, _ := doc.Find(imageSelector).First().Attr("src")
	if i := strings.Index(src, "revision"); i >= 0 {
		src = src[:i]
	}
	return src
}

func available(img string) bool {
	return img != "" && img != NoPicture
}

// section is the cleaned text of the infobox group with the given heading.
func section(doc *goquery.Document, heading string) string {
	var b strings.Builder
	doc.Find(sectionSelector).Each(func(_ int, sel *goquery.Selection) {
		if strings.TrimSpace(sel.Find("h2").Text()) == heading {
			b.WriteString(sel.Text())
		}
	})
	return clean(b.String())
}

func clean(s string) string {
	s = leadingSpace.ReplaceAllString(s, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	s = strings.Replace(s, "â€™", "'", 1)
	return strings.TrimSpace(s)
}

func lines(s string) []string {
	return strings.Split(s, "\n")
}

// next is the line after i, or "".
func next(ls []string, i int) string {
	if i+1 < len(ls) {
		return ls[i+1]
	}
	return ""
}

func japaneseInfo(ep *entity.Episode, ls []string) {
	for i, l := range ls {
		switch {
		case strings.HasPrefix(l, "Kanji"):
			ep.Kanji = next(ls, i)
		case strings.HasPrefix(l, "Romaji"):
			ep.Romaji = next(ls, i)
		case strings.HasPrefix(l, "Airdate"):
			ep.Airdate = next(ls, i)
		case strings.HasPrefix(l, "Remaster Airdate"):
			v := next(ls, i)
			ep.RemasterAirdate = &v
		}
	}
}

// englishInfo collects one release per "Title" line; the distributor is the
// line above it.
func englishInfo(ep *entity.Episode, ls []string) {
	for i, l := range ls {
		if !strings.HasPrefix(l, "Title") || i == 0 {
			continue
		}
		r := entity.EnglishRelease{Distributor: ls[i-1], Title: next(ls, i)}
		if i+3 < len(ls) && ls[i+2] == "Airdate" {
			r.Airdate = ls[i+3]
		}
		ep.EnglishInfo = append(ep.EnglishInfo, r)
	}
}

func statistics(ep *entity.Episode, text string) {
	ep.IsFiller = dataset.IsFiller(ep.Number)
	ep.NoChapters = !strings.Contains(text, "Chapters")

	ls := lines(text)
	for i, l := range ls {
		if !strings.HasPrefix(l, "Chapters") {
			continue
		}
		listed := next(ls, i)
		if strings.Contains(strings.ToLower(listed), "filler") {
			ep.NoChapters = true
			ep.Chapters = append(ep.Chapters, listed)
			return
		}
		ep.Chapters = append(ep.Chapters, splitChapters(listed)...)
		if len(ep.Chapters) == 0 {
			ep.Chapters = append(ep.Chapters, joinedChapter.ReplaceAllString(listed, "), $1"))
			ep.ChapterTrouble = true
		}
		return
	}

	if ep.IsFiller {
		ep.Chapters = append(ep.Chapters, "Assumed filler")
	} else {
		ep.Chapters = append(ep.Chapters, "No chapters listed")
	}
	ep.NoChapters = true
	ep.ChapterTrouble = true
}

// splitChapters cuts "Chapter 1 (p. 1-20)Chapter 2 (p. 2-5)" before every
// "Chapter".
func splitChapters(s string) []string {
	if !strings.Contains(s, "Chapter") {
		return nil
	}
	var out []string
	start := 0
	for start < len(s) {
		end := strings.Index(s[start+1:], "Chapter")
		if end < 0 {
			end = len(s)
		} else {
			end += start + 1
		}
		if part := strings.TrimSpace(s[start:end]); part != "" {
			out = append(out, part)
		}
		start = end
	}
	return out
}

func chapterInfo(ch *entity.Chapter, ls []string) {
	for i, l := range ls {
		v := next(ls, i)
		switch {
		case strings.HasPrefix(l, "Volume"):
			ch.Volume = v
		case l == "Chapter":
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				ch.Number = n
			}
		case strings.HasPrefix(l, "Japanese Title"):
			ch.JapaneseTitle = v
		case strings.HasPrefix(l, "Romanized Title"):
			ch.RomanizedTitle = v
		case strings.HasPrefix(l, "Viz Title"):
			ch.VizTitle = v
		case strings.HasPrefix(l, "Pages"):
			ch.Pages = v
		case strings.HasPrefix(l, "Release Date"):
			ch.ReleaseDate = strings.Replace(v, "[ref]", "", 1)
		case strings.HasPrefix(l, "WSJ Issue"):
			ch.WSJIssue = v
		case strings.HasPrefix(l, "Anime"):
			ch.Episodes = strings.Split(joinedEpisode.ReplaceAllString(v, ")#%$1"), "#%")
		}
	}
}
