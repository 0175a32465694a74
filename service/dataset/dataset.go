// Package dataset serves episode and chapter records to the bot and the API,
// backed by the repositories and a layered cache.
package dataset

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"logpose.GO/core/cache"
	"logpose.GO/model/entity"
	chapterRepo "logpose.GO/model/repository/chapter"
	episodeRepo "logpose.GO/model/repository/episode"
)

// ErrNotFound is returned for numbers outside the stored range.
var ErrNotFound = errors.New("dataset record not found")

const (
	TagEpisodes = "episodes"
	TagChapters = "chapters"

	cacheTTL = 6 * time.Hour
)

type Service struct {
	episodes *episodeRepo.EpisodeRepository
	chapters *chapterRepo.ChapterRepository
	cache    *cache.Layered
	log      *zap.SugaredLogger
}

func NewService(db *gorm.DB, c *cache.Layered, log *zap.SugaredLogger) *Service {
	if c == nil {
		c = cache.NewLayered(nil, nil, "logpose:", log)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		episodes: episodeRepo.NewEpisodeRepository(db),
		chapters: chapterRepo.NewChapterRepository(db),
		cache:    c,
		log:      log,
	}
}

// Migrate creates or updates the dataset tables.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(&entity.Episode{}, &entity.Chapter{}), "migrate datasets")
}

func (s *Service) Episode(ctx context.Context, number int) (*entity.Episode, error) {
	key := fmt.Sprintf("episode:%d", number)
	var ep entity.Episode
	if s.cache.Get(ctx, key, &ep) {
		return &ep, nil
	}
	found, err := s.episodes.FindByNumber(number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "episode %d", number)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load episode %d", number)
	}
	s.cache.Set(ctx, key, found, cacheTTL, TagEpisodes)
	return found, nil
}

func (s *Service) Chapter(ctx context.Context, number int) (*entity.Chapter, error) {
	key := fmt.Sprintf("chapter:%d", number)
	var ch entity.Chapter
	if s.cache.Get(ctx, key, &ch) {
		return &ch, nil
	}
	found, err := s.chapters.FindByNumber(number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "chapter %d", number)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load chapter %d", number)
	}
	s.cache.Set(ctx, key, found, cacheTTL, TagChapters)
	return found, nil
}

// MaxEpisode is the highest stored episode number.
func (s *Service) MaxEpisode(ctx context.Context) int {
	return s.max(ctx, "episode:max", TagEpisodes, s.episodes.LastNumber)
}

// MaxChapter is the highest stored chapter number.
func (s *Service) MaxChapter(ctx context.Context) int {
	return s.max(ctx, "chapter:max", TagChapters, s.chapters.LastNumber)
}

func (s *Service) max(ctx context.Context, key, tag string, load func() (int, error)) int {
	var n int
	if s.cache.Get(ctx, key, &n) {
		return n
	}
	n, err := load()
	if err != nil {
		s.log.Errorw("failed to read dataset size", "key", key, "error", err)
		return 0
	}
	s.cache.Set(ctx, key, n, cacheTTL, tag)
	return n
}

// Stats reports the number of stored records of each kind.
type Stats struct {
	Episodes int64 `json:"episodes"`
	Chapters int64 `json:"chapters"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.Episodes, err = s.episodes.Count(); err != nil {
		return st, errors.Wrap(err, "count episodes")
	}
	if st.Chapters, err = s.chapters.Count(); err != nil {
		return st, errors.Wrap(err, "count chapters")
	}
	return st, nil
}

// EpisodeRange lists stored episodes from..to inclusive.
func (s *Service) EpisodeRange(from, to int) ([]entity.Episode, error) {
	return s.episodes.FindRange(from, to)
}

// ChapterRange lists stored chapters from..to inclusive.
func (s *Service) ChapterRange(from, to int) ([]entity.Chapter, error) {
	return s.chapters.FindRange(from, to)
}

func (s *Service) SaveEpisodes(ctx context.Context, eps []entity.Episode) error {
	if err := s.episodes.Upsert(eps); err != nil {
		return errors.Wrap(err, "save episodes")
	}
	s.cache.InvalidateTag(ctx, TagEpisodes)
	return nil
}

func (s *Service) SaveChapters(ctx context.Context, chs []entity.Chapter) error {
	if err := s.chapters.Upsert(chs); err != nil {
		return errors.Wrap(err, "save chapters")
	}
	s.cache.InvalidateTag(ctx, TagChapters)
	return nil
}

// LastEpisode and LastChapter expose the resume points for incremental updates.
func (s *Service) LastEpisode() (int, error) { return s.episodes.LastNumber() }
func (s *Service) LastChapter() (int, error) { return s.chapters.LastNumber() }

const fillerList = "54-60, 98-99, 102, 131-143, 196-206, 220-225, 279-283, 291-292, 303, 317-319, " +
	"326-336, 382-384, 406-407, 426-429, 457-458, 492, 542, 575-578, 590, 626-627, 747-750, " +
	"780-782, 895-896, 907, 1029-1030"

var (
	fillerOnce sync.Once
	fillers    map[int]struct{}
	digits     = regexp.MustCompile(`\d+`)
)

// IsFiller reports whether the anime episode is a known filler episode.
func IsFiller(episode int) bool {
	fillerOnce.Do(func() {
		fillers = map[int]struct{}{}
		for _, part := range strings.Split(fillerList, ", ") {
			bounds := strings.Split(part, "-")
			lo, _ := strconv.Atoi(bounds[0])
			hi := lo
			if len(bounds) == 2 {
				hi, _ = strconv.Atoi(bounds[1])
			}
			for n := lo; n <= hi; n++ {
				fillers[n] = struct{}{}
			}
		}
	})
	_, ok := fillers[episode]
	return ok
}

// ChapterRef locates the first adapted chapter of an episode.
type ChapterRef struct {
	Chapter   int
	BeginPage int
	EndPage   int
}

// ExtractChapter parses the first chapter entry of an episode, e.g.
// "Chapter 1 (p. 1-20)". It fails for episodes without chapters or entries
// that do not carry a chapter number and page range.
func ExtractChapter(ep *entity.Episode) (ChapterRef, bool) {
	if ep.NoChapters || len(ep.Chapters) == 0 {
		return ChapterRef{}, false
	}
	m := digits.FindAllString(ep.Chapters[0], 3)
	if len(m) < 3 {
		return ChapterRef{}, false
	}
	var ref ChapterRef
	var err error
	if ref.Chapter, err = strconv.Atoi(m[0]); err != nil {
		return ChapterRef{}, false
	}
	if ref.BeginPage, err = strconv.Atoi(m[1]); err != nil {
		return ChapterRef{}, false
	}
	if ref.EndPage, err = strconv.Atoi(m[2]); err != nil {
		return ChapterRef{}, false
	}
	return ref, true
}

// ExtractEpisode parses the first episode number a chapter was adapted into.
func ExtractEpisode(ch *entity.Chapter) (int, bool) {
	if len(ch.Episodes) == 0 {
		return 0, false
	}
	m := digits.FindString(ch.Episodes[0])
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
