package scraper

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"logpose.GO/model/entity"
)

// Store is where scraped records are persisted.
type Store interface {
	LastEpisode() (int, error)
	LastChapter() (int, error)
	SaveEpisodes(ctx context.Context, eps []entity.Episode) error
	SaveChapters(ctx context.Context, chs []entity.Chapter) error
}

// Updater appends newly published episodes and chapters to the store.
type Updater struct {
	scraper *Scraper
	store   Store
	log     *zap.SugaredLogger
}

func NewUpdater(s *Scraper, store Store, log *zap.SugaredLogger) *Updater {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Updater{scraper: s, store: store, log: log.Named("updater")}
}

// UpdateEpisodes scrapes every episode after the last stored one and
// returns how many were saved.
func (u *Updater) UpdateEpisodes(ctx context.Context) (int, error) {
	last, err := u.store.LastEpisode()
	if err != nil {
		return 0, errors.Wrap(err, "read last episode")
	}
	u.log.Infof("last episode recorded is %d", last)

	eps, err := u.scraper.ScrapeEpisodes(ctx, last+1, Unbounded)
	if err != nil {
		return 0, errors.Wrap(err, "scrape episodes")
	}
	if len(eps) == 0 {
		u.log.Info("episode data is up to date")
		return 0, nil
	}
	if err := u.store.SaveEpisodes(ctx, eps); err != nil {
		return 0, err
	}
	u.log.Infof("saved %d new episodes", len(eps))
	return len(eps), nil
}

// UpdateChapters scrapes every chapter after the last stored one and
// returns how many were saved.
func (u *Updater) UpdateChapters(ctx context.Context) (int, error) {
	last, err := u.store.LastChapter()
	if err != nil {
		return 0, errors.Wrap(err, "read last chapter")
	}
	u.log.Infof("last chapter recorded is %d", last)

	chs, err := u.scraper.ScrapeChapters(ctx, last+1, Unbounded)
	if err != nil {
		return 0, errors.Wrap(err, "scrape chapters")
	}
	if len(chs) == 0 {
		u.log.Info("chapter data is up to date")
		return 0, nil
	}
	if err := u.store.SaveChapters(ctx, chs); err != nil {
		return 0, err
	}
	u.log.Infof("saved %d new chapters", len(chs))
	return len(chs), nil
}

// UpdateAll runs both updates concurrently.
func (u *Updater) UpdateAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := u.UpdateEpisodes(ctx)
		return err
	})
	g.Go(func() error {
		_, err := u.UpdateChapters(ctx)
		return err
	})
	return g.Wait()
}
