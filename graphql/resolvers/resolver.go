package resolvers

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"logpose.GO/graphql"
	gqlmodels "logpose.GO/graphql/models"
	"logpose.GO/model/entity"
	"logpose.GO/service/dataset"
)

// Datasets is the read side of the dataset service.
type Datasets interface {
	Episode(ctx context.Context, number int) (*entity.Episode, error)
	Chapter(ctx context.Context, number int) (*entity.Chapter, error)
	Stats(ctx context.Context) (dataset.Stats, error)
	MaxEpisode(ctx context.Context) int
	MaxChapter(ctx context.Context) int
}

var _ graphql.QueryResolver = (*QueryResolver)(nil)

// QueryResolver resolves the dataset fields of Query. Extension packages
// answer through _extension (see graphql/registry).
type QueryResolver struct {
	datasets Datasets
	log      *zap.SugaredLogger
}

func NewResolver(d Datasets, log *zap.SugaredLogger) *QueryResolver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &QueryResolver{datasets: d, log: log}
}

// Episode resolves to null for numbers that are not stored.
func (r *QueryResolver) Episode(ctx context.Context, number int) (*gqlmodels.Episode, error) {
	ep, err := r.datasets.Episode(ctx, number)
	if errors.Is(err, dataset.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Errorw("episode query failed", "number", number, "request", graphql.RequestIDFromContext(ctx), "error", err)
		return nil, err
	}
	return mapEpisode(ep), nil
}

// Chapter resolves to null for numbers that are not stored.
func (r *QueryResolver) Chapter(ctx context.Context, number int) (*gqlmodels.Chapter, error) {
	ch, err := r.datasets.Chapter(ctx, number)
	if errors.Is(err, dataset.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Errorw("chapter query failed", "number", number, "request", graphql.RequestIDFromContext(ctx), "error", err)
		return nil, err
	}
	return mapChapter(ch), nil
}

func (r *QueryResolver) Stats(ctx context.Context) (*gqlmodels.Stats, error) {
	st, err := r.datasets.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &gqlmodels.Stats{
		Episodes:   int32(st.Episodes),
		Chapters:   int32(st.Chapters),
		MaxEpisode: int32(r.datasets.MaxEpisode(ctx)),
		MaxChapter: int32(r.datasets.MaxChapter(ctx)),
	}, nil
}
