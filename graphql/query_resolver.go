package graphql

import (
	"context"

	gqlmodels "logpose.GO/graphql/models"
)

// QueryResolver is implemented by the resolvers package.
type QueryResolver interface {
	Episode(ctx context.Context, number int) (*gqlmodels.Episode, error)
	Chapter(ctx context.Context, number int) (*gqlmodels.Chapter, error)
	Stats(ctx context.Context) (*gqlmodels.Stats, error)
}
