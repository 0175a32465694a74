package graphqlserver

import (
	"context"
	"encoding/json"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"go.uber.org/zap"

	"logpose.GO/graphql"
	gqlmodels "logpose.GO/graphql/models"
	"logpose.GO/graphql/registry"
	"logpose.GO/graphql/resolvers"
)

// RootResolver is the root for graphql-go.
type RootResolver struct {
	query *resolvers.QueryResolver
}

// Query returns the query resolver.
func (r *RootResolver) Query() *QueryResolver {
	return &QueryResolver{res: r.query}
}

// QueryResolver adapts schema arguments to the resolvers package.
type QueryResolver struct {
	res *resolvers.QueryResolver
}

// NumberArgs matches the episode and chapter query arguments.
type NumberArgs struct {
	Number int32
}

func (r *QueryResolver) Episode(ctx context.Context, args NumberArgs) (*gqlmodels.Episode, error) {
	return r.res.Episode(ctx, int(args.Number))
}

func (r *QueryResolver) Chapter(ctx context.Context, args NumberArgs) (*gqlmodels.Chapter, error) {
	return r.res.Chapter(ctx, int(args.Number))
}

func (r *QueryResolver) Stats(ctx context.Context) (*gqlmodels.Stats, error) {
	return r.res.Stats(ctx)
}

// ExtensionArgs for _extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	m := map[string]any{}
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	out, err := registry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(datasets resolvers.Datasets, log *zap.SugaredLogger) (*gql.Schema, error) {
	root := &RootResolver{query: resolvers.NewResolver(datasets, log)}
	return gql.ParseSchema(graphql.Schema(), root, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
