package graphql

import (
	"net/http"

	"github.com/graph-gophers/graphql-go"
	"github.com/labstack/echo/v4"

	"logpose.GO/api"
	graphqlpkg "logpose.GO/graphql"
	"logpose.GO/graphqlserver"
)

func init() {
	api.RegisterRoute(func(e *echo.Echo, d *api.Deps) {
		if d == nil || d.Datasets == nil {
			return
		}
		RegisterGraphQLRoutes(e, d)
	})
}

func RegisterGraphQLRoutes(e *echo.Echo, d *api.Deps) {
	schema, err := graphqlserver.NewSchema(d.Datasets, d.Logger())
	if err != nil {
		panic("graphql schema: " + err.Error())
	}
	RegisterGraphQLRoutesWithSchema(e, schema)
}

// RegisterGraphQLRoutesWithSchema registers /graphql with a prepared schema.
func RegisterGraphQLRoutesWithSchema(e *echo.Echo, schema *graphql.Schema) {
	h := requestIDMiddleware(graphqlserver.Handler(schema))
	e.POST("/graphql", echo.WrapHandler(h))
	e.GET("/graphql", echo.WrapHandler(h))
	e.GET("/playground", echo.WrapHandler(playgroundHandler()))
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := graphqlpkg.GetRequestID(r)
		w.Header().Set(graphqlpkg.HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(graphqlpkg.WithRequestID(r.Context(), id)))
	})
}

func playgroundHandler() http.Handler {
	html := `<!DOCTYPE html>
<html>
<head>
	<title>Log Pose GraphQL</title>
	<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/css/index.css"/>
</head>
<body>
	<div id="root"/>
	<script src="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/js/middleware.js"></script>
	<script>window.addEventListener('load', function() {
		GraphQLPlayground.init({ endpoint: '/graphql' });
	})</script>
</body>
</html>`
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(html))
	})
}
