// Standalone GraphQL server. Run with: go run ./cmd/graphql
package main

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"

	"logpose.GO/api"
	graphqlApi "logpose.GO/api/graphql"
	"logpose.GO/app"
)

func main() {
	a, err := app.New(context.Background())
	if err != nil {
		panic(err)
	}
	defer a.Close()

	e := echo.New()
	e.HideBanner = true
	graphqlApi.RegisterGraphQLRoutes(e, &api.Deps{Config: a.Config, DB: a.DB, Datasets: a.Datasets, Log: a.Log})

	// ASCII banner on start (random font each run)
	gqlFonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "doom", "larry3d", "puffy"}
	fig := figure.NewFigure("Log Pose GQL", gqlFonts[rand.Intn(len(gqlFonts))], true)
	fig.Print()
	fmt.Println("Standalone GraphQL server")

	port := a.Config.Port
	a.Log.Infof("GraphQL at http://localhost:%s/graphql  Playground at http://localhost:%s/playground", port, port)
	if err := e.Start(":" + port); err != nil {
		a.Log.Errorw("graphql server stopped", "error", err)
	}
}
