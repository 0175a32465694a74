package custom

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"logpose.GO/api"
	"logpose.GO/app"
	"logpose.GO/cmd"
	gqlregistry "logpose.GO/graphql/registry"
	"logpose.GO/service/dataset"
)

func init() {
	// GraphQL extension: { _extension(name: "isFiller", args: "{\"episode\": 54}") }
	gqlregistry.Register("isFiller", isFiller)

	// CLI command
	cmd.Register(&cobra.Command{
		Use:   "datasets:stats",
		Short: "Print how many episodes and chapters are stored",
		RunE: func(c *cobra.Command, _ []string) error {
			a, err := app.New(c.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			st, err := a.Datasets.Stats(c.Context())
			if err != nil {
				return err
			}
			c.Printf("episodes: %d (last %d)\nchapters: %d (last %d)\n",
				st.Episodes, a.Datasets.MaxEpisode(c.Context()), st.Chapters, a.Datasets.MaxChapter(c.Context()))
			return nil
		},
	})

	// HTTP route
	api.RegisterGET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

func isFiller(_ context.Context, args map[string]any) (any, error) {
	n, ok := args["episode"].(float64)
	if !ok || n < 1 {
		return nil, errors.New("isFiller needs a positive episode number")
	}
	return map[string]any{"episode": int(n), "filler": dataset.IsFiller(int(n))}, nil
}
