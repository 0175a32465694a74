package cmd

import (
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"logpose.GO/app"
	"logpose.GO/service/scraper"
)

var (
	scrapeMin  int
	scrapeMax  int
	scrapeOut  string
	scrapeSave bool
)

var datasetsScrapeCmd = &cobra.Command{
	Use:       "datasets:scrape episodes|chapters",
	Short:     "Scrape a range of episodes or chapters from the wiki",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"episodes", "chapters"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if scrapeMin < 1 || scrapeMax < scrapeMin {
			return errors.Newf("invalid range %d..%d", scrapeMin, scrapeMax)
		}
		a, err := app.New(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()

		var records any
		var n int
		switch args[0] {
		case "episodes":
			eps, err := a.Scraper.ScrapeEpisodes(ctx, scrapeMin, scrapeMax)
			if err != nil {
				return err
			}
			if scrapeSave {
				if err := a.Datasets.SaveEpisodes(ctx, eps); err != nil {
					return err
				}
			}
			records, n = eps, len(eps)
		case "chapters":
			chs, err := a.Scraper.ScrapeChapters(ctx, scrapeMin, scrapeMax)
			if err != nil {
				return err
			}
			if scrapeSave {
				if err := a.Datasets.SaveChapters(ctx, chs); err != nil {
					return err
				}
			}
			records, n = chs, len(chs)
		}

		if err := writeJSON(cmd.OutOrStdout(), scrapeOut, records); err != nil {
			return err
		}
		if n == 0 {
			cmd.PrintErrln(warnf("No %s available in %d..%d", args[0], scrapeMin, scrapeMax))
			return nil
		}
		cmd.PrintErrln(okf("Scraped %d %s", n, args[0]))
		return nil
	},
}

// writeJSON writes v to path, or to w when path is empty or "-".
func writeJSON(w io.Writer, path string, v any) error {
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "create %s", path)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encode scraped records")
}

var datasetsUpdateCmd = &cobra.Command{
	Use:   "datasets:update",
	Short: "Scrape every episode and chapter published after the stored ones",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := app.New(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Updater.UpdateAll(cmd.Context()); err != nil {
			return err
		}
		st, err := a.Datasets.Stats(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Println(okf("Datasets up to date: %d episodes, %d chapters", st.Episodes, st.Chapters))
		return nil
	},
}

func init() {
	datasetsScrapeCmd.Flags().IntVar(&scrapeMin, "min", 1, "First number to scrape")
	datasetsScrapeCmd.Flags().IntVar(&scrapeMax, "max", scraper.Unbounded, "Last number to scrape; scraping also stops at the first unavailable page")
	datasetsScrapeCmd.Flags().StringVarP(&scrapeOut, "out", "o", "-", "Write the records as JSON to this file")
	datasetsScrapeCmd.Flags().BoolVar(&scrapeSave, "save", false, "Also store the records in the database")
	rootCmd.AddCommand(datasetsScrapeCmd, datasetsUpdateCmd)
}
