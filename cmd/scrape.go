package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/seed"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/source"
)

var (
	scrapeSeedFile string
	scrapeOut      string
	scrapeNoCache  bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch Google Scholar profiles for known researchers",
	Long:  "Fetches profiles for the Scholar IDs in the registry (or a seed file) through the configured backend, reusing cached profiles where fresh, and writes the raw records to a JSON checkpoint.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runID, err := st.StartRun(ctx, "scrape")
		if err != nil {
			return err
		}

		var ids []string
		if scrapeSeedFile != "" {
			ids, err = seed.Load(scrapeSeedFile)
			if err != nil {
				_ = st.FinishRun(ctx, runID, "failed", 0, err.Error())
				return err
			}
		} else {
			seen := make(map[string]bool)
			for _, id := range reg.ScholarIDs {
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}

		fetcher, err := source.New(cfg)
		if err != nil {
			_ = st.FinishRun(ctx, runID, "failed", 0, err.Error())
			return err
		}

		var cache source.Cache
		if !scrapeNoCache {
			cache = st
		}

		records, err := source.Collect(ctx, fetcher, ids, cache, zap.L())
		if len(records) > 0 {
			if saveErr := seed.SaveRecords(scrapeOut, records); saveErr != nil {
				_ = st.FinishRun(ctx, runID, "failed", len(records), saveErr.Error())
				return saveErr
			}
		}
		if err != nil {
			_ = st.FinishRun(ctx, runID, "partial", len(records), err.Error())
			return err
		}
		if err := st.FinishRun(ctx, runID, "complete", len(records), "saved to "+scrapeOut); err != nil {
			return err
		}

		zap.L().Info("scrape: checkpoint written",
			zap.String("path", scrapeOut),
			zap.Int("records", len(records)),
		)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeSeedFile, "seed", "s", "", "seed file with Scholar IDs (csv, xlsx, or one per line); defaults to the registry's scholar_ids")
	scrapeCmd.Flags().StringVarP(&scrapeOut, "out", "o", "data/scholar.json", "checkpoint file to write")
	scrapeCmd.Flags().BoolVar(&scrapeNoCache, "no-cache", false, "ignore the profile cache and refetch everything")
	rootCmd.AddCommand(scrapeCmd)
}
