package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/seed"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/source"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/pkg/openalex"
)

var (
	extractOut         string
	extractMinHIndex   int
	extractByTopics    bool
	extractInstitution string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Download researcher profiles from OpenAlex",
	Long:  "Lists authors from the OpenAlex API for the configured country, keeps those in the social sciences, and writes the raw records to a JSON checkpoint for later pipeline runs.",
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

		runID, err := st.StartRun(ctx, "extract")
		if err != nil {
			return err
		}

		client := openalex.NewClient(cfg.OpenAlex.Mailto,
			openalex.WithBaseURL(cfg.OpenAlex.BaseURL),
			openalex.WithPerPage(cfg.OpenAlex.PerPage),
			openalex.WithPageDelay(time.Duration(cfg.OpenAlex.PageDelayMs)*time.Millisecond),
			openalex.WithRetryBackoff(time.Duration(cfg.OpenAlex.RetryBackoffSecs)*time.Second),
		)
		extractor := source.NewExtractor(client, reg, zap.L())

		var records []model.RawRecord
		var listErr error
		switch {
		case extractInstitution != "":
			records, listErr = extractor.ByInstitution(ctx, extractInstitution, cfg.Ranking.Country)
		case extractByTopics:
			records, listErr = extractor.ByTopics(ctx, cfg.Ranking.Country)
		default:
			records, listErr = extractor.ByCountry(ctx, cfg.Ranking.Country, extractMinHIndex)
		}

		// A partial extraction is still written out; the run log keeps
		// the failure visible.
		if len(records) > 0 {
			if err := seed.SaveRecords(extractOut, records); err != nil {
				_ = st.FinishRun(ctx, runID, "failed", len(records), err.Error())
				return err
			}
		}

		if listErr != nil {
			_ = st.FinishRun(ctx, runID, "partial", len(records), listErr.Error())
			return eris.Wrapf(listErr, "extract: listing incomplete, %d records saved", len(records))
		}
		if err := st.FinishRun(ctx, runID, "complete", len(records), "saved to "+extractOut); err != nil {
			return err
		}

		zap.L().Info("extract: checkpoint written",
			zap.String("path", extractOut),
			zap.Int("records", len(records)),
		)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "data/openalex.json", "checkpoint file to write")
	extractCmd.Flags().IntVar(&extractMinHIndex, "min-h-index", 5, "minimum h-index for the country listing")
	extractCmd.Flags().BoolVar(&extractByTopics, "by-topics", false, "list by the registry's topic IDs instead of the country listing")
	extractCmd.Flags().StringVar(&extractInstitution, "institution", "", "list by institution name search")
	rootCmd.AddCommand(extractCmd)
}
