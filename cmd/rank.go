package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/export"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/pipeline"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/registry"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/seed"
)

var (
	rankInputs []string
	rankSortBy string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Build the ranking from saved checkpoints",
	Long:  "Loads raw-record checkpoints, reconciles and cleans them against the registry, classifies disciplines, computes scores, and writes the ranking in the configured output formats.",
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

		runID, err := st.StartRun(ctx, "rank")
		if err != nil {
			return err
		}

		var records []model.RawRecord
		for _, path := range rankInputs {
			batch, err := seed.LoadRecords(path)
			if err != nil {
				_ = st.FinishRun(ctx, runID, "failed", 0, err.Error())
				return err
			}
			records = append(records, batch...)
		}
		if len(records) == 0 {
			_ = st.FinishRun(ctx, runID, "failed", 0, "no input records")
			return eris.New("rank: no input records; run extract or scrape first")
		}

		sortKey := cfg.Ranking.SortBy
		if rankSortBy != "" {
			sortKey = rankSortBy
		}
		sortBy, err := pipeline.ParseSortKey(sortKey)
		if err != nil {
			_ = st.FinishRun(ctx, runID, "failed", 0, err.Error())
			return err
		}

		p := pipeline.New(reg, zap.L())
		entries := p.Run(records, pipeline.Options{
			Clean: pipeline.CleanOptions{
				Country:   cfg.Ranking.Country,
				MinHIndex: cfg.Ranking.MinHIndex,
			},
			SortBy: sortBy,
		})

		if err := writeOutputs(entries, reg); err != nil {
			_ = st.FinishRun(ctx, runID, "failed", len(entries), err.Error())
			return err
		}

		export.Summarize(entries).Log(zap.L())
		return st.FinishRun(ctx, runID, "complete", len(entries), "sorted by "+string(sortBy))
	},
}

func writeOutputs(entries []model.RankingEntry, reg *registry.Registry) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return eris.Wrapf(err, "rank: create output dir %s", cfg.Output.Dir)
	}

	generated := time.Now().Format("2006-01-02")
	for _, format := range cfg.Output.Formats {
		path := filepath.Join(cfg.Output.Dir, "ranking."+format)
		var err error
		switch format {
		case "csv":
			err = export.WriteCSV(path, entries)
		case "xlsx":
			err = export.WriteXLSX(path, entries)
		case "json":
			err = export.WriteWebJSON(path, entries, reg)
		case "html":
			err = export.WriteHTML(path, entries, export.HTMLOptions{Generated: generated})
		default:
			err = eris.Errorf("rank: unknown output format %q", format)
		}
		if err != nil {
			return err
		}
		zap.L().Info("rank: output written", zap.String("path", path))
	}
	return nil
}

func init() {
	rankCmd.Flags().StringSliceVarP(&rankInputs, "in", "i", []string{"data/openalex.json", "data/scholar.json"}, "checkpoint files to load")
	rankCmd.Flags().StringVar(&rankSortBy, "sort-by", "", "headline metric: h_index, citations, impact, h_index_5y (overrides config)")
	rootCmd.AddCommand(rankCmd)
}
