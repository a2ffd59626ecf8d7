package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/pkg/scholar"
	"github.com/belmarfabian/ranking-ciencias-sociales-chile/pkg/serpapi"
)

var searchMax int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Scholar profiles and print their IDs",
	Long:  "Searches author profiles through the configured backend. Useful for finding the Scholar ID of a researcher to add to the registry.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := args[0]

		var ids []string
		switch cfg.Scholar.Backend {
		case "scrape":
			client := scholar.NewClient(
				scholar.WithBaseURL(cfg.Scholar.BaseURL),
				scholar.WithDelayRange(
					time.Duration(cfg.Scholar.DelayMinSecs)*time.Second,
					time.Duration(cfg.Scholar.DelayMaxSecs)*time.Second,
				),
			)
			var err error
			ids, err = client.SearchProfiles(ctx, query, searchMax)
			if err != nil {
				return err
			}
		case "serpapi":
			client, err := serpapi.NewClient(cfg.SerpAPI.Key,
				serpapi.WithBaseURL(cfg.SerpAPI.BaseURL),
				serpapi.WithDelay(time.Duration(cfg.SerpAPI.DelayMs)*time.Millisecond),
			)
			if err != nil {
				return err
			}
			ids, err = client.SearchProfiles(ctx, query)
			if err != nil {
				return err
			}
			if searchMax > 0 && len(ids) > searchMax {
				ids = ids[:searchMax]
			}
		default:
			return eris.Errorf("search: unknown backend %q", cfg.Scholar.Backend)
		}

		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchMax, "max", "m", 10, "maximum profiles to return")
	rootCmd.AddCommand(searchCmd)
}
