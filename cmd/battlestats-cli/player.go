package main

import (
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/use-agent/battlestats/config"
	"github.com/use-agent/battlestats/extractor"
	"github.com/use-agent/battlestats/internal/logging"
	"github.com/use-agent/battlestats/models"
	"github.com/use-agent/battlestats/scraper"
)

var jsonOutput bool

func init() {
	playerCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the record as JSON instead of a table")
	rootCmd.AddCommand(playerCmd)
}

var playerCmd = &cobra.Command{
	Use:   "player <username>",
	Short: "Prints the statistics of one player.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		if err := models.ValidateUsername(username); err != nil {
			return err
		}

		cfg := config.Load()
		logging.Init(cfg.Log, os.Stderr)

		ex, err := extractor.New(extractor.SelectorsFrom(cfg.Selectors))
		if err != nil {
			return err
		}

		// One invocation, one tab.
		cfg.Browser.MaxPages = 1
		sc, err := scraper.NewScraper(cfg.Browser, cfg.Scraper)
		if err != nil {
			return err
		}
		defer sc.Close()

		snap, err := sc.FetchProfile(cmd.Context(), username)
		if err != nil {
			return err
		}
		stats := ex.Extract(snap)

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), stats)
		}
		renderTable(cmd.OutOrStdout(), stats)
		return nil
	},
}

func writeJSON(w io.Writer, stats models.PlayerStats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

func renderTable(w io.Writer, stats models.PlayerStats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(stats.Username)
	t.AppendHeader(table.Row{"Section", "Stat", "Value"})

	// The title is wrapped to the table width; the URL goes in a row instead.
	t.AppendRow(table.Row{"Profile", "URL", stats.ProfileURL})
	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"Streaks", "Current", fmtInt(stats.Streaks.Current)},
		{"Streaks", "Longest", fmtInt(stats.Streaks.Longest)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Battle", "Global rank", fmtInt(stats.BattleStats.GlobalRank)},
		{"Battle", "Targets played", fmtInt(stats.BattleStats.TargetsPlayed)},
		{"Battle", "Total score", fmtFloat(stats.BattleStats.TotalScore)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Daily targets", "Targets played", fmtInt(stats.DailyTargets.TargetsPlayed)},
		{"Daily targets", "Avg match", fmtFloat(stats.DailyTargets.AvgMatch)},
		{"Daily targets", "Avg characters", fmtInt(stats.DailyTargets.AvgCharacters)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Versus", "Rating", fmtInt(stats.Versus.Rating)},
		{"Versus", "Games played", fmtInt(stats.Versus.GamesPlayed)},
		{"Versus", "Wins", fmtInt(stats.Versus.Wins)},
	})

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func fmtInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
