package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/use-agent/battlestats/models"
)

// CLI flags
var (
	apiURL    = flag.String("api-url", "http://localhost:8080", "battlestats API base URL")
	usernames = flag.String("users", "Nastya,vlad,koma,not-a-real-player-404", "comma-separated usernames to fetch")
	runs      = flag.Int("runs", 3, "Number of runs per username for averaging")
	output    = flag.String("output", "benchmark-results.json", "JSON output file path")
)

type runResult struct {
	Run        int    `json:"run"`
	TotalMs    int64  `json:"total_ms"`
	StatusCode int    `json:"status_code"`
	Filled     int    `json:"filled_fields"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

type userResult struct {
	Username  string      `json:"username"`
	Runs      []runResult `json:"runs"`
	AvgMs     float64     `json:"avg_ms"`
	AvgFilled float64     `json:"avg_filled_fields"`
}

type benchmarkReport struct {
	Timestamp   string       `json:"timestamp"`
	APIURL      string       `json:"api_url"`
	RunsPerUser int          `json:"runs_per_user"`
	Results     []userResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== battlestats benchmark ===")
	fmt.Printf("API URL:   %s\n", *apiURL)
	fmt.Printf("Runs/user: %d\n", *runs)
	fmt.Printf("Output:    %s\n", *output)
	fmt.Println()

	client := &http.Client{Timeout: 60 * time.Second}

	if err := checkAPI(client, *apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		APIURL:      *apiURL,
		RunsPerUser: *runs,
	}

	for _, u := range strings.Split(*usernames, ",") {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		fmt.Printf("Benchmarking %s ...\n", u)
		ur := userResult{Username: u}

		for i := 1; i <= *runs; i++ {
			rr := fetchPlayer(client, u, i)
			if rr.Error == "" {
				fmt.Printf("  Run %d/%d ... %d  %dms  %d/13 fields\n", i, *runs, rr.StatusCode, rr.TotalMs, rr.Filled)
			} else {
				fmt.Printf("  Run %d/%d ... FAILED: %s\n", i, *runs, rr.Error)
			}
			ur.Runs = append(ur.Runs, rr)
		}

		ur.AvgMs, ur.AvgFilled = averages(ur.Runs)
		report.Results = append(report.Results, ur)
	}
	fmt.Println()

	printTable(report.Results)

	data, err := json.MarshalIndent(report, "", "  ")
	if err == nil {
		err = os.WriteFile(*output, data, 0644)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(client *http.Client, baseURL string) error {
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// fetchPlayer times one request. A 404 counts as a successful answer.
func fetchPlayer(client *http.Client, username string, run int) runResult {
	rr := runResult{Run: run}

	start := time.Now()
	resp, err := client.Get(*apiURL + "/api/v1/player/" + url.PathEscape(username))
	rr.TotalMs = time.Since(start).Milliseconds()
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()
	rr.StatusCode = resp.StatusCode

	switch resp.StatusCode {
	case http.StatusOK:
		var stats models.PlayerStats
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			rr.Error = fmt.Sprintf("decode error: %v", err)
			return rr
		}
		rr.Filled = filledFields(stats)
		rr.Success = true
	case http.StatusNotFound:
		rr.Success = true
	default:
		var er models.ErrorResponse
		json.NewDecoder(resp.Body).Decode(&er)
		rr.Error = fmt.Sprintf("%d %s", resp.StatusCode, er.Code)
	}
	return rr
}

func filledFields(s models.PlayerStats) int {
	n := 0
	for _, p := range []*int{
		s.Streaks.Current, s.Streaks.Longest,
		s.BattleStats.GlobalRank, s.BattleStats.TargetsPlayed,
		s.DailyTargets.TargetsPlayed, s.DailyTargets.AvgCharacters,
		s.Versus.Rating, s.Versus.GamesPlayed, s.Versus.Wins,
	} {
		if p != nil {
			n++
		}
	}
	for _, p := range []*float64{s.BattleStats.TotalScore, s.DailyTargets.AvgMatch} {
		if p != nil {
			n++
		}
	}
	if s.ProfilePicture != nil {
		n++
	}
	if s.Username != "" {
		n++
	}
	return n
}

func averages(runs []runResult) (avgMs, avgFilled float64) {
	var ok int
	for _, r := range runs {
		if !r.Success {
			continue
		}
		ok++
		avgMs += float64(r.TotalMs)
		avgFilled += float64(r.Filled)
	}
	if ok == 0 {
		return 0, 0
	}
	return avgMs / float64(ok), avgFilled / float64(ok)
}

func printTable(results []userResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Username", "Avg Latency", "Avg Fields", "Last Status"})
	for _, r := range results {
		last := r.Runs[len(r.Runs)-1]
		if r.AvgMs == 0 {
			t.AppendRow(table.Row{r.Username, "FAILED", "-", last.StatusCode})
			continue
		}
		t.AppendRow(table.Row{r.Username, fmt.Sprintf("%dms", int64(r.AvgMs)), fmt.Sprintf("%.1f", r.AvgFilled), last.StatusCode})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
