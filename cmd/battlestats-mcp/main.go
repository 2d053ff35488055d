package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/battlestats/models"
)

func main() {
	apiURL := os.Getenv("BATTLESTATS_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}

	s := server.NewMCPServer(
		"battlestats",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	playerTool := mcp.NewTool("get_player_stats",
		mcp.WithDescription("Fetch the public CSSBattle statistics of a player: streaks, battle rank and score, daily targets and versus record. Missing stats are null."),
		mcp.WithString("username",
			mcp.Required(),
			mcp.Description("The CSSBattle username (letters, digits, '_' and '-')"),
		),
	)
	s.AddTool(playerTool, handleGetPlayerStats(apiURL, &http.Client{Timeout: 60 * time.Second}))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleGetPlayerStats(apiURL string, client *http.Client) server.ToolHandlerFunc {
	base := strings.TrimRight(apiURL, "/")

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		username, err := request.RequireString("username")
		if err != nil {
			return mcp.NewToolResultError("username is required"), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
			base+"/api/v1/player/"+url.PathEscape(username), nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Accept", "application/json")

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		if resp.StatusCode != http.StatusOK {
			var errResp models.ErrorResponse
			if err := json.Unmarshal(respBody, &errResp); err != nil || errResp.Code == "" {
				return mcp.NewToolResultError(fmt.Sprintf("API returned status %d", resp.StatusCode)), nil
			}
			msg := errResp.Message
			if msg == "" {
				msg = errResp.Error
			}
			return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", errResp.Code, msg)), nil
		}

		var stats models.PlayerStats
		if err := json.Unmarshal(respBody, &stats); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		out, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode stats: %v", err)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}
