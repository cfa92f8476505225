package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	gender    string
	page      int
	pageLimit int
)

func init() {
	poolCmd.Flags().StringVar(&gender, "gender", "", "Only consider queued members of this gender (MALE, FEMALE)")
	queueCmd.Flags().IntVar(&page, "page", 1, "Page of the queue to show")
	queueCmd.Flags().IntVar(&pageLimit, "limit", 20, "Entries per page")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(poolCmd)
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(finishCmd)
	rootCmd.AddCommand(cancelCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd, http.MethodGet, "/health", nil)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login MEMBER",
	Short: "Issue a token for a club member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd, http.MethodPost, "/auth/login", map[string]string{"member_id": args[0]})
	},
}

var joinCmd = &cobra.Command{
	Use:   "join SESSION MEMBER",
	Short: "Put a member at the tail of the session queue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd, http.MethodPost, "/sessions/"+args[0]+"/queue", map[string]string{"member_id": args[1]})
	},
}

var leaveCmd = &cobra.Command{
	Use:   "leave ENTRY",
	Short: "Remove a queue entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd, http.MethodDelete, "/queue-entries/"+args[0], nil)
	},
}

var queueCmd = &cobra.Command{
	Use:   "queue SESSION",
	Short: "Show the session queue in matchmaking order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := fmt.Sprintf("/sessions/%s/queue?page=%d&limit=%d", args[0], page, pageLimit)
		return performRequest(cmd, http.MethodGet, path, nil)
	},
}

var poolCmd = &cobra.Command{
	Use:   "pool SESSION",
	Short: "Generate a balanced match pool from the session queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd, http.MethodPost, "/sessions/"+args[0]+"/pools", map[string]string{"gender": gender})
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote POOL COURT",
	Short: "Start a match on a court from an open pool",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd, http.MethodPost, "/pools/"+args[0]+"/promote", map[string]string{"court_id": args[1]})
	},
}

var finishCmd = &cobra.Command{
	Use:   "finish MATCH TEAM_A_POINTS TEAM_B_POINTS",
	Short: "Record the score of a match and re-queue its players",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("team A points: %w", err)
		}
		b, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("team B points: %w", err)
		}
		return performRequest(cmd, http.MethodPost, "/matches/"+args[0]+"/finish", map[string]int{
			"team_a_points": a,
			"team_b_points": b,
		})
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel MATCH",
	Short: "Cancel a match without a result and re-queue its players",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd, http.MethodPost, "/matches/"+args[0]+"/cancel", nil)
	},
}

var client = &http.Client{Timeout: 15 * time.Second}

func performRequest(cmd *cobra.Command, method, endpoint string, payload any) error {
	url := host + endpoint

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(cmd.Context(), method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Status Code: %d\n", resp.StatusCode)

	var pretty bytes.Buffer
	if json.Indent(&pretty, respBody, "", "  ") == nil {
		fmt.Fprintln(out, pretty.String())
	} else {
		fmt.Fprintln(out, string(respBody))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s failed with status %d", method, endpoint, resp.StatusCode)
	}
	return nil
}
