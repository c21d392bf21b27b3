// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/crowd-band/auth"
	"github.com/danielhkuo/crowd-band/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootCmd() *cobra.Command {
	var server, adminKey string

	root := &cobra.Command{
		Use:           "bandctl",
		Short:         "Operate a Crowd Band server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&server, "server", envOr("BANDCTL_SERVER", "http://localhost:3318"), "Server base URL")
	root.PersistentFlags().StringVar(&adminKey, "admin-key", os.Getenv("BANDCTL_ADMIN_KEY"), "Admin key sent as X-Admin-Key")

	client := func() *apiClient { return newAPIClient(server, adminKey) }

	root.AddCommand(
		newStartCmd(client),
		newCloseCmd(client),
		newCurrentCmd(client),
		newSongsCmd(client),
		newSongCmd(client),
		newLeaderboardCmd(client),
		newAdminKeyCmd(),
	)
	return root
}

func newStartCmd(client func() *apiClient) *cobra.Command {
	var req models.StartCycleRequest
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new weekly cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.DurationSeconds = int64(duration / time.Second)

			var resp models.StartCycleResponse
			if err := client().do(cmd.Context(), "POST", "/cycles", req, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&req.PromptText, "text", "", "Prompt text")
	cmd.Flags().IntVar(&req.WeekNumber, "week", 0, "Week number")
	cmd.Flags().StringVar(&req.Theme, "theme", "", "Theme label")
	cmd.Flags().DurationVar(&duration, "duration", 7*24*time.Hour, "How long the cycle stays open")
	cmd.MarkFlagRequired("text")
	cmd.MarkFlagRequired("week")
	return cmd
}

func newCloseCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "close <prompt-id>",
		Short: "Close a cycle and assemble its song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp models.CloseCycleResponse
			if err := client().do(cmd.Context(), "POST", "/cycles/"+args[0]+"/close", nil, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func newCurrentCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var view models.PromptView
			if err := client().do(cmd.Context(), "GET", "/cycles/current", nil, &view); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}
}

func newSongsCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "songs",
		Short: "List assembled songs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var songs []models.FinalSong
			if err := client().do(cmd.Context(), "GET", "/songs", nil, &songs); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range songs {
				fmt.Fprintf(out, "week %d\t%s\t%d lyrics\t%d votes\n", s.WeekNumber, s.Theme, s.TotalSubmissions, s.TotalVotes)
			}
			return nil
		},
	}
}

func newSongCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "song <week>",
		Short: "Show one week's song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := strconv.Atoi(args[0])
			if err != nil || week < 1 {
				return fmt.Errorf("week must be a positive integer, got %q", args[0])
			}
			var song models.FinalSong
			if err := client().do(cmd.Context(), "GET", "/songs/"+strconv.Itoa(week), nil, &song); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), song)
		},
	}
}

func newLeaderboardCmd(client func() *apiClient) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show top contributors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []models.UserStats
			path := "/leaderboard?limit=" + strconv.Itoa(limit)
			if err := client().do(cmd.Context(), "GET", path, nil, &entries); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, e := range entries {
				fmt.Fprintf(out, "%d. %s\t%d submissions\t%d votes\t%d badges\n",
					i+1, e.DisplayName, e.TotalSubmissions, e.TotalVotes, len(e.Badges))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of entries")
	return cmd
}

func newAdminKeyCmd() *cobra.Command {
	var salt string

	cmd := &cobra.Command{
		Use:   "admin-key [prompt-id]",
		Short: "Derive the operator key, or a prompt's key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if salt == "" {
				return errors.New("admin salt required (use --salt or ADMIN_KEY_SALT env)")
			}
			subject := auth.OperatorSubject
			if len(args) == 1 {
				subject = args[0]
			}
			fmt.Fprintln(cmd.OutOrStdout(), auth.GenerateAdminKey(subject, salt))
			return nil
		},
	}
	cmd.Flags().StringVar(&salt, "salt", os.Getenv("ADMIN_KEY_SALT"), "Admin key salt")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bandctl:", err)
		os.Exit(1)
	}
}
