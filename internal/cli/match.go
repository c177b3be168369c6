package cli

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/bowlscore/internal/api/response"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match roster and scoring commands",
	}

	cmd.AddCommand(newMatchGetCmd())
	cmd.AddCommand(newMatchAddPlayerCmd())
	cmd.AddCommand(newMatchRemovePlayerCmd())
	cmd.AddCommand(newMatchNextCmd())
	cmd.AddCommand(newMatchThrowCmd())
	cmd.AddCommand(newMatchScoreboardCmd())
	cmd.AddCommand(newMatchStandingsCmd())

	return cmd
}

func matchPath(matchID string, rest ...string) string {
	p := "/api/v1/matches/" + url.PathEscape(matchID)
	for _, r := range rest {
		p += "/" + url.PathEscape(r)
	}
	return p
}

func newMatchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <match-id>",
		Short: "Get match details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Match

			if err := client.Get(cmd.Context(), matchPath(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newMatchAddPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-player <match-id> <name>",
		Short: "Add a player to a match that has not started",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Player

			req := map[string]string{"name": args[1]}
			if err := client.Post(cmd.Context(), matchPath(args[0], "players"), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newMatchRemovePlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-player <match-id> <player-id>",
		Short: "Remove a player from a match that has not started",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), matchPath(args[0], "players", args[1]), nil); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Removed %s", args[1]))
			return nil
		},
	}
}

func newMatchNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next <match-id>",
		Short: "Show whose throw is next",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *response.Slot

			if err := client.Get(cmd.Context(), matchPath(args[0], "next"), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newMatchThrowCmd() *cobra.Command {
	var version int64

	cmd := &cobra.Command{
		Use:   "throw <match-id> <player-id> <pins>",
		Short: "Record a throw",
		Long: `Record the number of pins knocked down by a player's throw.

Every throw is checked against a match version. Pass --version with the
version you last saw to have the throw rejected if anyone else recorded a
throw in the meantime; without it the current version is read first.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("version") {
				var match response.Match
				if err := client.Get(cmd.Context(), matchPath(args[0]), &match); err != nil {
					return err
				}
				version = match.Version
			}

			req := map[string]any{
				"player_id": args[1],
				"pins":      json.Number(args[2]),
				"version":   version,
			}

			var result response.ThrowResult

			if err := client.Post(cmd.Context(), matchPath(args[0], "throws"), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&version, "version", 0, "Expected match version (defaults to the current version)")

	return cmd
}

func newMatchScoreboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scoreboard <match-id>",
		Short: "Show the match scoreboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Scoreboard

			if err := client.Get(cmd.Context(), matchPath(args[0], "scoreboard"), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newMatchStandingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings <match-id>",
		Short: "Show players ranked by score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Standing

			if err := client.Get(cmd.Context(), matchPath(args[0], "standings"), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
