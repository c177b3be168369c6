package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/bowlscore/internal/api/response"
)

func newLaneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lane",
		Short: "Lane and session commands",
	}

	cmd.AddCommand(newLaneListCmd())
	cmd.AddCommand(newLaneGetCmd())
	cmd.AddCommand(newLaneOpenCmd())
	cmd.AddCommand(newLaneCloseCmd())

	return cmd
}

func newLaneListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List lanes and whether they are busy",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Lane

			if err := client.Get(cmd.Context(), "/api/v1/lanes", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newLaneGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <lane>",
		Short: "Get lane details, history and leaders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseLane(args[0])
			if err != nil {
				return err
			}

			var result response.LaneDetail

			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/lanes/%d", number), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newLaneOpenCmd() *cobra.Command {
	var reservationID string

	cmd := &cobra.Command{
		Use:   "open <lane>",
		Short: "Open a session on a lane",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseLane(args[0])
			if err != nil {
				return err
			}

			req := map[string]string{}
			if reservationID != "" {
				req["reservation_id"] = reservationID
			}

			var result response.SessionOpened

			if err := client.Post(cmd.Context(), fmt.Sprintf("/api/v1/lanes/%d/session", number), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&reservationID, "reservation", "", "Reservation ID to attach to the session")

	return cmd
}

func newLaneCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <lane>",
		Short: "Close the open session on a lane and archive its match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseLane(args[0])
			if err != nil {
				return err
			}

			var result response.MatchSummary

			if err := client.Delete(cmd.Context(), fmt.Sprintf("/api/v1/lanes/%d/session", number), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func parseLane(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid lane number %q", arg)
	}
	return n, nil
}
