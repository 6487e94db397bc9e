package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func (that *app) newLeaderboardCmd() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:       "leaderboard <wins|efficiency>",
		Short:     "Show a leaderboard page",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"wins", "efficiency"},
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if page > 0 {
				query.Set("page", fmt.Sprint(page))
			}
			if limit > 0 {
				query.Set("limit", fmt.Sprint(limit))
			}

			path := "/leaderboard/" + url.PathEscape(args[0])
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var result leaderboardResult
			if err := that.client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			return that.out.print(result)
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number, starting at 1")
	cmd.Flags().IntVar(&limit, "limit", 0, "Entries per page")

	return cmd
}

func (that *app) newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <player-id>",
		Short: "Show a player's statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result playerResult
			if err := that.client.Get(cmd.Context(), "/players/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			return that.out.print(result)
		},
	})

	return cmd
}

func (that *app) newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var body string
			if err := that.client.Get(cmd.Context(), "/ping", &body); err != nil {
				return err
			}

			return that.out.print(messageResult{Message: body})
		},
	}
}
