package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func (that *app) newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(that.newGameCreateCmd())
	cmd.AddCommand(that.newGameListCmd())
	cmd.AddCommand(that.newGameStatusCmd())
	cmd.AddCommand(that.newGameJoinCmd())
	cmd.AddCommand(that.newGameMoveCmd())
	cmd.AddCommand(that.newGameDeleteCmd())

	return cmd
}

func (that *app) newGameCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Create a game; the server names it when no name is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			var result createResult
			if err := that.client.Post(cmd.Context(), "/games", map[string]string{"name": name}, &result); err != nil {
				return err
			}

			return that.out.print(result)
		},
	}
}

func (that *app) newGameListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := "/games"
			if status != "" {
				path += "?status=" + url.QueryEscape(status)
			}

			var result listResult
			if err := that.client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			return that.out.print(result)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status: pending, in_progress, complete")

	return cmd
}

func (that *app) newGameStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id>",
		Short: "Show the board and players of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			var result statusResult
			if err = that.client.Get(cmd.Context(), fmt.Sprintf("/games/%d/status", id), &result); err != nil {
				return err
			}

			return that.out.print(result)
		},
	}
}

func (that *app) newGameJoinCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "join <id> <player-id>",
		Short: "Join a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			body := map[string]string{"playerId": args[1], "name": name, "email": email}

			var result messageResult
			if err = that.client.Post(cmd.Context(), fmt.Sprintf("/games/%d/join", id), body, &result); err != nil {
				return err
			}

			return that.out.print(result)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (that *app) newGameMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <player-id> <row> <col>",
		Short: "Place the player's mark at row, col (0-2)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			row, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid row %q: %w", args[2], err)
			}

			col, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("invalid col %q: %w", args[3], err)
			}

			body := map[string]any{"playerId": args[1], "row": row, "col": col}

			var result moveResult
			if err = that.client.Post(cmd.Context(), fmt.Sprintf("/games/%d/moves", id), body, &result); err != nil {
				return err
			}

			return that.out.print(result)
		},
	}
}

func (that *app) newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			var result messageResult
			if err = that.client.Delete(cmd.Context(), fmt.Sprintf("/games/%d", id), &result); err != nil {
				return err
			}

			return that.out.print(result)
		},
	}
}

func parseGameID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid game id %q", raw)
	}

	return id, nil
}
