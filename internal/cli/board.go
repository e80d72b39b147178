package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Board management commands",
	}

	cmd.AddCommand(newBoardCreateCmd())
	cmd.AddCommand(newBoardGetCmd())
	cmd.AddCommand(newBoardSetupCmd())
	cmd.AddCommand(newBoardAssignCmd())

	return cmd
}

func newBoardCreateCmd() *cobra.Command {
	var (
		name       string
		maxSquares int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new board",
		Long: `Create a new board. With --name and --max the board is also set up
and opened for square claims in one step.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (name == "") != (maxSquares == 0) {
				return errors.New("--name and --max must be given together")
			}

			var result Board
			if err := client.Post("/api/v1/boards", nil, &result); err != nil {
				return err
			}

			if name != "" {
				if err := setupBoard(result.ID, name, maxSquares, &result); err != nil {
					return err
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Board display name")
	cmd.Flags().IntVar(&maxSquares, "max", 0, "Maximum squares per contestant (1-100)")

	return cmd
}

func newBoardGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get board details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Board

			if err := client.Get(fmt.Sprintf("/api/v1/boards/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBoardSetupCmd() *cobra.Command {
	var (
		name       string
		maxSquares int
	)

	cmd := &cobra.Command{
		Use:   "setup <code>",
		Short: "Name a board and open it for square claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Board
			if err := setupBoard(args[0], name, maxSquares, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Board display name (required)")
	cmd.Flags().IntVar(&maxSquares, "max", 0, "Maximum squares per contestant, 1-100 (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("max")

	return cmd
}

func newBoardAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <code>",
		Short: "Assign teams and numbers to a full board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Board

			if err := client.Post(fmt.Sprintf("/api/v1/boards/%s/assign-teams", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func setupBoard(code, name string, maxSquares int, result *Board) error {
	req := map[string]any{
		"display_name": name,
		"max_squares":  maxSquares,
	}
	return client.Post(fmt.Sprintf("/api/v1/boards/%s/setup", code), req, result)
}
