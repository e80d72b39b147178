package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSquareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "square",
		Short: "Claim and release squares",
	}

	cmd.AddCommand(newSquareUpdateCmd("claim", "Claim a square for a contestant", false))
	cmd.AddCommand(newSquareUpdateCmd("release", "Release a square held by a contestant", true))

	return cmd
}

func newSquareUpdateCmd(use, short string, remove bool) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   use + " <code> <row,col>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"position": args[1],
				"name":     name,
				"remove":   remove,
			}

			var result Board
			if err := client.Post(fmt.Sprintf("/api/v1/boards/%s/squares", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Contestant name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
