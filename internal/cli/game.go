package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameUpdateCmd())
	cmd.AddCommand(newGameDeleteCmd())

	return cmd
}

// codeFlags reads game source from --code or --code-file
type codeFlags struct {
	code     string
	codeFile string
}

func (f *codeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.code, "code", "", "Game source")
	cmd.Flags().StringVar(&f.codeFile, "code-file", "", "Read game source from a file")
	cmd.MarkFlagsMutuallyExclusive("code", "code-file")
}

// value returns the source and whether either flag was given
func (f *codeFlags) value(cmd *cobra.Command) (string, bool, error) {
	if cmd.Flags().Changed("code-file") {
		data, err := os.ReadFile(f.codeFile)
		if err != nil {
			return "", false, fmt.Errorf("failed to read code file: %w", err)
		}
		return string(data), true, nil
	}
	if cmd.Flags().Changed("code") {
		return f.code, true, nil
	}
	return "", false, nil
}

func newGameCreateCmd() *cobra.Command {
	var (
		name          string
		unprotected   bool
		tutorialName  string
		tutorialIndex int
		code          codeFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"unprotected": unprotected}
			if cmd.Flags().Changed("name") {
				req["name"] = name
			}
			if src, ok, err := code.value(cmd); err != nil {
				return err
			} else if ok {
				req["code"] = src
			}
			if cmd.Flags().Changed("tutorial-name") {
				req["tutorial_name"] = tutorialName
			}
			if cmd.Flags().Changed("tutorial-index") {
				req["tutorial_index"] = tutorialIndex
			}

			var result Game
			if err := client.Post(cmd.Context(), "/api/v1/games", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Game name (generated if omitted)")
	cmd.Flags().BoolVar(&unprotected, "unprotected", false, "Allow edits from an email-only session")
	cmd.Flags().StringVar(&tutorialName, "tutorial-name", "", "Tutorial this game belongs to")
	cmd.Flags().IntVar(&tutorialIndex, "tutorial-index", 0, "Step within the tutorial")
	code.register(cmd)

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get(cmd.Context(), "/api/v1/games/"+args[0], &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameUpdateCmd() *cobra.Command {
	var (
		name string
		code codeFlags
	)

	cmd := &cobra.Command{
		Use:   "update <game-id>",
		Short: "Update a game's name or source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if cmd.Flags().Changed("name") {
				req["name"] = name
			}
			if src, ok, err := code.value(cmd); err != nil {
				return err
			} else if ok {
				req["code"] = src
			}
			if len(req) == 0 {
				return fmt.Errorf("one of --name, --code or --code-file is required")
			}

			var result Game
			if err := client.Patch(cmd.Context(), "/api/v1/games/"+args[0], req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	code.register(cmd)

	return cmd
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/games/"+args[0]); err != nil {
				return err
			}

			output(cmd).PrintMessage("Game deleted")
			return nil
		},
	}
}
