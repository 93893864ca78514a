package main

import (
	"fmt"
	"strings"

	"github.com/ba0f3/menurag/internal/assistant"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		asst, err := a.assistant(ctx, nil)
		if err != nil {
			return err
		}

		query := strings.TrimSpace(strings.Join(args, " "))
		ans, err := asst.Answer(ctx, query)
		if showPrompt, _ := cmd.Flags().GetBool("show-prompt"); showPrompt {
			fmt.Fprintln(cmd.ErrOrStderr(), "Prompt:", ans.Prompt)
		}
		fmt.Fprintln(cmd.OutOrStdout(), assistant.OneLine(ans.Reply))
		return err
	},
}

func init() {
	askCmd.Flags().Bool("show-prompt", false, "Print the prompt sent to the model on stderr")
	rootCmd.AddCommand(askCmd)
}
