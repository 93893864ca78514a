package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// errNoGeneration is returned by retrievalOnly; search never reaches it.
var errNoGeneration = errors.New("generation is disabled for search")

// retrievalOnly stands in for the generation model so that search does not
// load one.
type retrievalOnly struct{}

func (retrievalOnly) Generate(ctx context.Context, prompt string) (string, error) {
	return "", errNoGeneration
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Show the menu items closest to a query",
	Long:  "Retrieve menu items by embedding similarity without calling the generation model.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := getFormatFlag(cmd)
		switch format {
		case "cli", "json", "csv", "md":
		default:
			return fmt.Errorf("unknown format %q (want cli, json, csv or md)", format)
		}
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		asst, err := a.assistant(ctx, retrievalOnly{})
		if err != nil {
			return err
		}
		matches, err := asst.Retrieve(ctx, strings.Join(args, " "), 0)
		if err != nil {
			return err
		}
		return WriteSearchOutput(cmd.OutOrStdout(), searchRows(matches), format)
	},
}

func getFormatFlag(cmd *cobra.Command) string {
	if ok, _ := cmd.Flags().GetBool("json"); ok {
		return "json"
	}
	if ok, _ := cmd.Flags().GetBool("csv"); ok {
		return "csv"
	}
	if ok, _ := cmd.Flags().GetBool("md"); ok {
		return "md"
	}
	s, _ := cmd.Flags().GetString("format")
	if s == "" {
		return "cli"
	}
	return s
}

func init() {
	searchCmd.Flags().String("format", "cli", "Output: cli, json, csv, md")
	searchCmd.Flags().Bool("json", false, "JSON output")
	searchCmd.Flags().Bool("csv", false, "CSV output")
	searchCmd.Flags().Bool("md", false, "Markdown output")
	rootCmd.AddCommand(searchCmd)
}
