package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the embedding cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached vectors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if a.store == nil {
			return errCacheDisabled
		}

		model := ""
		if ok, _ := cmd.Flags().GetBool("current-model"); ok {
			model = a.cfg.EmbedModel
		}
		if m, _ := cmd.Flags().GetString("model"); m != "" {
			model = m
		}
		n, err := a.store.ClearEmbeddings(model)
		if err != nil {
			return fmt.Errorf("clear embeddings: %w", err)
		}
		if model == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached vectors\n", n)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached vectors for %s\n", n, model)
		}
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().String("model", "", "Only clear vectors of this embedding model")
	cacheClearCmd.Flags().Bool("current-model", false, "Only clear vectors of the configured embedding model")
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
