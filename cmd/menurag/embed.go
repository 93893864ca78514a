package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/ba0f3/menurag/internal/llm"
	"github.com/ba0f3/menurag/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errCacheDisabled = errors.New("embedding cache is disabled (remove --no-cache or set cache.enabled)")

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Warm the embedding cache for the menu",
	Long:  "Embed every menu item with the configured model and store the vectors in the embedding cache, so later runs start without calling the model.",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if a.store == nil {
			return errCacheDisabled
		}

		items, err := a.loadMenu()
		if err != nil {
			return err
		}
		model := a.cfg.EmbedModel

		if force {
			fmt.Fprintln(cmd.ErrOrStderr(), "Force re-embedding: clearing cached vectors for", model)
			n, err := a.store.ClearEmbeddings(model)
			if err != nil {
				return fmt.Errorf("clear embeddings: %w", err)
			}
			a.logger.Debug("cleared cached vectors", zap.String("model", model), zap.Int64("rows", n))
		}

		inner, err := llm.NewEmbedClient(model, a.cfg.LLMOptions())
		if err != nil {
			return fmt.Errorf("init embedding model: %w", err)
		}
		client := store.NewCachingEmbedder(a.store, inner, model, a.logger)

		fmt.Fprintf(cmd.OutOrStdout(), "Embedding %d menu items, model: %s\n\n", len(items), model)
		start := time.Now()
		failed := 0
		for i, it := range items {
			if _, err := client.Embed(cmd.Context(), it.EmbeddingText()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error embedding %q: %v\n", it.Name, err)
				failed++
				if cmd.Context().Err() != nil {
					return cmd.Context().Err()
				}
				continue
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "\rEmbedded %d/%d items...", i+1, len(items))
		}
		fmt.Fprintln(cmd.ErrOrStderr())

		fmt.Fprintf(cmd.OutOrStdout(), "Done. %d cached, %d new in %.1fs", client.Hits, client.Misses-failed, time.Since(start).Seconds())
		if failed > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), " (%d errors)", failed)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		if failed > 0 {
			return fmt.Errorf("%d of %d items failed to embed", failed, len(items))
		}
		return nil
	},
}

func init() {
	embedCmd.Flags().BoolP("force", "f", false, "Clear this model's cached vectors first")
	rootCmd.AddCommand(embedCmd)
}
