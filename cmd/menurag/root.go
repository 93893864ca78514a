package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ba0f3/menurag/internal/assistant"
	"github.com/ba0f3/menurag/internal/config"
	"github.com/ba0f3/menurag/internal/llm"
	"github.com/ba0f3/menurag/internal/logging"
	"github.com/ba0f3/menurag/internal/menu"
	"github.com/ba0f3/menurag/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "menurag",
	Short: "Menu ordering assistant",
	Long: `Answer questions about a restaurant menu. Menu items are embedded and
indexed at startup; each question retrieves the closest items and a language
model phrases the reply.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSession,
}

// app bundles what every command needs: resolved config, logger and the
// optional embedding cache.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// newApp resolves configuration (defaults, file, env, then flags) and opens
// the embedding cache unless it is disabled.
func newApp(cmd *cobra.Command) (*app, error) {
	flags := cmd.Flags()
	verbose, _ := flags.GetBool("verbose")
	logger := logging.New(verbose)

	config.LoadDotEnv()
	path, _ := flags.GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, assistant.NewStartupError("load config", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	if cfg.Cache.Enabled {
		if err := a.openStore(); err != nil {
			logger.Warn("embedding cache unavailable", zap.Error(err))
		}
	}
	return a, nil
}

// applyFlags overrides cfg with the persistent flags the user set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("menu") {
		cfg.Menu, _ = flags.GetString("menu")
	}
	if flags.Changed("k") {
		cfg.K, _ = flags.GetInt("k")
		if cfg.K < 1 {
			return assistant.NewStartupError("parse flags", fmt.Errorf("-k must be at least 1, got %d", cfg.K))
		}
	}
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	return nil
}

func (a *app) openStore() error {
	path := a.cfg.Cache.Path
	if path == "" {
		p, err := store.GetDefaultDbPath()
		if err != nil {
			return err
		}
		path = p
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	s, err := store.NewStore(path)
	if err != nil {
		return err
	}
	a.store = s
	return nil
}

func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	_ = a.logger.Sync()
}

func (a *app) loadMenu() ([]menu.Item, error) {
	items, err := menu.Load(a.cfg.Menu)
	if err != nil {
		return nil, assistant.NewStartupError("load menu", err)
	}
	a.logger.Debug("menu loaded", zap.String("path", a.cfg.Menu), zap.Int("items", len(items)))
	return items, nil
}

// embedder returns the configured embedding client, behind the cache when
// one is open.
func (a *app) embedder() (llm.Embedder, error) {
	inner, err := llm.NewEmbedClient(a.cfg.EmbedModel, a.cfg.LLMOptions())
	if err != nil {
		return nil, assistant.NewStartupError("init embedding model", err)
	}
	if a.store == nil {
		return inner, nil
	}
	return store.NewCachingEmbedder(a.store, inner, a.cfg.EmbedModel, a.logger), nil
}

func (a *app) generator() (llm.Generator, error) {
	gen, err := llm.NewGenerateClient(a.cfg.GenerateModel, a.cfg.LLMOptions())
	if err != nil {
		return nil, assistant.NewStartupError("init generation model", err)
	}
	return gen, nil
}

// assistant loads the menu and builds the index. gen may be nil, in which
// case the configured generation model is used.
func (a *app) assistant(ctx context.Context, gen llm.Generator) (*assistant.Assistant, error) {
	items, err := a.loadMenu()
	if err != nil {
		return nil, err
	}
	emb, err := a.embedder()
	if err != nil {
		return nil, err
	}
	if gen == nil {
		if gen, err = a.generator(); err != nil {
			return nil, err
		}
	}
	asst, err := assistant.New(ctx, assistant.Deps{
		Items:     items,
		Embedder:  emb,
		Generator: gen,
		Logger:    a.logger,
	}, assistant.Options{K: a.cfg.K, Normalize: a.cfg.Normalize})
	if err != nil {
		return nil, err
	}
	if c, ok := emb.(*store.CachingEmbedder); ok {
		a.logger.Debug("embedding cache", zap.Int("hits", c.Hits), zap.Int("misses", c.Misses))
	}
	return asst, nil
}

func runSession(cmd *cobra.Command, args []string) error {
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
	err = assistant.NewSession(asst, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()).Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	}
	return err
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("menu", config.DefaultMenu, "Menu file or glob (JSON or YAML)")
	pf.String("config", "", "Config file (default: ~/.config/menurag/config.yml)")
	pf.IntP("k", "k", config.DefaultK, "Number of menu items retrieved per question")
	pf.Bool("no-cache", false, "Do not read or write the embedding cache")
	pf.BoolP("verbose", "v", false, "Debug logging on stderr")
}
