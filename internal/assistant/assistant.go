package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ba0f3/menurag/internal/composer"
	"github.com/ba0f3/menurag/internal/index"
	"github.com/ba0f3/menurag/internal/llm"
	"github.com/ba0f3/menurag/internal/menu"
	"github.com/ba0f3/menurag/internal/retriever"
	"go.uber.org/zap"
)

// Deps are the collaborators an Assistant is built from.
type Deps struct {
	Items     []menu.Item
	Embedder  llm.Embedder
	Generator llm.Generator
	Logger    *zap.Logger
}

// Options tune retrieval.
type Options struct {
	// K is the number of items retrieved per query (retriever.DefaultK if <= 0).
	K int
	// Normalize scales vectors to unit length before indexing.
	Normalize bool
}

// Assistant holds the loaded menu, its index and the model handles. It is
// built once at startup and read-only afterwards.
type Assistant struct {
	items     []menu.Item
	index     *index.Flat
	retriever *retriever.Retriever
	composer  *composer.Composer
	logger    *zap.Logger
	k         int
}

// Answer is the outcome of one query. Matches is empty when retrieval
// failed; Reply is empty when generation failed.
type Answer struct {
	Query   string
	Matches []retriever.Match
	Prompt  string
	Reply   string
}

// New embeds every menu item and builds the index. Every error it returns is
// a StartupFailure.
func New(ctx context.Context, deps Deps, opts Options) (*Assistant, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(deps.Items) == 0 {
		return nil, newError(StartupFailure, "load menu", menu.ErrEmptyMenu)
	}
	if deps.Embedder == nil || deps.Generator == nil {
		return nil, newError(StartupFailure, "init models", errors.New("embedder and generator are required"))
	}

	start := time.Now()
	vecs := make([][]float32, len(deps.Items))
	for i, it := range deps.Items {
		res, err := deps.Embedder.Embed(ctx, it.EmbeddingText())
		if err != nil {
			return nil, newError(StartupFailure, fmt.Sprintf("embed item %d (%s)", i, it.Name), err)
		}
		vecs[i] = res.Embedding
	}

	idx := index.NewFlat(opts.Normalize)
	if err := idx.Build(vecs); err != nil {
		return nil, newError(StartupFailure, "build index", err)
	}
	if idx.Len() != len(deps.Items) {
		return nil, newError(StartupFailure, "build index",
			fmt.Errorf("indexed %d vectors for %d items", idx.Len(), len(deps.Items)))
	}
	logger.Debug("menu indexed",
		zap.Int("items", idx.Len()),
		zap.Int("dims", idx.Dim()),
		zap.Duration("took", time.Since(start)))

	k := opts.K
	if k <= 0 {
		k = retriever.DefaultK
	}
	return &Assistant{
		items:     deps.Items,
		index:     idx,
		retriever: retriever.New(deps.Items, deps.Embedder, idx),
		composer:  composer.New(deps.Generator),
		logger:    logger,
		k:         k,
	}, nil
}

// Items returns the loaded menu.
func (a *Assistant) Items() []menu.Item { return a.items }

// K returns the configured retrieval count.
func (a *Assistant) K() int { return a.k }

// Dim returns the embedding dimension of the index.
func (a *Assistant) Dim() int { return a.index.Dim() }

// Retrieve returns up to k matches for query (the configured K when k <= 0).
func (a *Assistant) Retrieve(ctx context.Context, query string, k int) ([]retriever.Match, error) {
	if k <= 0 {
		k = a.k
	}
	matches, err := a.retriever.Retrieve(ctx, query, k)
	if err != nil {
		return nil, newError(RetrievalFailure, "retrieve", err)
	}
	a.logger.Debug("retrieved", zap.String("query", query), zap.Int("matches", len(matches)))
	return matches, nil
}

// Respond generates the reply for query from matches.
func (a *Assistant) Respond(ctx context.Context, query string, matches []retriever.Match) (string, error) {
	reply, err := a.composer.Compose(ctx, query, retriever.Items(matches))
	if err != nil {
		return "", newError(GenerationFailure, "respond", err)
	}
	return reply, nil
}

// Answer runs retrieval then generation. A retrieval failure does not stop
// generation: the reply is composed from an empty match set. The returned
// error joins every failure; the Answer is always non-nil.
func (a *Assistant) Answer(ctx context.Context, query string) (*Answer, error) {
	ans := &Answer{Query: query}
	var errs []error

	matches, err := a.Retrieve(ctx, query, a.k)
	if err != nil {
		errs = append(errs, err)
		matches = nil
	}
	ans.Matches = matches
	ans.Prompt = composer.BuildPrompt(query, retriever.Items(matches))

	reply, err := a.Respond(ctx, query, matches)
	if err != nil {
		errs = append(errs, err)
	}
	ans.Reply = reply
	return ans, errors.Join(errs...)
}
