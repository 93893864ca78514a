package composer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ba0f3/menurag/internal/llm"
	"github.com/ba0f3/menurag/internal/menu"
)

// BuildPrompt renders the generator input for query. With items it lists
// every item's display string after the question; without items it asks the
// model to apologise.
func BuildPrompt(query string, items []menu.Item) string {
	if len(items) == 0 {
		return fmt.Sprintf("Sorry, no options found for %s.", query)
	}
	options := make([]string, len(items))
	for i, it := range items {
		options[i] = it.Display()
	}
	return fmt.Sprintf("What are the options for %s? %s", query, strings.Join(options, " "))
}

// Composer turns retrieved items into a natural-language reply.
type Composer struct {
	gen llm.Generator
}

func New(gen llm.Generator) *Composer {
	return &Composer{gen: gen}
}

// Compose builds the prompt and returns the generator's reply.
func (c *Composer) Compose(ctx context.Context, query string, items []menu.Item) (string, error) {
	prompt := BuildPrompt(query, items)
	out, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return out, nil
}
