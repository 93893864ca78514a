package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ba0f3/menurag/internal/assistant"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

const (
	menuItemsURI   = "menu://items"
	menuGuideTitle = "Menu Assistant Guide"
	menuGuideBody  = `# menurag - Menu Assistant

Use these tools to help a customer order from the loaded menu.

## Tools

### menu_search
Returns the menu items closest to a query with similarity scores. No text
generation, fast. Use it to check what exists before suggesting an item.

### menu_options
Retrieves the closest items and asks the language model to describe the
options, the same reply the interactive assistant prints.

## Resources

- ` + "`menu://items`" + ` is the full menu as JSON: name, sizes, calories.`
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run MCP server (stdio)",
	Long:  "Start a Model Context Protocol server exposing menu search, menu options and the menu itself over stdio.",
	RunE:  runMCPServer,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServer(cmd *cobra.Command, args []string) error {
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
	return newMCPServer(asst).Run(ctx, &mcp.StdioTransport{})
}

func newMCPServer(asst *assistant.Assistant) *mcp.Server {
	// The assistant is used from one goroutine at a time.
	var mu sync.Mutex

	server := mcp.NewServer(&mcp.Implementation{Name: "menurag", Version: "1.0.0"}, nil)
	server.AddResource(&mcp.Resource{
		URI:         menuItemsURI,
		Name:        "menu",
		Description: "Every menu item with its sizes and calories",
		MIMEType:    "application/json",
	}, menuResourceHandler(asst))
	server.AddPrompt(&mcp.Prompt{
		Name:        "menu_guide",
		Description: "How to help a customer order with the menu tools",
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: menuGuideTitle,
			Messages:    []*mcp.PromptMessage{{Role: "user", Content: &mcp.TextContent{Text: menuGuideBody}}},
		}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "menu_search",
		Description: "Find the menu items most similar to a query. Returns items with similarity scores.",
	}, menuSearchTool(asst, &mu))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "menu_options",
		Description: "Answer a customer question about the menu in natural language, based on the closest menu items.",
	}, menuOptionsTool(asst, &mu))
	return server
}

func menuResourceHandler(asst *assistant.Assistant) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		if uri != menuItemsURI {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		body, err := json.MarshalIndent(asst.Items(), "", "  ")
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: "application/json", Text: string(body)}},
		}, nil
	}
}

type menuSearchArgs struct {
	Query string `json:"query" jsonschema:"What the customer asked for, e.g. a dish name"`
	K     int    `json:"k,omitempty" jsonschema:"Maximum number of items (default from config)"`
}

func menuSearchTool(asst *assistant.Assistant, mu *sync.Mutex) func(context.Context, *mcp.CallToolRequest, menuSearchArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args menuSearchArgs) (*mcp.CallToolResult, any, error) {
		mu.Lock()
		matches, err := asst.Retrieve(ctx, args.Query, args.K)
		mu.Unlock()
		if err != nil {
			return toolError("Search failed: " + err.Error()), nil, nil
		}
		rows := searchRows(matches)
		var b strings.Builder
		if len(rows) == 0 {
			b.WriteString("No matching menu items.")
		} else {
			fmt.Fprintf(&b, "Found %d menu items for %q:\n", len(rows), args.Query)
			for _, r := range rows {
				fmt.Fprintf(&b, "%d. %s (score %.2f)\n", r.Rank, r.Display, r.Score)
			}
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: strings.TrimRight(b.String(), "\n")}},
			StructuredContent: map[string]any{"results": rows},
		}, nil, nil
	}
}

type menuOptionsArgs struct {
	Query string `json:"query" jsonschema:"The customer's question or order"`
}

func menuOptionsTool(asst *assistant.Assistant, mu *sync.Mutex) func(context.Context, *mcp.CallToolRequest, menuOptionsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args menuOptionsArgs) (*mcp.CallToolResult, any, error) {
		mu.Lock()
		ans, err := asst.Answer(ctx, args.Query)
		mu.Unlock()
		if errors.Is(err, assistant.ErrGeneration) {
			return toolError("Generation failed: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: ans.Reply}},
			StructuredContent: map[string]any{
				"reply":   ans.Reply,
				"matches": searchRows(ans.Matches),
			},
		}, nil, nil
	}
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: msg}}, IsError: true}
}
