// Package toolsurface binds every internal/cardops operation to a
// named, JSON-schema'd tool per §6's external-interface contract:
// success carries the operation's result object, failure carries an
// isError envelope with a text message, never a crash. The teacher
// declares mark3labs/mcp-go in go.mod but never calls it; this package
// gives it its first real caller.
package toolsurface

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cardops"
)

// NewServer builds an MCP server exposing every cardops operation as a
// tool bound to engine. The caller is responsible for transport
// (server.ServeStdio, typically — see cmd/serve.go).
func NewServer(engine *cardops.Engine) *server.MCPServer {
	s := server.NewMCPServer("cardgraph", "1.0.0")

	s.AddTool(mcp.NewTool("create_card",
		mcp.WithDescription("Create a new design card"),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Slug the card's key and filename derive from")),
		mcp.WithString("summary", mcp.Required()),
		mcp.WithString("status", mcp.Description("draft|accepted|implementing|implemented|deprecated")),
		mcp.WithString("body"),
		mcp.WithArray("tags", mcp.Description("Tag names")),
		mcp.WithArray("keywords", mcp.Description("Keyword names")),
		mcp.WithArray("relations", mcp.Description("[{type,target}]")),
		mcp.WithArray("codeLinks", mcp.Description("[{kind,file,symbol}]")),
		mcp.WithObject("constraints", mcp.Description("Opaque constraints blob")),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		in, err := decodeArgs[api.CreateInput](args)
		if err != nil {
			return nil, err
		}
		return engine.Create(ctx, in)
	}))

	s.AddTool(mcp.NewTool("get_card",
		mcp.WithDescription("Read a card by key"),
		mcp.WithString("key", mcp.Required()),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		key, _ := args["key"].(string)
		return engine.Read(ctx, key)
	}))

	s.AddTool(mcp.NewTool("update_card",
		mcp.WithDescription("Update fields on an existing card; omitted fields are untouched, null/empty deletes them"),
		mcp.WithString("key", mcp.Required()),
		mcp.WithString("summary"),
		mcp.WithString("body"),
		mcp.WithArray("tags"),
		mcp.WithArray("keywords"),
		mcp.WithArray("relations"),
		mcp.WithArray("codeLinks"),
		mcp.WithObject("constraints"),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		key, _ := args["key"].(string)
		in, err := buildUpdateInput(args)
		if err != nil {
			return nil, err
		}
		return engine.Update(ctx, key, in)
	}))

	s.AddTool(mcp.NewTool("update_card_status",
		mcp.WithDescription("Change a card's lifecycle status"),
		mcp.WithString("key", mcp.Required()),
		mcp.WithString("status", mcp.Required()),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		key, _ := args["key"].(string)
		status, _ := args["status"].(string)
		return engine.UpdateStatus(ctx, key, api.CardStatus(status))
	}))

	s.AddTool(mcp.NewTool("rename_card",
		mcp.WithDescription("Rename a card to a new slug, preserving relations/keywords/tags/code links"),
		mcp.WithString("key", mcp.Required()),
		mcp.WithString("newSlug", mcp.Required()),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		key, _ := args["key"].(string)
		newSlug, _ := args["newSlug"].(string)
		return engine.Rename(ctx, key, newSlug)
	}))

	s.AddTool(mcp.NewTool("delete_card",
		mcp.WithDescription("Delete a card and cascade its relations/mappings/code links"),
		mcp.WithString("key", mcp.Required()),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		key, _ := args["key"].(string)
		return nil, engine.Delete(ctx, key)
	}))

	s.AddTool(mcp.NewTool("sync_card_from_file",
		mcp.WithDescription("Re-derive a card's index row from its file"),
		mcp.WithString("path", mcp.Required()),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		path, _ := args["path"].(string)
		return nil, engine.SyncCardFromFile(ctx, path)
	}))

	s.AddTool(mcp.NewTool("remove_card_by_file",
		mcp.WithDescription("Delete whatever card row is indexed at a file path"),
		mcp.WithString("path", mcp.Required()),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		path, _ := args["path"].(string)
		return nil, engine.RemoveCardByFile(ctx, path)
	}))

	s.AddTool(mcp.NewTool("bulk_sync",
		mcp.WithDescription("Sync every *.card.md file under a directory (default: the cards directory)"),
		mcp.WithString("dir"),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		dir, _ := args["dir"].(string)
		return engine.BulkSync(ctx, dir)
	}))

	s.AddTool(mcp.NewTool("validate",
		mcp.WithDescription("Report divergence between card files and the index, without mutating either"),
		mcp.WithString("dir"),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		dir, _ := args["dir"].(string)
		return engine.Validate(ctx, dir)
	}))

	s.AddTool(mcp.NewTool("export_card_to_file",
		mcp.WithDescription("Regenerate a card's file from its index row"),
		mcp.WithString("key", mcp.Required()),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		key, _ := args["key"].(string)
		return nil, engine.ExportCardToFile(ctx, key)
	}))

	s.AddTool(mcp.NewTool("get_card_context",
		mcp.WithDescription("Return a card plus its resolved code links and one hop of neighbors"),
		mcp.WithString("key", mcp.Required()),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		key, _ := args["key"].(string)
		return engine.GetCardContext(ctx, key)
	}))

	s.AddTool(mcp.NewTool("get_relation_graph",
		mcp.WithDescription("Breadth-first traversal of the relation graph from a card"),
		mcp.WithString("key", mcp.Required()),
		mcp.WithNumber("maxDepth", mcp.Description("0 = empty result, negative = unbounded, default unbounded")),
		mcp.WithString("direction", mcp.Description("forward|backward|both, default both")),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		key, _ := args["key"].(string)
		opts := api.GraphOptions{MaxDepth: -1, Direction: api.DirectionBoth}
		if v, ok := args["maxDepth"]; ok {
			if f, ok := v.(float64); ok {
				opts.MaxDepth = int(f)
			}
		}
		if v, ok := args["direction"].(string); ok && v != "" {
			opts.Direction = api.Direction(v)
		}
		return engine.GetRelationGraph(ctx, key, opts)
	}))

	s.AddTool(mcp.NewTool("resolve_card_code_links",
		mcp.WithDescription("Resolve a card's code links against the configured symbol indexer"),
		mcp.WithString("key", mcp.Required()),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		key, _ := args["key"].(string)
		return engine.ResolveCardCodeLinks(ctx, key)
	}))

	s.AddTool(mcp.NewTool("validate_code_links",
		mcp.WithDescription("Resolve every code link across every card against the symbol indexer"),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		return engine.ValidateCodeLinks(ctx)
	}))

	s.AddTool(mcp.NewTool("find_cards_by_symbol",
		mcp.WithDescription("Find cards whose code links reference a symbol"),
		mcp.WithString("name", mcp.Required()),
		mcp.WithString("file"),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		name, _ := args["name"].(string)
		file, _ := args["file"].(string)
		return engine.FindCardsBySymbol(ctx, name, file)
	}))

	s.AddTool(mcp.NewTool("find_affected_cards",
		mcp.WithDescription("Find cards whose code links reference any of the given files"),
		mcp.WithArray("files", mcp.Required()),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		files, err := decodeInto[[]string](args["files"])
		if err != nil {
			return nil, err
		}
		return engine.FindAffectedCards(ctx, files)
	}))

	s.AddTool(mcp.NewTool("search_cards",
		mcp.WithDescription("Full-text search over card summaries and bodies"),
		mcp.WithString("query", mcp.Required()),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		query, _ := args["query"].(string)
		return engine.SearchCards(ctx, query)
	}))

	s.AddTool(mcp.NewTool("prune_orphans",
		mcp.WithDescription("Delete keyword/tag names no longer attached to any card"),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		return nil, engine.PruneOrphans(ctx)
	}))

	s.AddTool(mcp.NewTool("list_card_keywords",
		mcp.WithDescription("List the keyword names attached to a card"),
		mcp.WithString("key", mcp.Required()),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		key, _ := args["key"].(string)
		return engine.ListCardKeywords(ctx, key)
	}))

	s.AddTool(mcp.NewTool("list_card_tags",
		mcp.WithDescription("List the tag names attached to a card"),
		mcp.WithString("key", mcp.Required()),
	), handle(func(ctx context.Context, args map[string]any) (any, error) {
		key, _ := args["key"].(string)
		return engine.ListCardTags(ctx, key)
	}))

	return s
}

// handle adapts a (ctx, args) -> (result, error) operation into an
// mcp-go tool handler, translating a non-nil error into the isError
// envelope of §6 rather than ever returning a transport-level failure.
func handle(fn func(ctx context.Context, args map[string]any) (any, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := fn(ctx, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if result == nil {
			return mcp.NewToolResultText("ok"), nil
		}
		out, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}

// decodeArgs round-trips the raw argument map through JSON into T,
// relying on T's own json tags (api.CreateInput and its nested types
// already carry the right ones).
func decodeArgs[T any](args map[string]any) (T, error) {
	var out T
	b, err := json.Marshal(args)
	if err != nil {
		return out, fmt.Errorf("marshal arguments: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("decode arguments: %w", err)
	}
	return out, nil
}

// decodeInto is decodeArgs for a single argument value rather than the
// whole map, used for fields whose decoded shape isn't a struct with
// its own json tags (e.g. a bare []string).
func decodeInto[T any](v any) (T, error) {
	var out T
	if v == nil {
		return out, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("marshal argument: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("decode argument: %w", err)
	}
	return out, nil
}

// buildUpdateInput translates raw JSON argument presence into
// api.UpdateInput's tri-state OptField composition (§4.7's "undefined
// keeps, null/empty deletes" rule): a key absent from args leaves the
// corresponding OptField unset; a key present — even with a null or
// empty value — sets it.
func buildUpdateInput(args map[string]any) (api.UpdateInput, error) {
	var in api.UpdateInput

	if v, ok := args["summary"]; ok {
		s, _ := v.(string)
		in.Summary = api.OptField[string]{Set: true, Value: s}
	}
	if v, ok := args["body"]; ok {
		s, _ := v.(string)
		in.Body = api.OptField[string]{Set: true, Value: s}
	}
	if v, ok := args["tags"]; ok {
		tags, err := decodeInto[[]string](v)
		if err != nil {
			return in, err
		}
		in.Tags = api.OptField[[]string]{Set: true, Value: tags}
	}
	if v, ok := args["keywords"]; ok {
		keywords, err := decodeInto[[]string](v)
		if err != nil {
			return in, err
		}
		in.Keywords = api.OptField[[]string]{Set: true, Value: keywords}
	}
	if v, ok := args["relations"]; ok {
		relations, err := decodeInto[[]api.RelationInput](v)
		if err != nil {
			return in, err
		}
		in.Relations = api.OptField[[]api.RelationInput]{Set: true, Value: relations}
	}
	if v, ok := args["codeLinks"]; ok {
		codeLinks, err := decodeInto[[]api.CodeLink](v)
		if err != nil {
			return in, err
		}
		in.CodeLinks = api.OptField[[]api.CodeLink]{Set: true, Value: codeLinks}
	}
	if v, ok := args["constraints"]; ok {
		in.Constraints = api.OptField[any]{Set: true, Value: v}
	}

	return in, nil
}
