package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/session"
)

// OpenPageInput is the input schema for the open_page tool.
type OpenPageInput struct {
	Source string `json:"source" jsonschema:"file path or http(s) URL of the page"`
}

// PageOutput describes an open page.
type PageOutput struct {
	SessionID string `json:"session_id"`
	Source    string `json:"source"`
	Title     string `json:"title,omitempty"`
	WordCount int    `json:"word_count"`
	Frames    int    `json:"frames"`
}

// SessionInput identifies an open page.
type SessionInput struct {
	SessionID string `json:"session_id" jsonschema:"id returned by open_page"`
}

// HighlightInput is the input schema for the highlight tool.
type HighlightInput struct {
	SessionID   string `json:"session_id" jsonschema:"id returned by open_page"`
	Query       string `json:"query,omitempty" jsonschema:"the term to highlight; empty clears the page"`
	Description string `json:"description,omitempty" jsonschema:"highlight sentences matching this description instead of words"`
	Semantic    bool   `json:"semantic,omitempty" jsonschema:"also highlight synonyms, antonyms and related words"`
}

// HighlightOutput is the output schema for the highlight tool.
type HighlightOutput struct {
	RequestID     uint64           `json:"request_id"`
	Stale         bool             `json:"stale,omitempty"`
	CorrectedTerm string           `json:"corrected_term,omitempty"`
	Terms         domain.TermGroup `json:"terms"`
	Degraded      bool             `json:"degraded,omitempty"`
	Position      NavigationOutput `json:"position"`
	Images        []domain.Image   `json:"images"`
}

// GotoInput is the input schema for the goto_match tool.
type GotoInput struct {
	SessionID string `json:"session_id" jsonschema:"id returned by open_page"`
	Index     int    `json:"index" jsonschema:"zero-based match index, clamped to the available matches"`
}

// NavigationOutput reports the cursor after a navigation step.
type NavigationOutput struct {
	Current int          `json:"current"`
	Total   int          `json:"total"`
	Match   *MatchOutput `json:"match,omitempty"`
}

// MatchOutput describes the current match.
type MatchOutput struct {
	Text      string  `json:"text"`
	Category  string  `json:"category"`
	Intensity float64 `json:"intensity"`
}

// CloseOutput is the output schema for the close_page tool.
type CloseOutput struct {
	Closed bool `json:"closed"`
}

// AnalyzeInput is the input schema for the analyze_page tool.
type AnalyzeInput struct {
	SessionID string `json:"session_id" jsonschema:"id returned by open_page"`
	Keywords  int    `json:"keywords,omitempty" jsonschema:"number of keywords to return (default 10)"`
}

// AnalyzeOutput is the output schema for the analyze_page tool.
type AnalyzeOutput struct {
	Facts    domain.PageFacts     `json:"facts"`
	Keywords domain.KeywordReport `json:"keywords"`
}

// toolAnnotations describe how each tool affects the open pages.
var toolAnnotations = map[string]*mcp.ToolAnnotations{
	"open_page":        {Title: "Open page", OpenWorldHint: ptr(true), DestructiveHint: ptr(false)},
	"highlight":        {Title: "Highlight", IdempotentHint: true, OpenWorldHint: ptr(false), DestructiveHint: ptr(false)},
	"next_match":       {Title: "Next match", OpenWorldHint: ptr(false), DestructiveHint: ptr(false)},
	"previous_match":   {Title: "Previous match", OpenWorldHint: ptr(false), DestructiveHint: ptr(false)},
	"goto_match":       {Title: "Go to match", IdempotentHint: true, OpenWorldHint: ptr(false), DestructiveHint: ptr(false)},
	"clear_highlights": {Title: "Clear highlights", IdempotentHint: true, OpenWorldHint: ptr(false), DestructiveHint: ptr(false)},
	"close_page":       {Title: "Close page", OpenWorldHint: ptr(false), DestructiveHint: ptr(true)},
	"analyze_page":     {Title: "Analyze page", ReadOnlyHint: true, IdempotentHint: true, OpenWorldHint: ptr(false)},
}

func ptr[T any](v T) *T { return &v }

// tool builds a tool definition with its annotations.
func tool(name, description string) *mcp.Tool {
	return &mcp.Tool{Name: name, Description: description, Annotations: toolAnnotations[name]}
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, tool("open_page",
		"Load a web page so its text can be highlighted and searched"), s.handleOpenPage)
	mcp.AddTool(s.server, tool("highlight",
		"Highlight a term, its related words, or sentences matching a description in an open page"), s.handleHighlight)
	mcp.AddTool(s.server, tool("next_match",
		"Move to the next highlighted match, wrapping around"), s.handleNext)
	mcp.AddTool(s.server, tool("previous_match",
		"Move to the previous highlighted match, wrapping around"), s.handlePrevious)
	mcp.AddTool(s.server, tool("goto_match",
		"Jump to a highlighted match by index"), s.handleGoto)
	mcp.AddTool(s.server, tool("clear_highlights",
		"Remove all highlights from an open page"), s.handleClear)
	mcp.AddTool(s.server, tool("close_page",
		"Close an open page"), s.handleClosePage)
	mcp.AddTool(s.server, tool("analyze_page",
		"Summarise an open page: word count, reading time, headings, links, images and keywords"), s.handleAnalyze)
}

func (s *Server) handleOpenPage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OpenPageInput,
) (*mcp.CallToolResult, PageOutput, error) {
	if input.Source == "" {
		return nil, PageOutput{}, fmt.Errorf("%w: source is required", domain.ErrInvalidInput)
	}

	sess, err := s.ports.Pages.Open(ctx, input.Source)
	if err != nil {
		return nil, PageOutput{}, fmt.Errorf("opening page: %w", err)
	}
	s.ports.Sessions.Add(sess)

	facts := sess.Analyzer.Facts()
	return nil, PageOutput{
		SessionID: sess.ID,
		Source:    sess.Source,
		Title:     facts.Title,
		WordCount: facts.WordCount,
		Frames:    facts.Frames,
	}, nil
}

func (s *Server) handleHighlight(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HighlightInput,
) (*mcp.CallToolResult, HighlightOutput, error) {
	sess, err := s.ports.Sessions.Get(input.SessionID)
	if err != nil {
		return nil, HighlightOutput{}, err
	}

	res, err := sess.Find.Find(ctx, sess.Request(input.Query, input.Description, input.Semantic))
	if err != nil {
		return nil, HighlightOutput{}, fmt.Errorf("highlighting: %w", err)
	}

	terms := res.Group
	if terms.Primary == nil {
		terms.Primary = []string{}
	}
	if terms.Semantic == nil {
		terms.Semantic = []domain.WeightedTerm{}
	}
	images := res.Images
	if images == nil {
		images = []domain.Image{}
	}

	return nil, HighlightOutput{
		RequestID:     res.RequestID,
		Stale:         res.Stale,
		CorrectedTerm: res.CorrectedTerm,
		Terms:         terms,
		Degraded:      res.Degraded,
		Position:      navigation(sess, res.Position),
		Images:        images,
	}, nil
}

func (s *Server) handleNext(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, NavigationOutput, error) {
	sess, err := s.ports.Sessions.Get(input.SessionID)
	if err != nil {
		return nil, NavigationOutput{}, err
	}
	return nil, navigation(sess, sess.Find.Next()), nil
}

func (s *Server) handlePrevious(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, NavigationOutput, error) {
	sess, err := s.ports.Sessions.Get(input.SessionID)
	if err != nil {
		return nil, NavigationOutput{}, err
	}
	return nil, navigation(sess, sess.Find.Previous()), nil
}

func (s *Server) handleGoto(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GotoInput,
) (*mcp.CallToolResult, NavigationOutput, error) {
	sess, err := s.ports.Sessions.Get(input.SessionID)
	if err != nil {
		return nil, NavigationOutput{}, err
	}
	return nil, navigation(sess, sess.Find.GoTo(input.Index)), nil
}

func (s *Server) handleClear(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, NavigationOutput, error) {
	sess, err := s.ports.Sessions.Get(input.SessionID)
	if err != nil {
		return nil, NavigationOutput{}, err
	}
	sess.Find.Clear()
	return nil, navigation(sess, sess.Find.Position()), nil
}

func (s *Server) handleClosePage(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, CloseOutput, error) {
	if _, err := s.ports.Sessions.Get(input.SessionID); err != nil {
		return nil, CloseOutput{Closed: false}, nil
	}
	s.ports.Sessions.Remove(input.SessionID)
	return nil, CloseOutput{Closed: true}, nil
}

func (s *Server) handleAnalyze(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	sess, err := s.ports.Sessions.Get(input.SessionID)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}
	return nil, AnalyzeOutput{
		Facts:    sess.Analyzer.Facts(),
		Keywords: sess.Analyzer.Keywords(input.Keywords),
	}, nil
}

// navigation describes pos and the marker it points at.
func navigation(sess *session.Session, pos domain.Position) NavigationOutput {
	out := NavigationOutput{Current: pos.Current, Total: pos.Total}
	if m, ok := sess.Current(); ok {
		out.Match = &MatchOutput{
			Text:      m.Text,
			Category:  m.Category.String(),
			Intensity: m.Intensity,
		}
	}
	return out
}
