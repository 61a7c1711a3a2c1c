// Package mcptool exposes the analyzer as Model Context Protocol tools over stdio.
package mcptool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jonathan/resume-screener/internal/analysis"
	"github.com/jonathan/resume-screener/internal/fetch"
)

// Tool names.
const (
	ToolAnalyzeResume = "analyze_resume"
	ToolRankResumes   = "rank_resumes"
	ToolListSkills    = "list_skills"
)

// Tools holds the dependencies shared by the tool handlers.
type Tools struct {
	analyzer *analysis.Analyzer
	fetcher  *fetch.Fetcher
}

// New creates the tool set. fetcher may be nil, which disables job_url.
func New(analyzer *analysis.Analyzer, fetcher *fetch.Fetcher) *Tools {
	return &Tools{analyzer: analyzer, fetcher: fetcher}
}

// Server builds an MCP server with every tool registered.
func (t *Tools) Server(version string) *server.MCPServer {
	s := server.NewMCPServer("resume-screener", version)
	t.Register(s)
	return s
}

// Register adds the tools to s.
func (t *Tools) Register(s *server.MCPServer) {
	analyzeTool := mcp.NewTool(ToolAnalyzeResume,
		mcp.WithDescription("Score a resume against a job description: match percentage, matched and missing skills, experience check and rewrite suggestions"),
	)
	analyzeTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"resume_text": map[string]interface{}{"type": "string", "description": "Plain text of the resume"},
			"job_text":    map[string]interface{}{"type": "string", "description": "Job description text"},
			"job_url":     map[string]interface{}{"type": "string", "description": "Job posting URL, used when job_text is empty"},
			"strategy":    map[string]interface{}{"type": "string", "enum": []string{"overlap", "statistical"}, "description": "Scoring strategy (default: overlap)"},
		},
		Required: []string{"resume_text"},
	}
	s.AddTool(analyzeTool, t.handleAnalyze)

	rankTool := mcp.NewTool(ToolRankResumes,
		mcp.WithDescription("Score several resumes against one job description and rank them best first"),
	)
	rankTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"job_text": map[string]interface{}{"type": "string", "description": "Job description text"},
			"resumes": map[string]interface{}{
				"type":        "array",
				"description": "Resumes to rank",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name": map[string]interface{}{"type": "string"},
						"text": map[string]interface{}{"type": "string"},
					},
					"required": []string{"name", "text"},
				},
			},
		},
		Required: []string{"job_text", "resumes"},
	}
	s.AddTool(rankTool, t.handleRank)

	listTool := mcp.NewTool(ToolListSkills,
		mcp.WithDescription("List the skill vocabulary resumes are matched against"),
	)
	s.AddTool(listTool, t.handleListSkills)
}

func (t *Tools) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	resumeText := stringArg(args, "resume_text")
	jobText := stringArg(args, "job_text")
	jobURL := stringArg(args, "job_url")

	if strings.TrimSpace(jobText) == "" && jobURL != "" {
		if t.fetcher == nil {
			return mcp.NewToolResultError("job_url is not supported by this server"), nil
		}
		page, err := t.fetcher.JobText(ctx, jobURL)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch job posting: %v", err)), nil
		}
		jobText = page.Text
	}

	report, err := t.analyzer.AnalyzeRequest(ctx, analysis.Request{
		ResumeText: resumeText,
		JobText:    jobText,
		Strategy:   stringArg(args, "strategy"),
	})
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}
	return jsonResult(report)
}

func (t *Tools) handleRank(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	raw, _ := args["resumes"].([]interface{})
	candidates := make([]analysis.Candidate, 0, len(raw))
	for i, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("resumes[%d] must be an object", i)), nil
		}
		name := stringArg(entry, "name")
		if name == "" {
			name = fmt.Sprintf("resume-%d", i+1)
		}
		candidates = append(candidates, analysis.Candidate{Name: name, Text: stringArg(entry, "text")})
	}

	items, err := t.analyzer.AnalyzeBatch(ctx, stringArg(args, "job_text"), candidates, 0)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}
	return jsonResult(items)
}

func (t *Tools) handleListSkills(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.analyzer.Vocabulary().Phrases())
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func toolError(err error) string {
	var inputErr *analysis.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}
	return err.Error()
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ServeStdio runs s on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
