// Package mcptool exposes student clustering as an MCP tool.
package mcptool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hupe1980/cohort"
	"github.com/hupe1980/cohort/feature"
)

// ToolName is the registered name of the clustering tool.
const ToolName = "cluster_students"

// ClusterTool handles the cluster_students MCP tool.
type ClusterTool struct {
	analyzer *cohort.Analyzer
}

// NewClusterTool creates a ClusterTool backed by the given analyzer.
func NewClusterTool(a *cohort.Analyzer) *ClusterTool {
	return &ClusterTool{analyzer: a}
}

// Definition returns the MCP tool definition for registration.
func (t *ClusterTool) Definition() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription(
			"Group students into performance clusters with k-means. "+
				"Each student is an object with user_id and any of literacy_score, "+
				"math_score, games_played, total_score. Missing or non-numeric values count as 0. "+
				"Returns cluster assignments, performance labels and a silhouette quality score.",
		),
		mcp.WithArray("students",
			mcp.Required(),
			mcp.Description("Student records, e.g. [{\"user_id\": 1, \"literacy_score\": 88, \"math_score\": 91}]"),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithString("category",
			mcp.Description("Feature profile: all (default), literacy, math."),
			mcp.Enum("all", "literacy", "math"),
		),
		mcp.WithNumber("clusters",
			mcp.Description("Number of clusters, a positive integer (default 3; 0 also selects the default)."),
		),
	)
}

// Handle processes the cluster_students tool call.
func (t *ClusterTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	students, err := parseStudents(req.GetArguments()["students"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	clusters, err := parseClusters(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := t.analyzer.Analyze(ctx, cohort.Request{
		Students: students,
		Category: req.GetString("category", "all"),
		Clusters: clusters,
	})
	if err != nil {
		var ide *cohort.InsufficientDataError
		if errors.As(err, &ide) {
			return mcp.NewToolResultError(fmt.Sprintf(
				"need at least %d students for %d clusters, got %d", ide.Required, ide.Required, ide.Actual,
			)), nil
		}
		return nil, fmt.Errorf("clustering students: %w", err)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}

	return mcp.NewToolResultText(string(out)), nil
}

// parseClusters reads the optional cluster count. Zero or absent selects
// the analyzer default.
func parseClusters(req mcp.CallToolRequest) (int, error) {
	raw, ok := req.GetArguments()["clusters"]
	if !ok || raw == nil {
		return 0, nil
	}

	f := req.GetFloat("clusters", math.NaN())
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, fmt.Errorf("'clusters' must be a positive integer, got %v", raw)
	}
	return int(f), nil
}

// parseStudents accepts the decoded JSON array, or the array encoded as a string.
func parseStudents(raw any) ([]feature.Record, error) {
	switch v := raw.(type) {
	case nil:
		return nil, errors.New("'students' is required: provide an array of student objects")
	case string:
		var recs []feature.Record
		if err := json.Unmarshal([]byte(strings.TrimSpace(v)), &recs); err != nil {
			return nil, fmt.Errorf("'students' is not a JSON array of objects: %v", err)
		}
		return recs, nil
	case []any:
		recs := make([]feature.Record, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("'students[%d]' must be an object", i)
			}
			recs = append(recs, feature.NewRecord(m))
		}
		return recs, nil
	default:
		return nil, fmt.Errorf("'students' must be an array, got %T", raw)
	}
}

// NewServer creates an MCP server with the clustering tool registered.
func NewServer(a *cohort.Analyzer, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"cohort",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(
			"Use cluster_students to group a class into performance tiers. "+
				"Pass every student in one call; results are deterministic for the same input.",
		),
	)

	tool := NewClusterTool(a)
	s.AddTool(tool.Definition(), tool.Handle)

	return s
}
