// Package mcp exposes the assessment pipeline as MCP tools over stdio, so
// editor agents can score stories without a tracker round trip.
package mcp

import (
	"context"
	"fmt"
	"time"

	"storyscope/internal/assess"
	"storyscope/internal/logging"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server with the assessment tools registered.
type Server struct {
	MCPServer *sdkmcp.Server
}

// NewServer creates an MCP server exposing assess_story and score_preview.
func NewServer() *Server {
	s := &Server{}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "storyscope", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "assess_story",
		Description: "Assess one story end to end: quality, coverage, governance, compliance and the composite performance score. Takes raw story text plus lifecycle evidence.",
	}, s.handleAssessStory)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "score_preview",
		Description: "Preview acceptance-criteria quality and test coverage for draft text, before any tracker state exists. Compliance and lifecycle checks are skipped.",
	}, s.handleScorePreview)
}

// --- Tool input/output types ---

type testCaseInput struct {
	Title          string `json:"title" jsonschema:"test case title"`
	Steps          string `json:"steps,omitempty" jsonschema:"test steps text"`
	ExpectedResult string `json:"expected_result,omitempty" jsonschema:"expected result text"`
	State          string `json:"state,omitempty" jsonschema:"test case lifecycle state (Design, Needs Review, Ready, Failed)"`
}

type assessStoryInput struct {
	StoryID            int             `json:"story_id,omitempty" jsonschema:"work item ID, informational only"`
	Title              string          `json:"title" jsonschema:"story title"`
	Description        string          `json:"description,omitempty" jsonschema:"story description, HTML allowed"`
	Assignee           string          `json:"assignee,omitempty" jsonschema:"tester display name"`
	AcceptanceCriteria string          `json:"acceptance_criteria" jsonschema:"raw acceptance criteria text, one criterion per line or HTML list"`
	Tests              []testCaseInput `json:"tests,omitempty" jsonschema:"linked test cases"`
	State              string          `json:"state" jsonschema:"current story state (e.g. QA in Progress, Passed QA)"`
	TestsAuthored      bool            `json:"tests_authored,omitempty" jsonschema:"test-cases-authored toggle"`
	TestsReviewed      bool            `json:"tests_reviewed,omitempty" jsonschema:"test-cases-reviewed toggle"`
	StateHistory       []string        `json:"state_history,omitempty" jsonschema:"chronological story state sequence"`
	EverNeedsReview    bool            `json:"ever_needs_review,omitempty" jsonschema:"whether any test was ever in Needs Review"`
	ReviewToggleAt     string          `json:"review_toggle_at,omitempty" jsonschema:"RFC3339 time the reviewed toggle was set"`
	EarliestTestAt     string          `json:"earliest_test_at,omitempty" jsonschema:"RFC3339 creation time of the oldest linked test"`
	PassedQAAt         string          `json:"passed_qa_at,omitempty" jsonschema:"RFC3339 time the story reached Passed QA"`
}

type criterionScore struct {
	Ordinal  int     `json:"ordinal"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	Category string  `json:"category,omitempty"`
}

type assessStoryOutput struct {
	StoryID          int      `json:"story_id"`
	StoryType        string   `json:"story_type"`
	ACQuality        float64  `json:"ac_quality"`
	Coverage         float64  `json:"coverage"`
	ScenarioCoverage float64  `json:"scenario_coverage"`
	TestDepth        float64  `json:"test_depth"`
	Governance       float64  `json:"governance"`
	Performance      float64  `json:"performance"`
	Risk             string   `json:"risk"`
	Compliance       string   `json:"compliance"`
	Violations       []string `json:"violations,omitempty"`
	MissingCriteria  []int    `json:"missing_criteria,omitempty"`
}

type scorePreviewInput struct {
	Title              string   `json:"title,omitempty" jsonschema:"story title, used for type classification"`
	Description        string   `json:"description,omitempty" jsonschema:"story description"`
	AcceptanceCriteria string   `json:"acceptance_criteria" jsonschema:"raw acceptance criteria text"`
	TestTexts          []string `json:"test_texts,omitempty" jsonschema:"free-text blobs of the draft test cases"`
}

type scorePreviewOutput struct {
	StoryType         string           `json:"story_type"`
	ACQuality         float64          `json:"ac_quality"`
	Criteria          []criterionScore `json:"criteria"`
	Coverage          float64          `json:"coverage"`
	CoverageByOrdinal []criterionScore `json:"coverage_by_ordinal,omitempty"`
	MissingCriteria   []int            `json:"missing_criteria,omitempty"`
	ScenarioCoverage  float64          `json:"scenario_coverage"`
	MissingScenarios  []string         `json:"missing_scenarios,omitempty"`
}

// --- Tool handlers ---

func (s *Server) handleAssessStory(ctx context.Context, _ *sdkmcp.CallToolRequest, input assessStoryInput) (*sdkmcp.CallToolResult, assessStoryOutput, error) {
	if input.Title == "" {
		return nil, assessStoryOutput{}, fmt.Errorf("assess_story: title is required")
	}

	tests := make([]assess.TestArtifact, 0, len(input.Tests))
	states := make([]string, 0, len(input.Tests))
	for i, t := range input.Tests {
		tests = append(tests, assess.TestArtifact{
			ID:             i + 1,
			Title:          t.Title,
			Steps:          t.Steps,
			ExpectedResult: t.ExpectedResult,
			State:          t.State,
		})
		states = append(states, t.State)
	}

	comp := assess.NewComplianceContext(input.State, input.TestsAuthored, input.TestsReviewed, states, input.StateHistory)
	comp.EverNeedsReview = input.EverNeedsReview
	comp.ReviewToggleAt = parseOptTime(input.ReviewToggleAt)
	comp.EarliestTestAt = parseOptTime(input.EarliestTestAt)
	comp.PassedQAAt = parseOptTime(input.PassedQAAt)

	result := assess.Evaluate(ctx, assess.StoryInput{
		ID:          input.StoryID,
		Title:       input.Title,
		Description: input.Description,
		Assignee:    input.Assignee,
		CriteriaRaw: input.AcceptanceCriteria,
		Tests:       tests,
		Compliance:  comp,
	}, nil)

	logging.New("mcp").Info("assessed story",
		"story_id", result.StoryID,
		"performance", result.Performance.Score,
		"risk", result.Performance.Risk)

	return nil, assessStoryOutput{
		StoryID:          result.StoryID,
		StoryType:        result.Profile.Type,
		ACQuality:        result.Quality,
		Coverage:         result.Coverage,
		ScenarioCoverage: result.Gaps.CoveragePct,
		TestDepth:        result.TestDepth,
		Governance:       result.Governance.Score,
		Performance:      result.Performance.Score,
		Risk:             string(result.Performance.Risk),
		Compliance:       result.Compliance.Status(),
		Violations:       result.Compliance.Violations,
		MissingCriteria:  result.Structural.MissingOrdinals(),
	}, nil
}

func (s *Server) handleScorePreview(_ context.Context, _ *sdkmcp.CallToolRequest, input scorePreviewInput) (*sdkmcp.CallToolResult, scorePreviewOutput, error) {
	criteria := assess.BuildCriteria(input.AcceptanceCriteria)
	if len(criteria) == 0 {
		return nil, scorePreviewOutput{}, fmt.Errorf("score_preview: no acceptance criteria found")
	}

	texts := make(map[int]string, len(criteria))
	for _, ac := range criteria {
		texts[ac.Ordinal] = ac.RawText
	}

	quality, details := assess.EvaluateQuality(criteria)
	out := scorePreviewOutput{
		ACQuality: quality,
		Criteria:  make([]criterionScore, 0, len(details)),
	}
	for _, d := range details {
		out.Criteria = append(out.Criteria, criterionScore{
			Ordinal: d.Ordinal,
			Text:    texts[d.Ordinal],
			Score:   d.Score,
		})
	}

	profile := assess.ClassifyStoryType(input.Title, input.Description, criteria)
	out.StoryType = profile.Type

	combined := joinTexts(input.TestTexts)
	cov := assess.EvaluateCoverage(criteria, combined)
	out.Coverage = cov.Overall
	out.MissingCriteria = cov.MissingOrdinals()
	for _, c := range cov.Criteria {
		cs := criterionScore{
			Ordinal:  c.Ordinal,
			Text:     texts[c.Ordinal],
			Category: string(c.Category),
		}
		if c.Score != nil {
			cs.Score = *c.Score
		}
		out.CoverageByOrdinal = append(out.CoverageByOrdinal, cs)
	}

	gaps := assess.DetectScenarioGaps(criteria, input.TestTexts)
	out.ScenarioCoverage = gaps.CoveragePct
	for _, m := range gaps.Missing {
		out.MissingScenarios = append(out.MissingScenarios, m.Suggestion)
	}
	return nil, out, nil
}

func parseOptTime(s string) assess.OptTime {
	if s == "" {
		return assess.OptTime{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return assess.OptTime{}
	}
	return assess.At(t)
}

func joinTexts(texts []string) string {
	combined := ""
	for i, t := range texts {
		if i > 0 {
			combined += "\n\n"
		}
		combined += t
	}
	return combined
}
