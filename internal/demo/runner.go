// internal/demo/runner.go
package demo

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"agri-advisory-workers/internal/advisory/classifier"
	"agri-advisory-workers/internal/common/logger"
	"agri-advisory-workers/internal/models"
)

// SubmitFunc answers a query. A nil response means the pipeline produced no
// dataset info.
type SubmitFunc func(ctx context.Context, query, language string) (*models.AggregatedResponse, error)

type Aggregator interface {
	Aggregate(ctx context.Context, qc models.QueryContext) models.AggregatedResponse
}

// LocalSubmitter classifies and aggregates in-process.
func LocalSubmitter(agg Aggregator) SubmitFunc {
	return func(ctx context.Context, query, _ string) (*models.AggregatedResponse, error) {
		resp := agg.Aggregate(ctx, classifier.Classify(query))
		return &resp, nil
	}
}

type Result struct {
	RunID          string                     `json:"runId"`
	ScenarioID     string                     `json:"scenarioId"`
	Success        bool                       `json:"success"`
	SourcesMatched bool                       `json:"sourcesMatched"`
	UsedSources    []string                   `json:"usedSources"`
	Response       *models.AggregatedResponse `json:"response,omitempty"`
	Err            error                      `json:"-"`
	Error          string                     `json:"error,omitempty"`
}

// Run submits one scenario. Sources match when any expected source is a
// substring of any used source.
func Run(ctx context.Context, s Scenario, submit SubmitFunc, log logger.Logger) Result {
	res := Result{
		RunID:       uuid.NewString(),
		ScenarioID:  s.ID,
		UsedSources: []string{},
	}
	log = log.WithFields(map[string]interface{}{"scenario": s.ID, "runId": res.RunID})
	log.Info("running demo scenario", map[string]interface{}{
		"title":    s.Title,
		"query":    s.Query,
		"expected": s.ExpectedDataSources,
	})

	resp, err := submit(ctx, s.Query, s.Language)
	if err != nil {
		res.Err = err
		res.Error = err.Error()
		log.Error("demo scenario failed", map[string]interface{}{"error": err})
		return res
	}

	res.Success = true
	res.Response = resp
	if resp == nil || resp.Sources == nil {
		log.Warn("demo completed without dataset info", nil)
		return res
	}

	res.UsedSources = append(res.UsedSources, resp.Sources...)
	res.SourcesMatched = sourcesMatch(s.ExpectedDataSources, res.UsedSources)
	log.Info("demo scenario completed", map[string]interface{}{
		"usedSources":    res.UsedSources,
		"sourcesMatched": res.SourcesMatched,
	})
	return res
}

// RunAll runs scenarios one after another, stopping early if ctx is done.
func RunAll(ctx context.Context, scenarios []Scenario, submit SubmitFunc, log logger.Logger) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		if ctx.Err() != nil {
			break
		}
		results = append(results, Run(ctx, s, submit, log))
	}
	return results
}

func sourcesMatch(expected, used []string) bool {
	for _, e := range expected {
		for _, u := range used {
			if strings.Contains(u, e) {
				return true
			}
		}
	}
	return false
}

type Report struct {
	TotalScenarios       int      `json:"totalScenarios"`
	SuccessfulScenarios  int      `json:"successfulScenarios"`
	ScenariosWithSources int      `json:"scenariosWithSources"`
	SuccessRate          float64  `json:"successRate"`
	DataIntegrationRate  float64  `json:"dataIntegrationRate"`
	Details              []Result `json:"details"`
}

// BuildReport summarises results. Rates are percentages and are 0 for an
// empty run.
func BuildReport(results []Result) Report {
	r := Report{TotalScenarios: len(results), Details: results}
	for _, res := range results {
		if res.Success {
			r.SuccessfulScenarios++
		}
		if res.SourcesMatched {
			r.ScenariosWithSources++
		}
	}
	if r.TotalScenarios > 0 {
		total := float64(r.TotalScenarios)
		r.SuccessRate = float64(r.SuccessfulScenarios) / total * 100
		r.DataIntegrationRate = float64(r.ScenariosWithSources) / total * 100
	}
	return r
}
