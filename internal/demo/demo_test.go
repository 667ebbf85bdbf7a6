package demo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-advisory-workers/internal/advisory/aggregator"
	"agri-advisory-workers/internal/advisory/catalog"
	"agri-advisory-workers/internal/advisory/providers"
	"agri-advisory-workers/internal/common/logger"
	"agri-advisory-workers/internal/models"
)

func TestScenarios(t *testing.T) {
	scenarios, err := Scenarios()
	require.NoError(t, err)
	require.Len(t, scenarios, 8)

	s, ok := Find(scenarios, "complex-multi-factor")
	require.True(t, ok)
	assert.Equal(t, "crop", s.Category)
	assert.Len(t, s.ExpectedDataSources, 4)

	hindi, ok := Find(scenarios, "hindi-pest-control")
	require.True(t, ok)
	assert.Equal(t, "hi", hindi.Language)

	_, ok = Find(scenarios, "nope")
	assert.False(t, ok)
}

func TestParseScenarios_Invalid(t *testing.T) {
	_, err := ParseScenarios([]byte("scenarios:\n  - id: a\n    query: q\n  - id: a\n    query: r\n"))
	assert.EqualError(t, err, `scenario "a" defined twice`)

	_, err = ParseScenarios([]byte("scenarios:\n  - title: no id\n"))
	assert.Error(t, err)

	_, err = ParseScenarios([]byte("scenarios: ["))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	s := Scenario{ID: "x", Query: "q", ExpectedDataSources: []string{"eNAM"}}
	log := logger.NewTestLogger(t)

	t.Run("matched", func(t *testing.T) {
		res := Run(context.Background(), s, func(context.Context, string, string) (*models.AggregatedResponse, error) {
			return &models.AggregatedResponse{Sources: []string{models.SourceMarket}}, nil
		}, log)
		assert.True(t, res.Success)
		assert.True(t, res.SourcesMatched)
		assert.Equal(t, []string{models.SourceMarket}, res.UsedSources)
		assert.NotEmpty(t, res.RunID)
	})

	t.Run("not matched", func(t *testing.T) {
		res := Run(context.Background(), s, func(context.Context, string, string) (*models.AggregatedResponse, error) {
			return &models.AggregatedResponse{Sources: []string{models.SourceSoil}}, nil
		}, log)
		assert.True(t, res.Success)
		assert.False(t, res.SourcesMatched)
	})

	t.Run("no dataset info", func(t *testing.T) {
		res := Run(context.Background(), s, func(context.Context, string, string) (*models.AggregatedResponse, error) {
			return nil, nil
		}, log)
		assert.True(t, res.Success)
		assert.False(t, res.SourcesMatched)
		assert.Equal(t, []string{}, res.UsedSources)
	})

	t.Run("submit error", func(t *testing.T) {
		res := Run(context.Background(), s, func(context.Context, string, string) (*models.AggregatedResponse, error) {
			return nil, errors.New("broker down")
		}, log)
		assert.False(t, res.Success)
		assert.False(t, res.SourcesMatched)
		assert.Equal(t, "broker down", res.Error)
	})
}

func TestBuildReport(t *testing.T) {
	assert.Equal(t, Report{}, BuildReport(nil))

	r := BuildReport([]Result{
		{Success: true, SourcesMatched: true},
		{Success: true},
		{Success: false},
		{Success: true, SourcesMatched: true},
	})
	assert.Equal(t, 4, r.TotalScenarios)
	assert.Equal(t, 3, r.SuccessfulScenarios)
	assert.Equal(t, 2, r.ScenariosWithSources)
	assert.InDelta(t, 75.0, r.SuccessRate, 1e-9)
	assert.InDelta(t, 50.0, r.DataIntegrationRate, 1e-9)
}

func TestRunAll_LocalPipeline(t *testing.T) {
	scenarios, err := Scenarios()
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	agg := aggregator.New(
		aggregator.FromSet(providers.NewSet(catalog.Static(now), false)),
		aggregator.WithClock(func() time.Time { return now }),
	)

	results := RunAll(context.Background(), scenarios, LocalSubmitter(agg), logger.NewTestLogger(t))
	require.Len(t, results, len(scenarios))

	byID := map[string]Result{}
	for _, r := range results {
		byID[r.ScenarioID] = r
		assert.True(t, r.SourcesMatched, r.ScenarioID)
	}
	assert.Equal(t, []string{models.SourceWeather}, byID["weather-crop-allahabad"].UsedSources)
	assert.Equal(t, []string{models.SourceMarket}, byID["market-wheat-decision"].UsedSources)
	assert.Equal(t, []string{models.SourceSoil}, byID["soil-based-crops"].UsedSources)
	// no keywords and no location: weather and soil are not selected
	assert.Equal(t, []string{models.SourceCrop, models.SourceMarket, models.SourceScheme},
		byID["bengali-fertilizer"].UsedSources)

	report := BuildReport(results)
	assert.Equal(t, 100.0, report.SuccessRate)
	assert.Equal(t, 100.0, report.DataIntegrationRate)
}

func TestRunAll_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scenarios, err := Scenarios()
	require.NoError(t, err)
	results := RunAll(ctx, scenarios, func(context.Context, string, string) (*models.AggregatedResponse, error) {
		return nil, nil
	}, logger.NewNoOpLogger())
	assert.Empty(t, results)
}
