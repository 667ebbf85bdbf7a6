package providers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-advisory-workers/internal/advisory/catalog"
	"agri-advisory-workers/internal/models"
)

func testCatalog() *catalog.Catalog {
	return catalog.Static(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
}

func loc(district, state string) *models.Location {
	return &models.Location{District: district, State: state}
}

func TestWeather_FetchWeather(t *testing.T) {
	p := &Weather{Catalog: testCatalog()}

	tests := []struct {
		name     string
		location models.Location
		want     []string
	}{
		{"district match", *loc("Allahabad", "Uttar Pradesh"), []string{"Allahabad, UP"}},
		{"state match", *loc("Pune", "Maharashtra"), []string{"Mumbai, Maharashtra"}},
		{"case insensitive", *loc("MUMBAI", "Unknown"), []string{"Mumbai, Maharashtra"}},
		{"no match", *loc("Chennai", "Tamil Nadu"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.FetchWeather(context.Background(), tt.location)
			require.NoError(t, err)
			require.NotNil(t, got)

			locations := []string{}
			for _, w := range got {
				locations = append(locations, w.Location)
			}
			assert.Equal(t, tt.want, locations)
		})
	}
}

func TestCropAdvisory_FetchCropAdvisories(t *testing.T) {
	p := &CropAdvisory{Catalog: testCatalog()}

	tests := []struct {
		name string
		qc   models.QueryContext
		want []string
	}{
		{"no filters", models.QueryContext{QueryType: models.QueryTypeCrop}, []string{"Paddy/Rice", "Wheat"}},
		{"state filter", models.QueryContext{Location: loc("Ludhiana", "Punjab")}, []string{"Wheat"}},
		{"crop filter", models.QueryContext{Crop: "rice"}, []string{"Paddy/Rice"}},
		{"state then crop", models.QueryContext{Location: loc("Lucknow", "Uttar Pradesh"), Crop: "wheat"}, []string{}},
		{"unknown state", models.QueryContext{Location: loc("Patna", "Unknown")}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.FetchCropAdvisories(context.Background(), tt.qc)
			require.NoError(t, err)
			require.NotNil(t, got)

			crops := []string{}
			for _, a := range got {
				crops = append(crops, a.Crop)
			}
			assert.Equal(t, tt.want, crops)
		})
	}
}

func TestMarketPrice_FetchMarketPrices(t *testing.T) {
	p := &MarketPrice{Catalog: testCatalog()}

	tests := []struct {
		name string
		qc   models.QueryContext
		want []string
	}{
		{"no filters", models.QueryContext{}, []string{"Allahabad Mandi", "Delhi Mandi"}},
		{"crop only", models.QueryContext{Crop: "wheat"}, []string{"Delhi Mandi"}},
		{"district", models.QueryContext{Location: loc("Delhi", "Delhi")}, []string{"Delhi Mandi"}},
		{"crop and market", models.QueryContext{Crop: "wheat", Location: loc("Delhi", "Delhi")}, []string{"Delhi Mandi"}},
		{"crop excludes market", models.QueryContext{Crop: "rice", Location: loc("Delhi", "Delhi")}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.FetchMarketPrices(context.Background(), tt.qc)
			require.NoError(t, err)
			require.NotNil(t, got)

			markets := []string{}
			for _, m := range got {
				markets = append(markets, m.Market)
			}
			assert.Equal(t, tt.want, markets)
		})
	}
}

func TestSoilHealth_FetchSoilHealth(t *testing.T) {
	p := &SoilHealth{Catalog: testCatalog()}

	got, err := p.FetchSoilHealth(context.Background(), *loc("allahabad", "Uttar Pradesh"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 7.2, got[0].PH)

	// state is not consulted
	got, err = p.FetchSoilHealth(context.Background(), *loc("Kanpur", "Uttar Pradesh"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScheme_FetchSchemes(t *testing.T) {
	cat := testCatalog()
	p := &Scheme{Catalog: cat}

	got, err := p.FetchSchemes(context.Background(), models.QueryContext{Crop: "cotton", Location: loc("Pune", "Maharashtra")})
	require.NoError(t, err)
	assert.Equal(t, cat.Schemes, got)

	got[0].Name = "changed"
	assert.Equal(t, "PM-KISAN", cat.Schemes[0].Name)
}

func TestProviders_ResultsDoNotAliasCatalog(t *testing.T) {
	cat := testCatalog()
	set := NewSet(cat, false)
	ctx := context.Background()

	schemes, err := set.Scheme.FetchSchemes(ctx, models.QueryContext{})
	require.NoError(t, err)
	require.NotEmpty(t, schemes[0].Eligibility)
	want := schemes[0].Eligibility[0]
	schemes[0].Eligibility[0] = "changed"
	assert.Equal(t, want, cat.Schemes[0].Eligibility[0])

	advisories, err := set.CropAdvisory.FetchCropAdvisories(ctx, models.QueryContext{})
	require.NoError(t, err)
	require.NotEmpty(t, advisories[0].Recommendations)
	want = advisories[0].Recommendations[0]
	advisories[0].Recommendations[0] = "changed"
	assert.Equal(t, want, cat.CropAdvisories[0].Recommendations[0])

	soil, err := set.SoilHealth.FetchSoilHealth(ctx, *loc("Allahabad", "Uttar Pradesh"))
	require.NoError(t, err)
	require.Len(t, soil, 1)
	require.NotEmpty(t, soil[0].Recommendations)
	soil[0].Recommendations = append(soil[0].Recommendations[:0], "changed")
	assert.NotEqual(t, "changed", cat.SoilHealth[0].Recommendations[0])
}

func TestProviders_CancelledContext(t *testing.T) {
	set := NewSet(testCatalog(), true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := set.Weather.FetchWeather(ctx, *loc("Allahabad", "Uttar Pradesh"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = set.Scheme.FetchSchemes(ctx, models.QueryContext{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSet_Latency(t *testing.T) {
	fast := NewSet(testCatalog(), false)
	assert.Zero(t, fast.MarketPrice.Latency)

	slow := NewSet(testCatalog(), true)
	assert.Equal(t, 500*time.Millisecond, slow.Weather.Latency)
	assert.Equal(t, 200*time.Millisecond, slow.Scheme.Latency)
}
