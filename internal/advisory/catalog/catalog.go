// internal/advisory/catalog/catalog.go
package catalog

import (
	"context"
	"time"

	"agri-advisory-workers/internal/models"
)

// Catalog holds the provider tables. It is built once at start and never
// mutated afterwards; providers read it concurrently without locking.
type Catalog struct {
	Weather        []models.WeatherData
	CropAdvisories []models.CropAdvisory
	MarketPrices   []models.MarketPrice
	SoilHealth     []models.SoilHealth
	Schemes        []models.GovernmentScheme
}

// Source loads a catalog from some backing store.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

const (
	SourceStatic        = "static"
	SourcePostgres      = "postgres"
	SourceElasticsearch = "elasticsearch"
)

func (c *Catalog) Counts() map[string]int {
	return map[string]int{
		"weather":        len(c.Weather),
		"cropAdvisories": len(c.CropAdvisories),
		"marketPrices":   len(c.MarketPrices),
		"soilHealth":     len(c.SoilHealth),
		"schemes":        len(c.Schemes),
	}
}

// StaticSource serves the compiled-in tables.
type StaticSource struct {
	Now func() time.Time
}

func (s StaticSource) Load(_ context.Context) (*Catalog, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return Static(now()), nil
}

// Static builds the compiled-in tables, stamping dated records with stampedAt.
func Static(stampedAt time.Time) *Catalog {
	date := stampedAt.UTC().Format(time.RFC3339)

	return &Catalog{
		Weather: []models.WeatherData{
			{
				Location:    "Allahabad, UP",
				Temperature: 28,
				Humidity:    65,
				Rainfall:    2.5,
				WindSpeed:   12,
				Forecast:    "Partly cloudy with light rain expected",
				Date:        date,
				Source:      models.SourceWeather,
			},
			{
				Location:    "Mumbai, Maharashtra",
				Temperature: 32,
				Humidity:    78,
				Rainfall:    0,
				WindSpeed:   8,
				Forecast:    "Clear skies, hot and humid",
				Date:        date,
				Source:      models.SourceWeather,
			},
		},
		CropAdvisories: []models.CropAdvisory{
			{
				Crop:        "Paddy/Rice",
				Region:      "Uttar Pradesh",
				SowingTime:  "June-July (Kharif season)",
				HarvestTime: "October-November",
				PestAlerts:  []string{"Brown Plant Hopper", "Stem Borer"},
				Recommendations: []string{
					"Prepare nursery beds with proper drainage",
					"Use certified seeds for better yield",
					"Apply organic manure before sowing",
				},
				Date:   date,
				Source: "Department of Agriculture, UP",
			},
			{
				Crop:        "Wheat",
				Region:      "Punjab",
				SowingTime:  "November-December (Rabi season)",
				HarvestTime: "April-May",
				PestAlerts:  []string{"Aphids", "Rust disease"},
				Recommendations: []string{
					"Ensure proper soil moisture before sowing",
					"Use recommended fertilizer doses",
					"Monitor for pest attacks regularly",
				},
				Date:   date,
				Source: "Punjab Agricultural University",
			},
		},
		MarketPrices: []models.MarketPrice{
			{
				Crop:   "Rice",
				Market: "Allahabad Mandi",
				Price:  2850,
				Unit:   "per quintal",
				Date:   date,
				Trend:  models.TrendUp,
				Source: models.SourceMarket,
			},
			{
				Crop:   "Wheat",
				Market: "Delhi Mandi",
				Price:  2200,
				Unit:   "per quintal",
				Date:   date,
				Trend:  models.TrendStable,
				Source: models.SourceMarket,
			},
		},
		SoilHealth: []models.SoilHealth{
			{
				Region:        "Allahabad District",
				PH:            7.2,
				Nitrogen:      280,
				Phosphorus:    45,
				Potassium:     320,
				OrganicMatter: 1.8,
				Recommendations: []string{
					"Soil pH is optimal for most crops",
					"Consider adding organic matter",
					"Phosphorus levels are adequate",
				},
				Source: models.SourceSoil,
			},
		},
		Schemes: []models.GovernmentScheme{
			{
				Name:               "PM-KISAN",
				Description:        "Direct income support to farmers",
				Eligibility:        []string{"Small and marginal farmers", "Land ownership required"},
				Benefits:           "₹6000 per year in three installments",
				ApplicationProcess: "Online registration through PM-KISAN portal",
				Source:             models.SourceScheme,
			},
			{
				Name:               "Pradhan Mantri Fasal Bima Yojana",
				Description:        "Crop insurance scheme for farmers",
				Eligibility:        []string{"All farmers", "Covers notified crops"},
				Benefits:           "Insurance coverage against crop loss",
				ApplicationProcess: "Through banks, CSCs, or insurance companies",
				Source:             models.SourceScheme,
			},
		},
	}
}
