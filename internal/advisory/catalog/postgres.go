// internal/advisory/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"agri-advisory-workers/internal/models"
)

var ErrCatalogLoadFailed = errors.New("CATALOG_LOAD_FAILED")

// Schema creates the catalog tables. Rows are returned in id order.
const Schema = `
CREATE TABLE IF NOT EXISTS weather_observations (
	id          SERIAL PRIMARY KEY,
	location    TEXT NOT NULL,
	temperature DOUBLE PRECISION NOT NULL,
	humidity    DOUBLE PRECISION NOT NULL,
	rainfall    DOUBLE PRECISION NOT NULL,
	wind_speed  DOUBLE PRECISION NOT NULL,
	forecast    TEXT NOT NULL,
	observed_at TIMESTAMPTZ NOT NULL,
	source      TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS crop_advisories (
	id              SERIAL PRIMARY KEY,
	crop            TEXT NOT NULL,
	region          TEXT NOT NULL,
	sowing_time     TEXT NOT NULL,
	harvest_time    TEXT NOT NULL,
	pest_alerts     TEXT[] NOT NULL DEFAULT '{}',
	recommendations TEXT[] NOT NULL DEFAULT '{}',
	issued_at       TIMESTAMPTZ NOT NULL,
	source          TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS market_prices (
	id        SERIAL PRIMARY KEY,
	crop      TEXT NOT NULL,
	market    TEXT NOT NULL,
	price     DOUBLE PRECISION NOT NULL,
	unit      TEXT NOT NULL,
	quoted_at TIMESTAMPTZ NOT NULL,
	trend     TEXT NOT NULL CHECK (trend IN ('up', 'down', 'stable')),
	source    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS soil_health (
	id              SERIAL PRIMARY KEY,
	region          TEXT NOT NULL,
	ph              DOUBLE PRECISION NOT NULL,
	nitrogen        DOUBLE PRECISION NOT NULL,
	phosphorus      DOUBLE PRECISION NOT NULL,
	potassium       DOUBLE PRECISION NOT NULL,
	organic_matter  DOUBLE PRECISION NOT NULL,
	recommendations TEXT[] NOT NULL DEFAULT '{}',
	source          TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS government_schemes (
	id                  SERIAL PRIMARY KEY,
	name                TEXT NOT NULL,
	description         TEXT NOT NULL,
	eligibility         TEXT[] NOT NULL DEFAULT '{}',
	benefits            TEXT NOT NULL,
	application_process TEXT NOT NULL,
	deadline            TEXT,
	source              TEXT NOT NULL
);`

const (
	selectWeather = `SELECT location, temperature, humidity, rainfall, wind_speed, forecast, observed_at, source
		FROM weather_observations ORDER BY id`
	selectCropAdvisories = `SELECT crop, region, sowing_time, harvest_time, pest_alerts, recommendations, issued_at, source
		FROM crop_advisories ORDER BY id`
	selectMarketPrices = `SELECT crop, market, price, unit, quoted_at, trend, source
		FROM market_prices ORDER BY id`
	selectSoilHealth = `SELECT region, ph, nitrogen, phosphorus, potassium, organic_matter, recommendations, source
		FROM soil_health ORDER BY id`
	selectSchemes = `SELECT name, description, eligibility, benefits, application_process, deadline, source
		FROM government_schemes ORDER BY id`
)

// PostgresSource reads the catalog tables once; the result is not refreshed.
type PostgresSource struct {
	DB *sql.DB
}

func (s PostgresSource) Load(ctx context.Context) (*Catalog, error) {
	cat := &Catalog{}
	steps := []struct {
		table string
		load  func(context.Context, *Catalog) error
	}{
		{"weather_observations", s.loadWeather},
		{"crop_advisories", s.loadCropAdvisories},
		{"market_prices", s.loadMarketPrices},
		{"soil_health", s.loadSoilHealth},
		{"government_schemes", s.loadSchemes},
	}
	for _, step := range steps {
		if err := step.load(ctx, cat); err != nil {
			return nil, fmt.Errorf("%w: postgres %s: %v", ErrCatalogLoadFailed, step.table, err)
		}
	}
	return cat, nil
}

func (s PostgresSource) loadWeather(ctx context.Context, cat *Catalog) error {
	rows, err := s.DB.QueryContext(ctx, selectWeather)
	if err != nil {
		return err
	}
	defer rows.Close()

	cat.Weather = []models.WeatherData{}
	for rows.Next() {
		var w models.WeatherData
		var observedAt time.Time
		if err := rows.Scan(&w.Location, &w.Temperature, &w.Humidity, &w.Rainfall, &w.WindSpeed, &w.Forecast, &observedAt, &w.Source); err != nil {
			return err
		}
		w.Date = observedAt.UTC().Format(time.RFC3339)
		cat.Weather = append(cat.Weather, w)
	}
	return rows.Err()
}

func (s PostgresSource) loadCropAdvisories(ctx context.Context, cat *Catalog) error {
	rows, err := s.DB.QueryContext(ctx, selectCropAdvisories)
	if err != nil {
		return err
	}
	defer rows.Close()

	cat.CropAdvisories = []models.CropAdvisory{}
	for rows.Next() {
		var a models.CropAdvisory
		var issuedAt time.Time
		if err := rows.Scan(&a.Crop, &a.Region, &a.SowingTime, &a.HarvestTime,
			pq.Array(&a.PestAlerts), pq.Array(&a.Recommendations), &issuedAt, &a.Source); err != nil {
			return err
		}
		a.Date = issuedAt.UTC().Format(time.RFC3339)
		cat.CropAdvisories = append(cat.CropAdvisories, a)
	}
	return rows.Err()
}

func (s PostgresSource) loadMarketPrices(ctx context.Context, cat *Catalog) error {
	rows, err := s.DB.QueryContext(ctx, selectMarketPrices)
	if err != nil {
		return err
	}
	defer rows.Close()

	cat.MarketPrices = []models.MarketPrice{}
	for rows.Next() {
		var p models.MarketPrice
		var quotedAt time.Time
		var trend string
		if err := rows.Scan(&p.Crop, &p.Market, &p.Price, &p.Unit, &quotedAt, &trend, &p.Source); err != nil {
			return err
		}
		p.Date = quotedAt.UTC().Format(time.RFC3339)
		p.Trend = models.Trend(trend)
		cat.MarketPrices = append(cat.MarketPrices, p)
	}
	return rows.Err()
}

func (s PostgresSource) loadSoilHealth(ctx context.Context, cat *Catalog) error {
	rows, err := s.DB.QueryContext(ctx, selectSoilHealth)
	if err != nil {
		return err
	}
	defer rows.Close()

	cat.SoilHealth = []models.SoilHealth{}
	for rows.Next() {
		var sh models.SoilHealth
		if err := rows.Scan(&sh.Region, &sh.PH, &sh.Nitrogen, &sh.Phosphorus, &sh.Potassium,
			&sh.OrganicMatter, pq.Array(&sh.Recommendations), &sh.Source); err != nil {
			return err
		}
		cat.SoilHealth = append(cat.SoilHealth, sh)
	}
	return rows.Err()
}

func (s PostgresSource) loadSchemes(ctx context.Context, cat *Catalog) error {
	rows, err := s.DB.QueryContext(ctx, selectSchemes)
	if err != nil {
		return err
	}
	defer rows.Close()

	cat.Schemes = []models.GovernmentScheme{}
	for rows.Next() {
		var g models.GovernmentScheme
		var deadline sql.NullString
		if err := rows.Scan(&g.Name, &g.Description, pq.Array(&g.Eligibility), &g.Benefits,
			&g.ApplicationProcess, &deadline, &g.Source); err != nil {
			return err
		}
		g.Deadline = deadline.String
		cat.Schemes = append(cat.Schemes, g)
	}
	return rows.Err()
}

// SeedPostgres creates the schema and replaces the table contents with cat in
// a single transaction.
func SeedPostgres(ctx context.Context, db *sql.DB, cat *Catalog) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `TRUNCATE weather_observations, crop_advisories, market_prices, soil_health, government_schemes RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate catalog: %w", err)
	}

	for _, w := range cat.Weather {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO weather_observations (location, temperature, humidity, rainfall, wind_speed, forecast, observed_at, source)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			w.Location, w.Temperature, w.Humidity, w.Rainfall, w.WindSpeed, w.Forecast, parseDate(w.Date), w.Source); err != nil {
			return fmt.Errorf("insert weather %q: %w", w.Location, err)
		}
	}
	for _, a := range cat.CropAdvisories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO crop_advisories (crop, region, sowing_time, harvest_time, pest_alerts, recommendations, issued_at, source)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			a.Crop, a.Region, a.SowingTime, a.HarvestTime, pq.Array(a.PestAlerts), pq.Array(a.Recommendations), parseDate(a.Date), a.Source); err != nil {
			return fmt.Errorf("insert crop advisory %q: %w", a.Crop, err)
		}
	}
	for _, p := range cat.MarketPrices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO market_prices (crop, market, price, unit, quoted_at, trend, source)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.Crop, p.Market, p.Price, p.Unit, parseDate(p.Date), string(p.Trend), p.Source); err != nil {
			return fmt.Errorf("insert market price %q: %w", p.Market, err)
		}
	}
	for _, sh := range cat.SoilHealth {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO soil_health (region, ph, nitrogen, phosphorus, potassium, organic_matter, recommendations, source)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			sh.Region, sh.PH, sh.Nitrogen, sh.Phosphorus, sh.Potassium, sh.OrganicMatter, pq.Array(sh.Recommendations), sh.Source); err != nil {
			return fmt.Errorf("insert soil health %q: %w", sh.Region, err)
		}
	}
	for _, g := range cat.Schemes {
		var deadline sql.NullString
		if g.Deadline != "" {
			deadline = sql.NullString{String: g.Deadline, Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO government_schemes (name, description, eligibility, benefits, application_process, deadline, source)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			g.Name, g.Description, pq.Array(g.Eligibility), g.Benefits, g.ApplicationProcess, deadline, g.Source); err != nil {
			return fmt.Errorf("insert scheme %q: %w", g.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func parseDate(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Now().UTC()
}
