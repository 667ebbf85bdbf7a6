package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-advisory-workers/internal/demo"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassify(t *testing.T) {
	out, err := run(t, "classify", "When", "should", "I", "sow", "wheat", "in", "Ludhiana?")
	require.NoError(t, err)
	assert.Contains(t, out, "type:     crop")
	assert.Contains(t, out, "location: Ludhiana, Punjab")
	assert.Contains(t, out, "crop:     wheat")

	out, err = run(t, "--json", "classify", "hello")
	require.NoError(t, err)
	assert.JSONEq(t, `{"queryType":"general"}`, out)

	_, err = run(t, "classify")
	assert.Error(t, err)
}

func TestAggregate(t *testing.T) {
	out, err := run(t, "--json", "aggregate", "--context", `{"queryType":"soil","location":{"district":"Allahabad","state":"Uttar Pradesh"}}`)
	require.NoError(t, err)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []interface{}{"Soil Health Card Scheme"}, resp["sources"])
	assert.Len(t, resp["soilHealth"], 1)

	out, err = run(t, "aggregate", "market", "price", "of", "rice", "in", "Allahabad")
	require.NoError(t, err)
	assert.Contains(t, out, "marketPrices    1")
	assert.Contains(t, out, "source: eNAM - National Agriculture Market")

	_, err = run(t, "aggregate", "--context", `{"queryType":"forecast"}`)
	assert.EqualError(t, err, `--context: unknown queryType "forecast"`)

	_, err = run(t, "aggregate")
	assert.Error(t, err)

	_, err = run(t, "--catalog", "csv", "aggregate", "rain")
	assert.Error(t, err)
}

func TestDemo(t *testing.T) {
	out, err := run(t, "demo", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "bengali-fertilizer")

	out, err = run(t, "--json", "demo")
	require.NoError(t, err)
	var report demo.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 8, report.TotalScenarios)
	assert.Equal(t, 100.0, report.DataIntegrationRate)

	out, err = run(t, "demo", "-s", "government-schemes")
	require.NoError(t, err)
	assert.Contains(t, out, "used:     Ministry of Agriculture & Farmers Welfare")
	assert.Contains(t, out, "total scenarios:       1")

	_, err = run(t, "demo", "-s", "missing")
	assert.EqualError(t, err, `unknown scenario "missing"`)
}

func TestCatalogShow(t *testing.T) {
	out, err := run(t, "catalog", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog (static)")
	assert.Contains(t, out, "soilHealth      1")
}

func TestCatalogSeed_RequiresConfig(t *testing.T) {
	_, err := run(t, "catalog", "seed", "--target", "postgres")
	assert.EqualError(t, err, "--config is required to seed postgres")
}

func TestRegistryValidate(t *testing.T) {
	out, err := run(t, "registry", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "2 activities")
	assert.Contains(t, out, "aggregate-farm-data")

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"x","activities":[{"id":"a","taskType":"a"},{"id":"b","taskType":"a"}]}`), 0o600))
	out, err = run(t, "registry", "validate", "-f", path)
	assert.Error(t, err)
	assert.Contains(t, out, `duplicate taskType "a"`)
}

func TestSubmit_RequiresConfig(t *testing.T) {
	_, err := run(t, "submit", "rain", "in", "Pune")
	assert.EqualError(t, err, "--config is required to reach the broker")
}
