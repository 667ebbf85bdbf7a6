// internal/workers/advisory/classify-farm-query/models.go
package classifyfarmquery

import "agri-advisory-workers/internal/models"

type Input struct {
	QueryText string `json:"queryText"`
	Language  string `json:"language,omitempty"`
}

// Output is merged into the process variables; queryContext feeds
// aggregate-farm-data and language is passed through for later steps.
type Output struct {
	QueryContext models.QueryContext `json:"queryContext"`
	Language     string              `json:"language"`
}
