// internal/workers/advisory/aggregate-farm-data/models.go
package aggregatefarmdata

import "agri-advisory-workers/internal/models"

type Input struct {
	QueryContext *models.QueryContext `json:"queryContext"`
}

type Output struct {
	DatasetInfo models.AggregatedResponse `json:"datasetInfo"`
	RequestID   string                    `json:"requestId"`
}
