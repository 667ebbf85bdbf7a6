// internal/workers/advisory/aggregate-farm-data/handler.go
package aggregatefarmdata

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "agri-advisory-workers/internal/common/errors"
	"agri-advisory-workers/internal/common/logger"
	"agri-advisory-workers/internal/common/metrics"
	"agri-advisory-workers/internal/common/observability"
	"agri-advisory-workers/internal/common/validation"
	"agri-advisory-workers/internal/models"
)

const TaskType = "aggregate-farm-data"

// Aggregator is satisfied by *aggregator.Aggregator.
type Aggregator interface {
	Aggregate(ctx context.Context, qc models.QueryContext) models.AggregatedResponse
}

type AggregatorFunc func(ctx context.Context, qc models.QueryContext) models.AggregatedResponse

func (f AggregatorFunc) Aggregate(ctx context.Context, qc models.QueryContext) models.AggregatedResponse {
	return f(ctx, qc)
}

type Dependencies struct {
	Aggregator Aggregator
	// Redis enables the response cache when Config.CacheTTL > 0.
	Redis         *redis.Client
	Validator     *validation.Validator
	Observability *observability.Observability
}

type Handler struct {
	config       *Config
	agg          Aggregator
	redis        *redis.Client
	validator    *validation.Validator
	obs          *observability.Observability
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
	newID        func() string
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		agg:          deps.Aggregator,
		redis:        deps.Redis,
		validator:    deps.Validator,
		obs:          deps.Observability,
		logger:       l,
		errorHandler: apperrors.NewErrorHandler(l),
		newID:        uuid.NewString,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)

	ctx, span := h.obs.Tracer().Start(context.Background(), TaskType)
	defer span.End()
	span.SetAttributes(attribute.Int64("job.key", job.Key))

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	fail := func(err error) {
		span.SetStatus(codes.Error, err.Error())
		bpmnErr := h.errorHandler.HandleJobError(ctx, client, job, err)
		h.record(ctx, timer, bpmnErr.Code)
	}

	qc, err := h.parseInput(job.Variables)
	if err != nil {
		fail(err)
		return
	}
	span.SetAttributes(attribute.String("query.type", string(qc.QueryType)))

	output, err := h.Execute(ctx, qc)
	if err != nil {
		fail(err)
		return
	}
	span.SetAttributes(attribute.StringSlice("advisory.sources", output.DatasetInfo.Sources))

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		h.record(ctx, timer, string(apperrors.ErrCodeInternal))
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		h.record(ctx, timer, string(apperrors.ErrCodeBrokerUnavailable))
		return
	}

	h.logger.Info("farm data aggregated", map[string]interface{}{
		"jobKey":    job.Key,
		"requestId": output.RequestID,
		"sources":   len(output.DatasetInfo.Sources),
	})
	h.record(ctx, timer, "")
}

// Execute aggregates the provider datasets for qc, consulting the cache first
// when it is enabled. Provider failures never surface here; only a deadline
// hit on the whole aggregation does.
func (h *Handler) Execute(ctx context.Context, qc models.QueryContext) (*Output, error) {
	out := &Output{RequestID: h.newID()}

	key := h.cacheKey(qc)
	if resp, ok := h.cacheGet(ctx, key); ok {
		out.DatasetInfo = resp
		return out, nil
	}

	actx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	resp := h.agg.Aggregate(actx, qc)
	if errors.Is(actx.Err(), context.DeadlineExceeded) {
		return nil, apperrors.NewAggregationTimeoutError(h.config.Timeout)
	}

	// Degraded responses are not cached so a recovered provider is seen on
	// the next job.
	if len(resp.Sources) > 0 {
		h.cacheSet(ctx, key, resp)
	}

	out.DatasetInfo = resp
	return out, nil
}

func (h *Handler) parseInput(variables string) (models.QueryContext, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &doc); err != nil {
		return models.QueryContext{}, apperrors.NewInputParseFailedError(err)
	}

	if h.validator != nil {
		if res := h.validator.Validate(TaskType, doc); !res.Valid {
			return models.QueryContext{}, apperrors.NewInvalidInputError(res.Summary())
		}
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return models.QueryContext{}, apperrors.NewInvalidQueryContextError(err.Error())
	}
	if input.QueryContext == nil {
		return models.QueryContext{}, apperrors.NewInvalidInputError("queryContext is required")
	}

	qc := *input.QueryContext
	if !qc.QueryType.Valid() {
		return models.QueryContext{}, apperrors.NewInvalidQueryContextError(
			fmt.Sprintf("unknown queryType %q", qc.QueryType))
	}
	if qc.Location != nil && qc.Location.District == "" && qc.Location.State == "" {
		qc.Location = nil
	}
	return qc, nil
}

func (h *Handler) cacheEnabled() bool {
	return h.redis != nil && h.config.CacheTTL > 0
}

// cacheKey hashes the encoded context; struct field order keeps the encoding
// stable.
func (h *Handler) cacheKey(qc models.QueryContext) string {
	raw, _ := json.Marshal(qc)
	sum := sha256.Sum256(raw)
	return h.config.CacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (h *Handler) cacheGet(ctx context.Context, key string) (models.AggregatedResponse, bool) {
	if !h.cacheEnabled() {
		return models.AggregatedResponse{}, false
	}

	val, err := h.redis.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return models.AggregatedResponse{}, false
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
		return models.AggregatedResponse{}, false
	}

	var resp models.AggregatedResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("cached response is corrupt", map[string]interface{}{"key": key, "error": err})
		return models.AggregatedResponse{}, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return resp, true
}

func (h *Handler) cacheSet(ctx context.Context, key string, resp models.AggregatedResponse) {
	if !h.cacheEnabled() {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

func (h *Handler) record(ctx context.Context, timer metrics.JobTimer, errorCode string) {
	elapsed := timer.Done(errorCode)
	status := "completed"
	if errorCode != "" {
		status = "failed"
	}
	h.obs.RecordJobProcessed(ctx, TaskType, status)
	h.obs.RecordJobDuration(ctx, TaskType, elapsed, status)
}
