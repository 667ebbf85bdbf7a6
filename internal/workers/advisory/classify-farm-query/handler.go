// internal/workers/advisory/classify-farm-query/handler.go
package classifyfarmquery

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"agri-advisory-workers/internal/advisory/classifier"
	apperrors "agri-advisory-workers/internal/common/errors"
	"agri-advisory-workers/internal/common/logger"
	"agri-advisory-workers/internal/common/metrics"
	"agri-advisory-workers/internal/common/observability"
	"agri-advisory-workers/internal/common/validation"
)

const TaskType = "classify-farm-query"

type Handler struct {
	config       *Config
	validator    *validation.Validator
	obs          *observability.Observability
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewHandler builds the worker. validator and obs may be nil.
func NewHandler(config *Config, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		validator:    validator,
		obs:          obs,
		logger:       l,
		errorHandler: apperrors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.obs.Tracer().Start(ctx, TaskType)
	defer span.End()
	span.SetAttributes(attribute.Int64("job.key", job.Key))

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := h.parseInput(job.Variables)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		bpmnErr := h.errorHandler.HandleJobError(ctx, client, job, err)
		h.record(ctx, timer, bpmnErr.Code)
		return
	}

	output := h.Execute(input)
	span.SetAttributes(attribute.String("query.type", string(output.QueryContext.QueryType)))

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

	h.logger.Info("query classified", map[string]interface{}{
		"jobKey":    job.Key,
		"queryType": string(output.QueryContext.QueryType),
		"crop":      output.QueryContext.Crop,
		"location":  output.QueryContext.Location,
	})
	h.record(ctx, timer, "")
}

// Execute classifies the query text. It cannot fail once the input is parsed.
func (h *Handler) Execute(input *Input) *Output {
	lang := input.Language
	if lang == "" {
		lang = h.config.DefaultLanguage
	}
	return &Output{
		QueryContext: classifier.Classify(input.QueryText),
		Language:     lang,
	}
}

func (h *Handler) parseInput(variables string) (*Input, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &doc); err != nil {
		return nil, apperrors.NewInputParseFailedError(err)
	}

	if h.validator != nil {
		if res := h.validator.Validate(TaskType, doc); !res.Valid {
			return nil, apperrors.NewInvalidInputError(res.Summary())
		}
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	if strings.TrimSpace(input.QueryText) == "" {
		return nil, apperrors.NewInvalidInputError("queryText is required")
	}
	return &input, nil
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
