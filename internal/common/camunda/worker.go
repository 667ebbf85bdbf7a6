// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"agri-advisory-workers/internal/common/config"
	"agri-advisory-workers/internal/common/logger"
)

type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Workers tracks the job workers opened by StartWorker so they can be closed together.
type Workers struct {
	client  zbc.Client
	log     logger.Logger
	running map[string]worker.JobWorker
}

func NewWorkers(client zbc.Client, log logger.Logger) *Workers {
	return &Workers{client: client, log: log, running: map[string]worker.JobWorker{}}
}

// StartWorker opens a job worker for taskType unless it is disabled in wcfg.
func (w *Workers) StartWorker(taskType string, wcfg config.WorkerConfig, handler JobHandler) bool {
	if !wcfg.Enabled {
		w.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	w.running[taskType] = w.client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Name(taskType + "-worker").
		Open()

	w.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

func (w *Workers) Running() []string {
	out := make([]string, 0, len(w.running))
	for taskType := range w.running {
		out = append(out, taskType)
	}
	return out
}

// Close stops every worker and waits for in-flight jobs to finish.
func (w *Workers) Close() {
	for taskType, jw := range w.running {
		w.log.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		jw.Close()
		jw.AwaitClose()
	}
	w.running = map[string]worker.JobWorker{}
}
