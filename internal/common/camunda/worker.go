// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/common/metrics"
)

// JobHandler processes one activated job and completes, fails or throws on it.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// JobRecorder receives per-job telemetry. It may be nil.
type JobRecorder interface {
	RecordJobProcessed(ctx context.Context, taskType, status string)
	RecordJobDuration(ctx context.Context, taskType string, duration time.Duration)
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType. Durations are recorded per task type.
func NewWorker(
	client zbc.Client,
	taskType string,
	maxJobsActive int,
	timeout time.Duration,
	handler JobHandler,
	recorder JobRecorder,
	log logger.Logger,
) *CamundaWorker {
	log = log.WithFields(map[string]interface{}{"taskType": taskType})

	builder := client.NewJobWorker().
		JobType(taskType).
		Handler(func(client worker.JobClient, job entities.Job) {
			start := time.Now()
			handler.Handle(client, job)
			elapsed := time.Since(start)
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			if recorder != nil {
				recorder.RecordJobProcessed(context.Background(), taskType, "handled")
				recorder.RecordJobDuration(context.Background(), taskType, elapsed)
			}
		}).
		MaxJobsActive(maxJobsActive)
	if timeout > 0 {
		builder = builder.Timeout(timeout)
	}

	w := &CamundaWorker{
		worker:   builder.Open(),
		logger:   log,
		taskType: taskType,
	}
	log.Info("worker started", nil)
	return w
}

// Stop closes the job stream; the shared zeebe client is closed by its owner.
func (w *CamundaWorker) Stop(ctx context.Context) {
	w.logger.Info("stopping worker", nil)
	done := make(chan struct{})
	go func() {
		w.worker.Close()
		w.worker.AwaitClose()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("worker did not stop before deadline", nil)
	}
}
