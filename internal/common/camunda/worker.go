package camunda

import (
	"time"

	"resume-checker/internal/common/config"
	"resume-checker/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// HandlerFunc is the job callback signature expected by the Zeebe client.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// StartWorker opens a job worker for taskType. It returns nil when the worker
// is disabled in configuration.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler HandlerFunc, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		PollInterval(time.Second).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})

	return jobWorker
}
