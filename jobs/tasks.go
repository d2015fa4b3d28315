package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup pre-populates the season comparison caches.
	TaskReportWarmup = "report:warmup"
)

// ReportWarmupPayload scopes a warmup run. Empty fields fall back to the
// current season and both dashboard locales.
type ReportWarmupPayload struct {
	Seasons []int    `json:"seasons"`
	Locales []string `json:"locales"`
}

// NewReportWarmupTask constructs an Asynq task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}
