package worker

import (
	"context"

	"github.com/robfig/cron/v3"
)

// Worker a long running worker
type Worker interface {
	Run(ctx context.Context) error
}

// OnWork job work func
type OnWork func() error

// BaseJob cron driven job
type BaseJob struct {
	Cron      *cron.Cron
	IsRunning bool
	OnWork    OnWork
}

// Start start the cron
func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

// Stop stop the cron
func (job *BaseJob) Stop() error {
	job.Cron.Stop()
	return nil
}

// Run run once, skipping overlapped fires
func (job *BaseJob) Run() {
	if job.IsRunning {
		return
	}

	job.IsRunning = true

	job.OnWork()

	job.IsRunning = false
}
