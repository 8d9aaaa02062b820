package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultRerankSchedule re-ranks daily at 2 AM, since urgency decays by the day
const DefaultRerankSchedule = "0 2 * * *"

// DefaultJobTimeout bounds a single scheduled run
const DefaultJobTimeout = 5 * time.Minute

// CronManager runs scheduled portfolio jobs
type CronManager struct {
	cron    *cron.Cron
	logger  *zap.Logger
	timeout time.Duration
}

// NewCronManager creates a cron manager; jobs are added with AddJob
func NewCronManager(logger *zap.Logger) *CronManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CronManager{
		cron:    cron.New(),
		logger:  logger,
		timeout: DefaultJobTimeout,
	}
}

// AddJob schedules fn on a standard five-field cron spec. An empty spec
// disables the job.
func (cm *CronManager) AddJob(name, spec string, fn func(ctx context.Context) error) error {
	if spec == "" {
		cm.logger.Info("scheduled job disabled", zap.String("job", name))
		return nil
	}

	_, err := cm.cron.AddFunc(spec, func() {
		cm.Run(name, fn)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	cm.logger.Info("scheduled job configured", zap.String("job", name), zap.String("schedule", spec))
	return nil
}

// Run executes one job immediately with the job timeout
func (cm *CronManager) Run(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), cm.timeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		cm.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
		return
	}
	cm.logger.Info("scheduled job completed", zap.String("job", name), zap.Duration("took", time.Since(start)))
}

// Entries returns the number of scheduled jobs
func (cm *CronManager) Entries() int {
	return len(cm.cron.Entries())
}

// Start starts the cron scheduler
func (cm *CronManager) Start() {
	cm.cron.Start()
}

// Stop stops the scheduler and waits for running jobs
func (cm *CronManager) Stop() {
	<-cm.cron.Stop().Done()
}
