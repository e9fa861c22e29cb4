package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"pawpack/config"
	"pawpack/models"
)

const TypeFormationRun = "formation:run"

// PassRunner is the part of the formation service the worker drives.
type PassRunner interface {
	RunPass(ctx context.Context, now time.Time) (*models.FormationReport, error)
}

// FormationPayload optionally pins the pass clock; empty means "now".
type FormationPayload struct {
	Now string `json:"now,omitempty"` // RFC3339
}

// NewFormationTask builds a formation task, pinned to at when it is non-zero.
func NewFormationTask(at time.Time) (*asynq.Task, error) {
	var p FormationPayload
	if !at.IsZero() {
		p.Now = at.UTC().Format(time.RFC3339)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeFormationRun, data, asynq.MaxRetry(1), asynq.Unique(time.Minute)), nil
}

// InitFormationWorker starts the asynq worker and the scheduler that enqueues
// a formation pass on FORMATION_CRON. Both run in the background.
func InitFormationWorker(runner PassRunner, logger *zap.Logger) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			// One pass at a time; regions already run in parallel inside it.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeFormationRun, HandleFormationTask(runner, logger))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.UTC})
	task, err := NewFormationTask(time.Time{})
	if err != nil {
		logger.Fatal("failed to build formation task", zap.Error(err))
	}
	entryID, err := scheduler.Register(config.AppConfig.FormationCron, task)
	if err != nil {
		logger.Fatal("failed to register formation schedule",
			zap.String("cron", config.AppConfig.FormationCron), zap.Error(err))
	}
	logger.Info("formation pass scheduled", zap.String("cron", config.AppConfig.FormationCron), zap.String("entryId", entryID))

	go runWithRetry("FormationWorker", logger, func() error { return srv.Run(mux) })
	go runWithRetry("FormationScheduler", logger, scheduler.Run)
}

func runWithRetry(name string, logger *zap.Logger, run func() error) {
	const maxAttempts = 5

	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err := run()
		if err == nil {
			return
		}
		logger.Error("background component failed to start",
			zap.String("component", name),
			zap.Int("attempt", attempts),
			zap.Error(err),
		)
		if attempts == maxAttempts {
			logger.Fatal("max retry attempts reached", zap.String("component", name))
		}
		time.Sleep(time.Duration(attempts*2) * time.Second)
	}
}

// HandleFormationTask runs one pass per task. A malformed payload is not
// retried.
func HandleFormationTask(runner PassRunner, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p FormationPayload
		if len(task.Payload()) > 0 {
			if err := json.Unmarshal(task.Payload(), &p); err != nil {
				logger.Error("invalid formation payload", zap.Error(err))
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
		}

		now := time.Now().UTC()
		if p.Now != "" {
			t, err := time.Parse(time.RFC3339, p.Now)
			if err != nil {
				logger.Error("invalid formation clock", zap.String("now", p.Now), zap.Error(err))
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			now = t
		}

		report, err := runner.RunPass(ctx, now)
		if err != nil {
			logger.Error("formation pass failed", zap.Error(err))
			return err
		}
		logger.Info("scheduled formation pass done",
			zap.String("passId", report.PassID),
			zap.Int("suggestions", len(report.Suggestions)),
		)
		return nil
	}
}
