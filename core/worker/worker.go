package worker

import (
	"studio-api/core/config"
	"studio-api/core/logger"
	cleanupsvc "studio-api/modules/cleanup/service"
	"studio-api/modules/cleanup/task"

	"github.com/hibiken/asynq"
)

// Worker runs the background side of the process: an asynq server that
// processes queued tasks and a scheduler that enqueues the nightly
// retention sweep on its cron spec.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

func New(redisCfg config.RedisConfig, cleanupCfg config.CleanupConfig, cleanup cleanupsvc.CleanupService) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
	})

	mux := asynq.NewServeMux()
	mux.Handle(task.TypeCleanupRun, task.NewCleanupTaskHandler(cleanup))

	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register(cleanupCfg.CronSpec, task.NewCleanupRunTask()); err != nil {
		logger.Error("Worker:New:RegisterCleanupFailed", "cron", cleanupCfg.CronSpec, "error", err)
	} else {
		logger.Info("Worker:New:CleanupScheduled", "cron", cleanupCfg.CronSpec)
	}

	return &Worker{server: server, scheduler: scheduler, mux: mux}
}

func (w *Worker) Run() error {
	if err := w.scheduler.Start(); err != nil {
		return err
	}
	return w.server.Run(w.mux)
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}
