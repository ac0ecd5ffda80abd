package task

import (
	"context"

	"studio-api/core/errors"
	"studio-api/core/logger"
	cleanupsvc "studio-api/modules/cleanup/service"

	"github.com/hibiken/asynq"
)

const TypeCleanupRun = "cleanup:run"

func NewCleanupRunTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupRun, nil)
}

type CleanupTaskHandler struct {
	service cleanupsvc.CleanupService
}

func NewCleanupTaskHandler(service cleanupsvc.CleanupService) *CleanupTaskHandler {
	return &CleanupTaskHandler{service: service}
}

// ProcessTask runs the retention sweep from the scheduler. A run already in
// progress is not an error worth retrying; asynq would otherwise redeliver
// and pile concurrent sweeps onto the same candidates.
func (h *CleanupTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	report, appErr := h.service.Run(ctx)
	if appErr != nil {
		if appErr.Code == errors.ErrConflict {
			logger.Warn("CleanupTaskHandler:ProcessTask:AlreadyRunning")
			return nil
		}
		logger.Error("CleanupTaskHandler:ProcessTask:Failed", "error", appErr)
		return appErr
	}
	logger.Info("CleanupTaskHandler:ProcessTask:Done", "processed", report.ProcessedCount, "archived", report.ArchivedCount)
	return nil
}
