package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/core/storage"
	calsvc "studio-api/modules/calendar/service"
	"studio-api/modules/cleanup/dto"
	shootentity "studio-api/modules/shoot/entity"
	shootrepo "studio-api/modules/shoot/repository"
)

// CleanupService archives sold shoots past the retention window. For each
// candidate it reclaims stored files, removes the calendar mirror, then
// flips the status to archived. Individual file failures are logged and
// reported but do not block the candidate; a failed calendar or archive
// step leaves it unarchived so the next run picks it up again. Every step
// is safe to repeat.
type CleanupService interface {
	Run(ctx context.Context) (*dto.CleanupReport, *errors.AppError)
}

type cleanupService struct {
	repo          shootrepo.ShootRepository
	store         storage.ObjectStore
	sync          calsvc.SyncService
	retentionDays int

	mu      sync.Mutex
	running bool

	now func() time.Time
}

func NewCleanupService(repo shootrepo.ShootRepository, store storage.ObjectStore, calSync calsvc.SyncService, retentionDays int) CleanupService {
	return &cleanupService{
		repo:          repo,
		store:         store,
		sync:          calSync,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

func (s *cleanupService) Run(ctx context.Context) (*dto.CleanupReport, *errors.AppError) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, errors.NewAppError(errors.ErrConflict, "cleanup run already in progress", nil)
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	cutoff := s.now().UTC().AddDate(0, 0, -s.retentionDays)
	logger.Info("CleanupService:Run:Start", "cutoff", cutoff, "retention_days", s.retentionDays)

	candidates, err := s.repo.ListRetentionCandidates(ctx, cutoff)
	if err != nil {
		logger.Error("CleanupService:Run:ListFailed", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list retention candidates", err)
	}

	report := &dto.CleanupReport{
		Cutoff:         cutoff,
		ProcessedCount: len(candidates),
		Candidates:     make([]dto.CandidateReport, 0, len(candidates)),
	}

	for i := range candidates {
		shoot := &candidates[i]
		cr := s.processCandidate(ctx, shoot)
		if cr.Archived {
			report.ArchivedCount++
		}
		report.Candidates = append(report.Candidates, cr)
	}

	logger.Info("CleanupService:Run:Done", "processed", report.ProcessedCount, "archived", report.ArchivedCount)
	return report, nil
}

// processCandidate walks one shoot through the cleanup chain. File
// failures are carried in the report but do not stop the chain; a failed
// calendar step does, so the mirror is never left dangling behind an
// archived record. A rerun repeats the whole chain, which is harmless
// because each step tolerates already-done work.
func (s *cleanupService) processCandidate(ctx context.Context, shoot *shootentity.Shoot) dto.CandidateReport {
	cr := dto.CandidateReport{
		ShootID: shoot.ID.String(),
		SoldAt:  shoot.SoldAt,
	}

	// An unreadable file list blocks the candidate: archiving without it
	// would orphan every stored object. Failures deleting individual files
	// are reported but do not block.
	files, err := s.repo.GetFiles(ctx, shoot.ID)
	if err != nil {
		logger.Error("CleanupService:Files:ListFailed", "shoot_id", shoot.ID, "error", err)
		cr.Steps = append(cr.Steps, dto.StepResult{Step: "files", Status: dto.StepFailed, Detail: err.Error()})
		return cr
	}
	cr.Steps = append(cr.Steps, s.reclaimFiles(ctx, shoot, files))

	step := s.removeCalendarEvent(ctx, shoot)
	cr.Steps = append(cr.Steps, step)
	if step.Status == dto.StepFailed {
		return cr
	}

	if err := s.repo.UpdateStatus(ctx, shoot.ID, shootentity.ShootStatusArchived); err != nil {
		logger.Error("CleanupService:Archive:Failed", "shoot_id", shoot.ID, "error", err)
		cr.Steps = append(cr.Steps, dto.StepResult{Step: "archive", Status: dto.StepFailed, Detail: err.Error()})
		return cr
	}
	cr.Steps = append(cr.Steps, dto.StepResult{Step: "archive", Status: dto.StepOK})
	cr.Archived = true
	return cr
}

func (s *cleanupService) reclaimFiles(ctx context.Context, shoot *shootentity.Shoot, files []shootentity.ShootFile) dto.StepResult {
	if len(files) == 0 {
		return dto.StepResult{Step: "files", Status: dto.StepSkipped, Detail: "no files"}
	}

	var failed int
	for _, f := range files {
		if err := s.store.DeleteObject(ctx, f.StorageKey); err != nil {
			logger.Error("CleanupService:Files:ObjectDeleteFailed", "shoot_id", shoot.ID, "key", f.StorageKey, "error", err)
			failed++
			continue
		}
		if err := s.repo.DeleteFile(ctx, f.ID); err != nil {
			// The object is gone but the row remains. A later file delete
			// re-issues an idempotent object delete and clears the row.
			logger.Error("CleanupService:Files:RowDeleteFailed", "shoot_id", shoot.ID, "file_id", f.ID, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return dto.StepResult{
			Step:   "files",
			Status: dto.StepFailed,
			Detail: fmt.Sprintf("%d of %d files failed", failed, len(files)),
		}
	}
	return dto.StepResult{Step: "files", Status: dto.StepOK, Detail: fmt.Sprintf("%d files reclaimed", len(files))}
}

func (s *cleanupService) removeCalendarEvent(ctx context.Context, shoot *shootentity.Shoot) dto.StepResult {
	if shoot.CalendarEventID == nil || *shoot.CalendarEventID == "" {
		return dto.StepResult{Step: "calendar", Status: dto.StepSkipped, Detail: "no calendar event"}
	}
	if appErr := s.sync.Delete(ctx, shoot.ID, *shoot.CalendarEventID, s.repo); appErr != nil {
		logger.Error("CleanupService:Calendar:DeleteFailed", "shoot_id", shoot.ID, "event_id", *shoot.CalendarEventID, "error", appErr)
		return dto.StepResult{Step: "calendar", Status: dto.StepFailed, Detail: appErr.Message}
	}
	return dto.StepResult{Step: "calendar", Status: dto.StepOK}
}
