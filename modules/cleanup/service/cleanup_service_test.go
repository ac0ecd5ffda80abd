package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"studio-api/core/errors"
	calsvc "studio-api/modules/calendar/service"
	"studio-api/modules/cleanup/dto"
	shootentity "studio-api/modules/shoot/entity"

	"github.com/google/uuid"
)

type fakeShootRepo struct {
	candidates   []shootentity.Shoot
	listErr      error
	files        map[uuid.UUID][]shootentity.ShootFile
	filesErr     error
	deletedFiles []uuid.UUID
	fileErr      error
	statuses     map[uuid.UUID]shootentity.ShootStatus
	statusErr    error
	eventIDs     map[uuid.UUID]*string
}

func newFakeShootRepo() *fakeShootRepo {
	return &fakeShootRepo{
		files:    map[uuid.UUID][]shootentity.ShootFile{},
		statuses: map[uuid.UUID]shootentity.ShootStatus{},
		eventIDs: map[uuid.UUID]*string{},
	}
}

func (f *fakeShootRepo) Create(ctx context.Context, shoot *shootentity.Shoot) (*shootentity.Shoot, error) {
	return shoot, nil
}

func (f *fakeShootRepo) GetByID(ctx context.Context, id uuid.UUID) (*shootentity.Shoot, error) {
	return nil, nil
}

func (f *fakeShootRepo) Update(ctx context.Context, shoot *shootentity.Shoot) error { return nil }

func (f *fakeShootRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status shootentity.ShootStatus) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeShootRepo) GetEventID(ctx context.Context, id uuid.UUID) (*string, error) {
	return f.eventIDs[id], nil
}

func (f *fakeShootRepo) SetEventID(ctx context.Context, id uuid.UUID, eventID *string) error {
	f.eventIDs[id] = eventID
	return nil
}

func (f *fakeShootRepo) ListRetentionCandidates(ctx context.Context, soldBefore time.Time) ([]shootentity.Shoot, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	// Mimic the SQL filter so cutoff behavior is observable through the fake.
	var out []shootentity.Shoot
	for _, s := range f.candidates {
		if s.Status == shootentity.ShootStatusSold && s.SoldAt != nil && s.SoldAt.Before(soldBefore) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeShootRepo) GetType(ctx context.Context, id uuid.UUID) (*shootentity.ShootType, error) {
	return nil, nil
}

func (f *fakeShootRepo) GetProject(ctx context.Context, id uuid.UUID) (*shootentity.Project, error) {
	return nil, nil
}

func (f *fakeShootRepo) GetFiles(ctx context.Context, shootID uuid.UUID) ([]shootentity.ShootFile, error) {
	if f.filesErr != nil {
		return nil, f.filesErr
	}
	return f.files[shootID], nil
}

func (f *fakeShootRepo) CreateFile(ctx context.Context, file *shootentity.ShootFile) (*shootentity.ShootFile, error) {
	return file, nil
}

func (f *fakeShootRepo) GetFile(ctx context.Context, fileID uuid.UUID) (*shootentity.ShootFile, error) {
	return nil, nil
}

func (f *fakeShootRepo) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	if f.fileErr != nil {
		return f.fileErr
	}
	f.deletedFiles = append(f.deletedFiles, fileID)
	return nil
}

type fakeStore struct {
	deleted []string
	err     error
	failKey string
}

func (f *fakeStore) DeleteObject(ctx context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	if f.failKey != "" && key == f.failKey {
		return fmt.Errorf("access denied for %s", key)
	}
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeSync struct {
	deleteErr   *errors.AppError
	deleteCalls int
	deletedIDs  []string
}

func (f *fakeSync) Upsert(ctx context.Context, target *calsvc.SyncTarget, store calsvc.EventIDStore) (string, *errors.AppError) {
	return "", nil
}

func (f *fakeSync) Delete(ctx context.Context, id uuid.UUID, eventID string, store calsvc.EventIDStore) *errors.AppError {
	f.deleteCalls++
	f.deletedIDs = append(f.deletedIDs, eventID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	store.SetEventID(ctx, id, nil)
	return nil
}

func soldShoot(soldDaysAgo int, now time.Time) shootentity.Shoot {
	soldAt := now.AddDate(0, 0, -soldDaysAgo)
	s := shootentity.Shoot{
		ClientID: uuid.New(),
		Status:   shootentity.ShootStatusSold,
		SoldAt:   &soldAt,
	}
	s.ID = uuid.New()
	return s
}

func newTestService(repo *fakeShootRepo, store *fakeStore, s *fakeSync, now time.Time) *cleanupService {
	svc := NewCleanupService(repo, store, s, 14).(*cleanupService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestRunSelectsOnlyShootsPastRetention(t *testing.T) {
	now := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	repo := newFakeShootRepo()
	repo.candidates = []shootentity.Shoot{
		soldShoot(15, now), // past the 14-day window
		soldShoot(10, now), // still inside it
	}

	svc := newTestService(repo, &fakeStore{}, &fakeSync{}, now)
	report, appErr := svc.Run(context.Background())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	if report.ProcessedCount != 1 {
		t.Fatalf("processed = %d, want 1", report.ProcessedCount)
	}
	if report.ArchivedCount != 1 {
		t.Errorf("archived = %d, want 1", report.ArchivedCount)
	}
	wantCutoff := now.AddDate(0, 0, -14)
	if !report.Cutoff.Equal(wantCutoff) {
		t.Errorf("cutoff = %v, want %v", report.Cutoff, wantCutoff)
	}
}

func TestRunArchivesAndReclaimsEverything(t *testing.T) {
	now := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	repo := newFakeShootRepo()
	shoot := soldShoot(20, now)
	eventID := "evt-sold"
	shoot.CalendarEventID = &eventID
	repo.candidates = []shootentity.Shoot{shoot}

	file := shootentity.ShootFile{ShootID: shoot.ID, StorageKey: "shoots/x/raw-1.cr3"}
	file.ID = uuid.New()
	repo.files[shoot.ID] = []shootentity.ShootFile{file}

	store := &fakeStore{}
	syncSvc := &fakeSync{}
	svc := newTestService(repo, store, syncSvc, now)

	report, appErr := svc.Run(context.Background())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	if len(store.deleted) != 1 || store.deleted[0] != "shoots/x/raw-1.cr3" {
		t.Errorf("deleted objects = %v", store.deleted)
	}
	if len(repo.deletedFiles) != 1 {
		t.Errorf("deleted file rows = %d, want 1", len(repo.deletedFiles))
	}
	if syncSvc.deleteCalls != 1 || syncSvc.deletedIDs[0] != "evt-sold" {
		t.Errorf("calendar deletes = %d (%v)", syncSvc.deleteCalls, syncSvc.deletedIDs)
	}
	if repo.statuses[shoot.ID] != shootentity.ShootStatusArchived {
		t.Errorf("status = %q, want archived", repo.statuses[shoot.ID])
	}

	cand := report.Candidates[0]
	if !cand.Archived {
		t.Error("candidate not marked archived in report")
	}
	wantSteps := []string{"files", "calendar", "archive"}
	if len(cand.Steps) != len(wantSteps) {
		t.Fatalf("steps = %v", cand.Steps)
	}
	for i, step := range cand.Steps {
		if step.Step != wantSteps[i] || step.Status != dto.StepOK {
			t.Errorf("step %d = %+v", i, step)
		}
	}
}

func TestRunSkipsStepsWithNothingToDo(t *testing.T) {
	now := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	repo := newFakeShootRepo()
	repo.candidates = []shootentity.Shoot{soldShoot(20, now)} // no files, no event

	svc := newTestService(repo, &fakeStore{}, &fakeSync{}, now)
	report, appErr := svc.Run(context.Background())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	cand := report.Candidates[0]
	if !cand.Archived {
		t.Fatal("candidate with nothing to reclaim must still be archived")
	}
	if cand.Steps[0].Status != dto.StepSkipped || cand.Steps[1].Status != dto.StepSkipped {
		t.Errorf("steps = %+v", cand.Steps)
	}
}

func TestRunFileFailuresDoNotBlockCandidate(t *testing.T) {
	now := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	repo := newFakeShootRepo()

	shoot := soldShoot(20, now)
	eventID := "evt-kept"
	shoot.CalendarEventID = &eventID
	file := shootentity.ShootFile{ShootID: shoot.ID, StorageKey: "shoots/bad/raw.cr3"}
	file.ID = uuid.New()
	repo.files[shoot.ID] = []shootentity.ShootFile{file}

	other := soldShoot(21, now)
	repo.candidates = []shootentity.Shoot{shoot, other}

	store := &fakeStore{failKey: "shoots/bad/raw.cr3"}
	syncSvc := &fakeSync{}
	svc := newTestService(repo, store, syncSvc, now)

	report, appErr := svc.Run(context.Background())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	if report.ProcessedCount != 2 {
		t.Fatalf("processed = %d, want 2", report.ProcessedCount)
	}
	// File failures are logged and reported, never fatal: the candidate
	// still loses its calendar event and archives.
	if report.ArchivedCount != 2 {
		t.Errorf("archived = %d, want 2", report.ArchivedCount)
	}
	if syncSvc.deleteCalls != 1 || syncSvc.deletedIDs[0] != "evt-kept" {
		t.Errorf("calendar deletes = %d (%v), want 1 (evt-kept)", syncSvc.deleteCalls, syncSvc.deletedIDs)
	}
	if repo.statuses[shoot.ID] != shootentity.ShootStatusArchived {
		t.Errorf("status = %q, want archived", repo.statuses[shoot.ID])
	}
	if repo.statuses[other.ID] != shootentity.ShootStatusArchived {
		t.Error("other candidate should be unaffected")
	}

	var cand *dto.CandidateReport
	for i := range report.Candidates {
		if report.Candidates[i].ShootID == shoot.ID.String() {
			cand = &report.Candidates[i]
		}
	}
	if cand == nil || len(cand.Steps) != 3 {
		t.Fatalf("candidate report = %+v", cand)
	}
	if cand.Steps[0].Status != dto.StepFailed || cand.Steps[0].Detail != "1 of 1 files failed" {
		t.Errorf("files step = %+v", cand.Steps[0])
	}
	if cand.Steps[1].Status != dto.StepOK || cand.Steps[2].Status != dto.StepOK {
		t.Errorf("steps = %+v", cand.Steps)
	}
}

func TestRunFileListFailureBlocksArchive(t *testing.T) {
	now := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	repo := newFakeShootRepo()
	repo.candidates = []shootentity.Shoot{soldShoot(20, now)}
	repo.filesErr = fmt.Errorf("db gone")

	svc := newTestService(repo, &fakeStore{}, &fakeSync{}, now)
	report, appErr := svc.Run(context.Background())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if report.ArchivedCount != 0 {
		t.Errorf("archived = %d, want 0", report.ArchivedCount)
	}
	cand := report.Candidates[0]
	if len(cand.Steps) != 1 || cand.Steps[0].Status != dto.StepFailed {
		t.Errorf("steps = %+v", cand.Steps)
	}
}

func TestRunCalendarFailureBlocksArchive(t *testing.T) {
	now := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	repo := newFakeShootRepo()
	shoot := soldShoot(20, now)
	eventID := "evt-stuck"
	shoot.CalendarEventID = &eventID

	// The second candidate has no event, so the global delete error never
	// touches it.
	healthy := soldShoot(21, now)
	repo.candidates = []shootentity.Shoot{shoot, healthy}

	syncSvc := &fakeSync{deleteErr: errors.NewServiceError("calendar down", 503, nil)}
	svc := newTestService(repo, &fakeStore{}, syncSvc, now)

	report, appErr := svc.Run(context.Background())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if report.ArchivedCount != 1 {
		t.Errorf("archived = %d, want 1", report.ArchivedCount)
	}
	if _, archived := repo.statuses[shoot.ID]; archived {
		t.Error("candidate must not be archived when the calendar step fails")
	}
	if repo.statuses[healthy.ID] != shootentity.ShootStatusArchived {
		t.Error("healthy candidate should be archived despite the earlier failure")
	}
}

func TestRunRejectsConcurrentRuns(t *testing.T) {
	now := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeShootRepo(), &fakeStore{}, &fakeSync{}, now)

	svc.mu.Lock()
	svc.running = true
	svc.mu.Unlock()

	_, appErr := svc.Run(context.Background())
	if appErr == nil || appErr.Code != errors.ErrConflict {
		t.Fatalf("expected conflict error, got %v", appErr)
	}
}
