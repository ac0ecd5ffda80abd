package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	coreentity "studio-api/core/entity"
	"studio-api/core/errors"
	caldto "studio-api/modules/calendar/dto"
	calsvc "studio-api/modules/calendar/service"
	cliententity "studio-api/modules/client/entity"
	"studio-api/modules/shoot/dto"
	"studio-api/modules/shoot/entity"

	"github.com/google/uuid"
)

type fakeShootRepo struct {
	shoots       map[uuid.UUID]*entity.Shoot
	types        map[uuid.UUID]*entity.ShootType
	projects     map[uuid.UUID]*entity.Project
	createErr    error
	statuses     map[uuid.UUID]entity.ShootStatus
	filesByShoot map[uuid.UUID][]entity.ShootFile
	deletedFiles []uuid.UUID
}

func newFakeShootRepo() *fakeShootRepo {
	return &fakeShootRepo{
		shoots:       map[uuid.UUID]*entity.Shoot{},
		types:        map[uuid.UUID]*entity.ShootType{},
		projects:     map[uuid.UUID]*entity.Project{},
		statuses:     map[uuid.UUID]entity.ShootStatus{},
		filesByShoot: map[uuid.UUID][]entity.ShootFile{},
	}
}

func (f *fakeShootRepo) Create(ctx context.Context, shoot *entity.Shoot) (*entity.Shoot, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	shoot.ID = uuid.New()
	f.shoots[shoot.ID] = shoot
	return shoot, nil
}

func (f *fakeShootRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shoot, error) {
	return f.shoots[id], nil
}

func (f *fakeShootRepo) Update(ctx context.Context, shoot *entity.Shoot) error {
	f.shoots[shoot.ID] = shoot
	return nil
}

func (f *fakeShootRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ShootStatus) error {
	f.statuses[id] = status
	if s, ok := f.shoots[id]; ok {
		s.Status = status
	}
	return nil
}

func (f *fakeShootRepo) GetEventID(ctx context.Context, id uuid.UUID) (*string, error) {
	if s, ok := f.shoots[id]; ok {
		return s.CalendarEventID, nil
	}
	return nil, nil
}

func (f *fakeShootRepo) SetEventID(ctx context.Context, id uuid.UUID, eventID *string) error {
	if s, ok := f.shoots[id]; ok {
		s.CalendarEventID = eventID
	}
	return nil
}

func (f *fakeShootRepo) ListRetentionCandidates(ctx context.Context, soldBefore time.Time) ([]entity.Shoot, error) {
	return nil, nil
}

func (f *fakeShootRepo) GetType(ctx context.Context, id uuid.UUID) (*entity.ShootType, error) {
	return f.types[id], nil
}

func (f *fakeShootRepo) GetProject(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	return f.projects[id], nil
}

func (f *fakeShootRepo) GetFiles(ctx context.Context, shootID uuid.UUID) ([]entity.ShootFile, error) {
	return f.filesByShoot[shootID], nil
}

func (f *fakeShootRepo) CreateFile(ctx context.Context, file *entity.ShootFile) (*entity.ShootFile, error) {
	file.ID = uuid.New()
	f.filesByShoot[file.ShootID] = append(f.filesByShoot[file.ShootID], *file)
	return file, nil
}

func (f *fakeShootRepo) GetFile(ctx context.Context, fileID uuid.UUID) (*entity.ShootFile, error) {
	for _, files := range f.filesByShoot {
		for i := range files {
			if files[i].ID == fileID {
				return &files[i], nil
			}
		}
	}
	return nil, nil
}

func (f *fakeShootRepo) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	f.deletedFiles = append(f.deletedFiles, fileID)
	return nil
}

type fakeClientRepo struct {
	clients map[uuid.UUID]*cliententity.Client
	err     error
}

func (f *fakeClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*cliententity.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.clients[id], nil
}

func (f *fakeClientRepo) Create(ctx context.Context, client *cliententity.Client) (*cliententity.Client, error) {
	return client, nil
}

func (f *fakeClientRepo) Update(ctx context.Context, client *cliententity.Client) error { return nil }

func (f *fakeClientRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeClientRepo) List(ctx context.Context, search string, page, pageSize int) (*coreentity.Pagination[cliententity.Client], error) {
	return nil, nil
}

type fakeSync struct {
	eventID     string
	upsertErr   *errors.AppError
	upsertCalls int
	lastTarget  *calsvc.SyncTarget
	deleteErr   *errors.AppError
	deleteCalls int
}

func (f *fakeSync) Upsert(ctx context.Context, target *calsvc.SyncTarget, store calsvc.EventIDStore) (string, *errors.AppError) {
	f.upsertCalls++
	f.lastTarget = target
	if f.upsertErr != nil {
		return "", f.upsertErr
	}
	id := f.eventID
	store.SetEventID(ctx, target.ID, &id)
	return id, nil
}

func (f *fakeSync) Delete(ctx context.Context, id uuid.UUID, eventID string, store calsvc.EventIDStore) *errors.AppError {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	store.SetEventID(ctx, id, nil)
	return nil
}

type fakeAvailability struct {
	available bool
	err       *errors.AppError
	calls     int
	duration  time.Duration
}

func (f *fakeAvailability) CheckWindow(ctx context.Context, start time.Time, duration time.Duration) (*caldto.AvailabilityResult, *errors.AppError) {
	f.calls++
	f.duration = duration
	if f.err != nil {
		return nil, f.err
	}
	result := &caldto.AvailabilityResult{Available: f.available}
	if !f.available {
		result.Conflicts = []caldto.TimeSlot{{Start: "2026-04-01T09:00:00Z", End: "2026-04-01T10:00:00Z"}}
	}
	return result, nil
}

func (f *fakeAvailability) CheckDay(ctx context.Context, date time.Time) (*caldto.AvailabilityResult, *errors.AppError) {
	return &caldto.AvailabilityResult{Available: f.available}, nil
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

type fakeObjectStore struct {
	deleted []string
	err     error
}

func (f *fakeObjectStore) DeleteObject(ctx context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func setup(available bool) (ShootService, *fakeShootRepo, *fakeClientRepo, *fakeSync, *fakeAvailability) {
	repo := newFakeShootRepo()
	clients := &fakeClientRepo{clients: map[uuid.UUID]*cliententity.Client{}}
	syncSvc := &fakeSync{eventID: "evt-new"}
	avail := &fakeAvailability{available: available}
	svc := NewShootService(repo, clients, syncSvc, avail, &fakeObjectStore{}, 240*time.Minute)
	return svc, repo, clients, syncSvc, avail
}

func TestCreateRejectsConflictingWindow(t *testing.T) {
	svc, repo, clients, syncSvc, _ := setup(false)

	clientID := uuid.New()
	clients.clients[clientID] = &cliententity.Client{FullName: strptr("Jane Doe")}

	_, appErr := svc.Create(context.Background(), &dto.CreateShootRequest{
		ClientID:  clientID.String(),
		StartTime: "2026-04-01T09:00:00Z",
	})
	if appErr == nil || appErr.Code != errors.ErrConflict {
		t.Fatalf("expected conflict error, got %v", appErr)
	}
	if len(repo.shoots) != 0 {
		t.Error("conflicting shoot must not be persisted")
	}
	if syncSvc.upsertCalls != 0 {
		t.Error("conflicting shoot must not be synced")
	}
}

func TestCreatePersistsAndSyncs(t *testing.T) {
	svc, _, clients, syncSvc, avail := setup(true)

	clientID := uuid.New()
	clients.clients[clientID] = &cliententity.Client{FullName: strptr("Jane Doe")}

	resp, appErr := svc.Create(context.Background(), &dto.CreateShootRequest{
		ClientID:  clientID.String(),
		StartTime: "2026-04-01T09:00:00+02:00",
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	if avail.duration != 240*time.Minute {
		t.Errorf("availability checked with %v, want default 240m", avail.duration)
	}
	if syncSvc.upsertCalls != 1 {
		t.Fatalf("upsert calls = %d, want 1", syncSvc.upsertCalls)
	}
	if syncSvc.lastTarget.Summary != "Shoot – Jane Doe" {
		t.Errorf("summary = %q", syncSvc.lastTarget.Summary)
	}
	// Start is normalized to UTC before storage and sync.
	wantStart := time.Date(2026, 4, 1, 7, 0, 0, 0, time.UTC)
	if !syncSvc.lastTarget.Start.Equal(wantStart) {
		t.Errorf("target start = %v, want %v", syncSvc.lastTarget.Start, wantStart)
	}
	if resp.CalendarEventID == nil || *resp.CalendarEventID != "evt-new" {
		t.Errorf("response event id = %v, want evt-new", resp.CalendarEventID)
	}
	if resp.Status != string(entity.ShootStatusPlanned) {
		t.Errorf("status = %q, want planned", resp.Status)
	}
}

func TestCreateUsesTypeNameColorAndDuration(t *testing.T) {
	svc, repo, clients, syncSvc, avail := setup(true)

	clientID := uuid.New()
	clients.clients[clientID] = &cliententity.Client{FirstName: strptr("Jane"), LastName: strptr("Doe")}

	typeID := uuid.New()
	repo.types[typeID] = &entity.ShootType{
		Name:            "Portrait",
		DurationMinutes: intptr(90),
		CalendarColor:   strptr("5"),
	}

	_, appErr := svc.Create(context.Background(), &dto.CreateShootRequest{
		ClientID:    clientID.String(),
		ShootTypeID: strptr(typeID.String()),
		StartTime:   "2026-04-01T09:00:00Z",
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	if avail.duration != 90*time.Minute {
		t.Errorf("availability duration = %v, want type default 90m", avail.duration)
	}
	if syncSvc.lastTarget.Summary != "Portrait – Jane Doe" {
		t.Errorf("summary = %q", syncSvc.lastTarget.Summary)
	}
	if syncSvc.lastTarget.ColorID != "5" {
		t.Errorf("color = %q, want 5", syncSvc.lastTarget.ColorID)
	}
	if syncSvc.lastTarget.Duration != 90*time.Minute {
		t.Errorf("target duration = %v, want 90m", syncSvc.lastTarget.Duration)
	}
}

func TestExplicitDurationBeatsTypeDefault(t *testing.T) {
	svc, repo, clients, syncSvc, _ := setup(true)

	clientID := uuid.New()
	clients.clients[clientID] = &cliententity.Client{FullName: strptr("Jane Doe")}

	typeID := uuid.New()
	repo.types[typeID] = &entity.ShootType{Name: "Portrait", DurationMinutes: intptr(90)}

	_, appErr := svc.Create(context.Background(), &dto.CreateShootRequest{
		ClientID:        clientID.String(),
		ShootTypeID:     strptr(typeID.String()),
		StartTime:       "2026-04-01T09:00:00Z",
		DurationMinutes: intptr(30),
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if syncSvc.lastTarget.Duration != 30*time.Minute {
		t.Errorf("target duration = %v, want explicit 30m", syncSvc.lastTarget.Duration)
	}
}

func TestCreateFallsBackToUnknownClient(t *testing.T) {
	svc, _, clients, syncSvc, _ := setup(true)

	// Client repo errors out; the sync still proceeds with the placeholder.
	clients.err = fmt.Errorf("db gone")
	clientID := uuid.New()

	_, appErr := svc.Create(context.Background(), &dto.CreateShootRequest{
		ClientID:  clientID.String(),
		StartTime: "2026-04-01T09:00:00Z",
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if syncSvc.lastTarget.Summary != "Shoot – "+cliententity.UnknownClientName {
		t.Errorf("summary = %q", syncSvc.lastTarget.Summary)
	}
}

func TestUpdateWithoutEventIDSkipsSync(t *testing.T) {
	svc, repo, _, syncSvc, _ := setup(true)

	shoot := &entity.Shoot{ClientID: uuid.New(), StartAt: time.Now().UTC(), Status: entity.ShootStatusPlanned}
	shoot.ID = uuid.New()
	repo.shoots[shoot.ID] = shoot

	_, appErr := svc.Update(context.Background(), shoot.ID, &dto.UpdateShootRequest{
		Notes: strptr("bring the fog machine"),
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if syncSvc.upsertCalls != 0 {
		t.Error("update without a calendar event must not sync")
	}
}

func TestUpdateWithEventIDResyncs(t *testing.T) {
	svc, repo, _, syncSvc, _ := setup(true)

	shoot := &entity.Shoot{
		ClientID:        uuid.New(),
		StartAt:         time.Now().UTC(),
		Status:          entity.ShootStatusConfirmed,
		CalendarEventID: strptr("evt-1"),
	}
	shoot.ID = uuid.New()
	repo.shoots[shoot.ID] = shoot

	_, appErr := svc.Update(context.Background(), shoot.ID, &dto.UpdateShootRequest{
		StartTime: strptr("2026-04-02T10:00:00Z"),
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if syncSvc.upsertCalls != 1 {
		t.Errorf("upsert calls = %d, want 1", syncSvc.upsertCalls)
	}
	if syncSvc.lastTarget.EventID == nil || *syncSvc.lastTarget.EventID != "evt-1" {
		t.Error("resync must carry the existing event id")
	}
}

func TestUpdateStatusSoldStampsSoldAt(t *testing.T) {
	svc, repo, _, _, _ := setup(true)

	shoot := &entity.Shoot{ClientID: uuid.New(), StartAt: time.Now().UTC(), Status: entity.ShootStatusCompleted}
	shoot.ID = uuid.New()
	repo.shoots[shoot.ID] = shoot

	_, appErr := svc.Update(context.Background(), shoot.ID, &dto.UpdateShootRequest{
		Status: strptr(string(entity.ShootStatusSold)),
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if shoot.Status != entity.ShootStatusSold {
		t.Errorf("status = %q, want sold", shoot.Status)
	}
	if shoot.SoldAt == nil {
		t.Fatal("sold_at should be stamped on the sold transition")
	}

	stamped := *shoot.SoldAt
	// A repeated sold update keeps the original timestamp.
	if _, appErr := svc.Update(context.Background(), shoot.ID, &dto.UpdateShootRequest{
		Status: strptr(string(entity.ShootStatusSold)),
	}); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if !shoot.SoldAt.Equal(stamped) {
		t.Error("sold_at must not move on repeated sold updates")
	}
}

func TestUpdateStatusRejectsSweepOwnedStates(t *testing.T) {
	svc, repo, _, _, _ := setup(true)

	shoot := &entity.Shoot{ClientID: uuid.New(), StartAt: time.Now().UTC(), Status: entity.ShootStatusPlanned}
	shoot.ID = uuid.New()
	repo.shoots[shoot.ID] = shoot

	for _, status := range []entity.ShootStatus{entity.ShootStatusCancelled, entity.ShootStatusArchived} {
		_, appErr := svc.Update(context.Background(), shoot.ID, &dto.UpdateShootRequest{
			Status: strptr(string(status)),
		})
		if appErr == nil || appErr.Code != errors.ErrInvalidInput {
			t.Errorf("status %q: expected invalid input, got %v", status, appErr)
		}
	}
}

func TestCancelDeletesEventAndSetsStatus(t *testing.T) {
	svc, repo, _, syncSvc, _ := setup(true)

	shoot := &entity.Shoot{
		ClientID:        uuid.New(),
		StartAt:         time.Now().UTC(),
		Status:          entity.ShootStatusConfirmed,
		CalendarEventID: strptr("evt-1"),
	}
	shoot.ID = uuid.New()
	repo.shoots[shoot.ID] = shoot

	if appErr := svc.Cancel(context.Background(), shoot.ID); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if syncSvc.deleteCalls != 1 {
		t.Errorf("delete calls = %d, want 1", syncSvc.deleteCalls)
	}
	if repo.statuses[shoot.ID] != entity.ShootStatusCancelled {
		t.Errorf("status = %q, want cancelled", repo.statuses[shoot.ID])
	}
	if shoot.CalendarEventID != nil {
		t.Error("event id should be cleared after cancel")
	}
}

func TestDeleteEventWithoutMirrorIsNoOp(t *testing.T) {
	svc, repo, _, syncSvc, _ := setup(true)

	shoot := &entity.Shoot{ClientID: uuid.New(), StartAt: time.Now().UTC(), Status: entity.ShootStatusPlanned}
	shoot.ID = uuid.New()
	repo.shoots[shoot.ID] = shoot

	if appErr := svc.DeleteEvent(context.Background(), shoot.ID); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if syncSvc.deleteCalls != 0 {
		t.Error("no mirror, no delete call")
	}
}

func TestFileLifecycle(t *testing.T) {
	repo := newFakeShootRepo()
	store := &fakeObjectStore{}
	svc := NewShootService(repo, &fakeClientRepo{clients: map[uuid.UUID]*cliententity.Client{}},
		&fakeSync{}, &fakeAvailability{available: true}, store, 240*time.Minute)

	shoot := &entity.Shoot{ClientID: uuid.New(), StartAt: time.Now().UTC(), Status: entity.ShootStatusSold}
	shoot.ID = uuid.New()
	repo.shoots[shoot.ID] = shoot

	file, appErr := svc.RegisterFile(context.Background(), shoot.ID, &dto.RegisterFileRequest{
		FileName: "Raw Selects 01.CR3",
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if !strings.HasPrefix(file.StorageKey, "shoots/"+shoot.ID.String()+"/raw-selects-01-cr3") {
		t.Errorf("storage key = %q", file.StorageKey)
	}

	files, appErr := svc.ListFiles(context.Background(), shoot.ID)
	if appErr != nil || len(files) != 1 {
		t.Fatalf("files = %v (err %v)", files, appErr)
	}

	fileID, _ := uuid.Parse(file.ID)
	if appErr := svc.RemoveFile(context.Background(), fileID); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(store.deleted) != 1 || store.deleted[0] != file.StorageKey {
		t.Errorf("deleted objects = %v", store.deleted)
	}
	if len(repo.deletedFiles) != 1 {
		t.Errorf("deleted rows = %d, want 1", len(repo.deletedFiles))
	}
}

func TestRegisterFileUnknownShoot(t *testing.T) {
	svc, _, _, _, _ := setup(true)
	_, appErr := svc.RegisterFile(context.Background(), uuid.New(), &dto.RegisterFileRequest{FileName: "x.jpg"})
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("expected not found, got %v", appErr)
	}
}

func TestGetUnknownShootReturnsNotFound(t *testing.T) {
	svc, _, _, _, _ := setup(true)
	_, appErr := svc.Get(context.Background(), uuid.New())
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("expected not found, got %v", appErr)
	}
}
