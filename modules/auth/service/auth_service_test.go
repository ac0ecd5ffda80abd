package service

import (
	"context"
	"testing"
	"time"

	"studio-api/core/config"
	"studio-api/core/errors"
	"studio-api/core/utils"
	"studio-api/modules/auth/dto"
	"studio-api/modules/auth/entity"

	"github.com/google/uuid"
)

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return f.users[email], nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type fakeCache struct {
	values   map[string]string
	counters map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, counters: map[string]int64{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	delete(f.counters, key)
	return nil
}

func (f *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}

func activeUser(t *testing.T, email, password string) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &entity.User{Email: email, Name: "Staff", PasswordHash: hash, IsActive: true}
	u.ID = uuid.New()
	return u
}

func setupAuth(t *testing.T, users ...*entity.User) (AuthService, *fakeCache) {
	t.Helper()
	config.Set(&config.Config{JWT: config.JWTConfig{Secret: "test-secret"}})

	repo := &fakeUserRepo{users: map[string]*entity.User{}}
	for _, u := range users {
		repo.users[u.Email] = u
	}
	c := newFakeCache()
	return NewAuthService(repo, c), c
}

func TestLoginSucceedsWithValidCredentials(t *testing.T) {
	user := activeUser(t, "staff@studio.example", "hunter2hunter2")
	svc, cache := setupAuth(t, user)

	resp, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@studio.example",
		Password: "hunter2hunter2",
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}
	if cache.counters["login:staff@studio.example"] != 0 {
		t.Error("successful login must not leave an attempt counter")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	user := activeUser(t, "staff@studio.example", "hunter2hunter2")
	svc, cache := setupAuth(t, user)

	_, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@studio.example",
		Password: "wrong",
	})
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("expected unauthorized, got %v", appErr)
	}
	if cache.counters["login:staff@studio.example"] != 1 {
		t.Error("failed login must increment the attempt counter")
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	user := activeUser(t, "staff@studio.example", "hunter2hunter2")
	user.IsActive = false
	svc, _ := setupAuth(t, user)

	_, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@studio.example",
		Password: "hunter2hunter2",
	})
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("expected unauthorized, got %v", appErr)
	}
}

func TestLoginThrottlesAfterRepeatedFailures(t *testing.T) {
	user := activeUser(t, "staff@studio.example", "hunter2hunter2")
	svc, _ := setupAuth(t, user)

	var last *errors.AppError
	for i := 0; i < 5; i++ {
		_, last = svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "staff@studio.example",
			Password: "wrong",
		})
	}
	if last == nil {
		t.Fatal("expected error on the fifth failure")
	}
	if last.Message != "too many failed attempts, try again later" {
		t.Errorf("message = %q", last.Message)
	}
}

func TestLoginUnknownUserCountsAsFailure(t *testing.T) {
	svc, cache := setupAuth(t)

	_, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ghost@studio.example",
		Password: "whatever",
	})
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("expected unauthorized, got %v", appErr)
	}
	if cache.counters["login:ghost@studio.example"] != 1 {
		t.Error("unknown user should still be counted to resist enumeration")
	}
}
