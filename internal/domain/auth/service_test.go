package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/homepro/homepro-api/internal/domain/session"
	"github.com/homepro/homepro-api/internal/pkg/jwt"
)

type repoStub struct {
	byEmail map[string]*Profile
	byUser  map[uuid.UUID]*Profile
	roles   map[uuid.UUID][]string
}

func newRepoStub() *repoStub {
	return &repoStub{
		byEmail: make(map[string]*Profile),
		byUser:  make(map[uuid.UUID]*Profile),
		roles:   make(map[uuid.UUID][]string),
	}
}

func (r *repoStub) Create(_ context.Context, p *Profile, role session.Role) error {
	cp := *p
	r.byEmail[p.Email] = &cp
	r.byUser[p.UserID] = &cp
	r.roles[p.UserID] = []string{string(role)}
	return nil
}

func (r *repoStub) GetByEmail(_ context.Context, email string) (*Profile, error) {
	p, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *repoStub) GetByUserID(_ context.Context, userID uuid.UUID) (*Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *repoStub) GetRoles(_ context.Context, userID uuid.UUID) ([]string, error) {
	return r.roles[userID], nil
}

func newTestService(repo *repoStub) *Service {
	jwtService := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(repo, nil, jwtService, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newRepoStub()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "  Alice@Example.COM ",
		Password: "correct horse battery",
		FullName: "Alice Nguyen",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if len(resp.User.Roles) != 1 || resp.User.Roles[0] != string(session.RoleCustomer) {
		t.Fatalf("expected customer role, got %v", resp.User.Roles)
	}

	// email was normalized on the way in
	login, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.Email != "alice@example.com" {
		t.Fatalf("unexpected email: %s", login.User.Email)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	svc := newTestService(newRepoStub())

	req := &RegisterRequest{Email: "bob@example.com", Password: "hunter2hunter2"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(newRepoStub())

	if _, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "bob@example.com",
		Password: "hunter2hunter2",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "bob@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(newRepoStub())

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshRequiresToken(t *testing.T) {
	svc := newTestService(newRepoStub())

	_, err := svc.Refresh(context.Background(), "")
	if !errors.Is(err, ErrRefreshTokenRequired) {
		t.Fatalf("expected ErrRefreshTokenRequired, got %v", err)
	}

	_, err = svc.Refresh(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}
