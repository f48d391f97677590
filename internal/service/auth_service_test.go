package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/deskhub/offices-api/internal/domain"
	"github.com/deskhub/offices-api/pkg/auth"
	"github.com/deskhub/offices-api/pkg/config"
)

type mockUserRepo struct {
	byEmail map[string]*domain.User
	hashes  map[string]string
	created *domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byEmail: map[string]*domain.User{},
		hashes:  map[string]string{},
	}
}

func (m *mockUserRepo) Create(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	u := &domain.User{ID: int64(len(m.byEmail) + 1), Name: name, Email: email}
	m.byEmail[email] = u
	m.hashes[email] = passwordHash
	m.created = u
	return u, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, "", nil
	}
	return u, m.hashes[email], nil
}

func (m *mockUserRepo) ListAdmins(ctx context.Context) ([]domain.User, error) {
	return nil, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTL = time.Hour
	return cfg
}

func TestRegister_IssuesTokenWithCreateScope(t *testing.T) {
	users := newMockUserRepo()
	svc := NewAuthService(users, testConfig())

	res, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Ana",
		Email:    "Ana@Example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if users.created == nil || users.created.Email != "ana@example.com" {
		t.Fatalf("expected the email lowercased on creation, got %+v", users.created)
	}

	claims, err := auth.Parse(res.Token, "test-secret")
	if err != nil {
		t.Fatalf("failed to parse issued token: %v", err)
	}
	if claims.UserID != res.User.ID {
		t.Fatalf("token user id %d does not match user %d", claims.UserID, res.User.ID)
	}
	if !claims.HasScope(auth.ScopeOfficeCreate) {
		t.Fatal("a fresh account must carry the office.create scope")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testConfig())

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing name", RegisterRequest{Email: "a@b.com", Password: "long enough"}},
		{"bad email", RegisterRequest{Name: "Ana", Email: "not-an-email", Password: "long enough"}},
		{"short password", RegisterRequest{Name: "Ana", Email: "a@b.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := svc.Register(context.Background(), &req); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newMockUserRepo()
	users.byEmail["ana@example.com"] = &domain.User{ID: 1, Email: "ana@example.com"}
	svc := NewAuthService(users, testConfig())

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "long enough",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for a duplicate email, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	users := newMockUserRepo()
	hash, err := argon2id.CreateHash("correct horse", argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	users.byEmail["ana@example.com"] = &domain.User{ID: 1, Email: "ana@example.com"}
	users.hashes["ana@example.com"] = hash
	svc := NewAuthService(users, testConfig())

	res, err := svc.Login(context.Background(), &LoginRequest{Email: "Ana@Example.com ", Password: "correct horse"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.User.ID != 1 || res.Token == "" {
		t.Fatalf("unexpected login result: %+v", res)
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "ana@example.com", Password: "wrong"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a bad password, got %v", err)
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "whatever"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for an unknown account, got %v", err)
	}
}
