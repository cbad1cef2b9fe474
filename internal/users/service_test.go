package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/msotelo-dev/atelier-backend/pkg/config"
	"github.com/msotelo-dev/atelier-backend/pkg/db/models"
	"github.com/msotelo-dev/atelier-backend/pkg/enums"
	pkgerrors "github.com/msotelo-dev/atelier-backend/pkg/errors"
	"github.com/msotelo-dev/atelier-backend/pkg/pagination"
	"github.com/msotelo-dev/atelier-backend/pkg/security"
)

type stubUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) Update(_ context.Context, user *models.User) (*models.User, error) {
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) List(_ context.Context, _ pagination.Params) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, err := NewService(repo, testPasswordConfig())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	dto, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:     "  Owner@Example.COM ",
		Password:  "correct horse battery",
		FirstName: "Marta",
		LastName:  "Sotelo",
		Role:      enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if dto.Email != "owner@example.com" {
		t.Fatalf("email should be normalized, got %q", dto.Email)
	}

	stored := repo.users[dto.ID]
	if stored.PasswordHash == "correct horse battery" {
		t.Fatal("password must not be stored in plaintext")
	}
	ok, err := security.VerifyPassword("correct horse battery", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash should verify, ok=%v err=%v", ok, err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc, err := NewService(newStubUserRepo(), testPasswordConfig())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateUserInput
	}{
		{"badEmail", CreateUserInput{Email: "nope", Password: "long enough pass"}},
		{"shortPassword", CreateUserInput{Email: "a@b.com", Password: "short"}},
		{"badRole", CreateUserInput{Email: "a@b.com", Password: "long enough pass", Role: enums.UserRole("owner")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateUser(ctx, tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestCreateUserDefaultsToStaff(t *testing.T) {
	svc, err := NewService(newStubUserRepo(), testPasswordConfig())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	dto, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "staff@example.com",
		Password: "long enough pass",
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if dto.Role != enums.UserRoleStaff {
		t.Fatalf("expected staff default role, got %s", dto.Role)
	}
	if !dto.IsActive {
		t.Fatal("new accounts should start active")
	}
}

func TestUpdateUserSelfGuards(t *testing.T) {
	repo := newStubUserRepo()
	svc, err := NewService(repo, testPasswordConfig())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	admin, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "admin@example.com",
		Password: "long enough pass",
		Role:     enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	staffRole := enums.UserRoleStaff
	_, err = svc.UpdateUser(context.Background(), admin.ID, admin.ID, UpdateUserInput{Role: &staffRole})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("self demotion should conflict, got %v", err)
	}

	inactive := false
	_, err = svc.UpdateUser(context.Background(), admin.ID, admin.ID, UpdateUserInput{IsActive: &inactive})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("self deactivation should conflict, got %v", err)
	}

	// Another admin can do both.
	other, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "admin2@example.com",
		Password: "long enough pass",
		Role:     enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	updated, err := svc.UpdateUser(context.Background(), other.ID, admin.ID, UpdateUserInput{Role: &staffRole, IsActive: &inactive})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.Role != enums.UserRoleStaff || updated.IsActive {
		t.Fatalf("update not applied: %+v", updated)
	}
}
