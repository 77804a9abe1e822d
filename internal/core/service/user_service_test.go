package service

import (
	"errors"
	"testing"

	"taskdeck/internal/core/apperr"
	"taskdeck/internal/core/model"
	"taskdeck/internal/core/repository"

	"golang.org/x/crypto/bcrypt"
)

type userScene struct {
	svc   UserService
	users repository.UserRepository
	tasks repository.TaskRepository

	admin, m1, u1, u2 *model.Principal
}

func newUserScene(t *testing.T) *userScene {
	t.Helper()
	users := repository.NewInMemoryUserRepository()
	tasks := repository.NewInMemoryTaskRepository()

	s := &userScene{
		svc:   NewUserService(users, tasks),
		users: users,
		tasks: tasks,
		admin: principalFor(seedUser(t, users, "a1", model.RoleAdmin, "")),
		m1:    principalFor(seedUser(t, users, "m1", model.RoleManager, "")),
		u1:    principalFor(seedUser(t, users, "u1", model.RoleUser, "m1")),
		u2:    principalFor(seedUser(t, users, "u2", model.RoleUser, "")),
	}
	return s
}

func TestListUsersAdminOnly(t *testing.T) {
	s := newUserScene(t)

	users, err := s.svc.ListUsers(s.admin)
	if err != nil {
		t.Fatalf("ListUsers error: %v", err)
	}
	if len(users) != 4 {
		t.Fatalf("got %d users want 4", len(users))
	}

	for _, p := range []*model.Principal{s.m1, s.u1} {
		if _, err := s.svc.ListUsers(p); !errors.Is(err, apperr.ErrForbidden) {
			t.Fatalf("role %s: got %v want ErrForbidden", p.Role, err)
		}
	}
}

func TestListAssignedUsers(t *testing.T) {
	s := newUserScene(t)

	// Admin sees every user-role record.
	users, err := s.svc.ListAssignedUsers(s.admin)
	if err != nil {
		t.Fatalf("admin assigned: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("admin assigned: got %d want 2", len(users))
	}
	for _, u := range users {
		if u.Role != model.RoleUser {
			t.Fatalf("non-user role in assigned scope: %q", u.Role)
		}
	}

	// Manager sees only their own assignments.
	users, err = s.svc.ListAssignedUsers(s.m1)
	if err != nil {
		t.Fatalf("manager assigned: %v", err)
	}
	if len(users) != 1 || users[0].ID != "u1" {
		t.Fatalf("manager assigned: got %v want [u1]", users)
	}

	// A user principal is not authorized for this scope.
	if _, err := s.svc.ListAssignedUsers(s.u1); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("user assigned: got %v want ErrForbidden", err)
	}
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	s := newUserScene(t)

	input := CreateUserInput{Name: "New", Email: "new@example.com", Password: "pw"}
	if _, err := s.svc.CreateUser(s.m1, input); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("manager create: got %v want ErrForbidden", err)
	}
}

func TestCreateUserValidatesManagerEdge(t *testing.T) {
	s := newUserScene(t)

	tests := []struct {
		name      string
		managerID string
		wantErr   error
	}{
		{"valid manager reference", "m1", nil},
		{"nonexistent manager", "ghost", apperr.ErrInvalidInput},
		{"reference to a non-manager", "u2", apperr.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := s.svc.CreateUser(s.admin, CreateUserInput{
				Name:      "New " + tt.name,
				Email:     tt.name + "@example.com",
				Password:  "pw",
				Role:      model.RoleUser,
				ManagerID: tt.managerID,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && user.ManagerID != tt.managerID {
				t.Fatalf("manager edge: got %q want %q", user.ManagerID, tt.managerID)
			}
		})
	}
}

func TestCreateUserIgnoresManagerEdgeForNonUserRoles(t *testing.T) {
	s := newUserScene(t)

	user, err := s.svc.CreateUser(s.admin, CreateUserInput{
		Name:      "Second Manager",
		Email:     "m2@example.com",
		Password:  "pw",
		Role:      model.RoleManager,
		ManagerID: "m1",
	})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if user.ManagerID != "" {
		t.Fatalf("manager edge on a manager record: %q", user.ManagerID)
	}
}

func TestCreateUserRefusesDuplicateEmail(t *testing.T) {
	s := newUserScene(t)

	input := CreateUserInput{Name: "Dup", Email: "u1@example.com", Password: "pw"}
	if _, err := s.svc.CreateUser(s.admin, input); !errors.Is(err, apperr.ErrEmailTaken) {
		t.Fatalf("got %v want ErrEmailTaken", err)
	}
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	s := newUserScene(t)

	pw := "new-password"
	user, err := s.svc.UpdateUser(s.admin, "u1", UpdateUserInput{Password: &pw})
	if err != nil {
		t.Fatalf("UpdateUser error: %v", err)
	}
	if user.Password == pw {
		t.Fatal("password stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(pw)) != nil {
		t.Fatal("updated digest does not verify")
	}
}

func TestUpdateUserPromotionClearsManagerEdge(t *testing.T) {
	s := newUserScene(t)

	role := model.RoleManager
	user, err := s.svc.UpdateUser(s.admin, "u1", UpdateUserInput{Role: &role})
	if err != nil {
		t.Fatalf("UpdateUser error: %v", err)
	}
	if user.ManagerID != "" {
		t.Fatalf("promoted record kept manager edge: %q", user.ManagerID)
	}
}

func TestUpdateUserEmailConflict(t *testing.T) {
	s := newUserScene(t)

	email := "u2@example.com"
	if _, err := s.svc.UpdateUser(s.admin, "u1", UpdateUserInput{Email: &email}); !errors.Is(err, apperr.ErrEmailTaken) {
		t.Fatalf("got %v want ErrEmailTaken", err)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	s := newUserScene(t)

	name := "Ghost"
	if _, err := s.svc.UpdateUser(s.admin, "ghost", UpdateUserInput{Name: &name}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("got %v want ErrNotFound", err)
	}
}

func TestDeleteUserCascadesTasks(t *testing.T) {
	s := newUserScene(t)
	seedTask(t, s.tasks, "t1", "u1")
	seedTask(t, s.tasks, "t2", "u1")
	seedTask(t, s.tasks, "t3", "u2")

	if err := s.svc.DeleteUser(s.admin, "u1"); err != nil {
		t.Fatalf("DeleteUser error: %v", err)
	}

	if user, _ := s.users.FindByID("u1"); user != nil {
		t.Fatal("user record survived delete")
	}
	remaining, err := s.tasks.FindAll()
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "t3" {
		t.Fatalf("cascade: got %d tasks, want only t3", len(remaining))
	}
}

func TestDeleteUserChecks(t *testing.T) {
	s := newUserScene(t)

	if err := s.svc.DeleteUser(s.m1, "u1"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("manager delete: got %v want ErrForbidden", err)
	}
	if err := s.svc.DeleteUser(s.admin, "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing user: got %v want ErrNotFound", err)
	}
}

func TestGetUserScope(t *testing.T) {
	s := newUserScene(t)

	if _, err := s.svc.GetUser(s.admin, "u1"); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if _, err := s.svc.GetUser(s.u1, "u1"); err != nil {
		t.Fatalf("self get: %v", err)
	}
	if _, err := s.svc.GetUser(s.u1, "u2"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("cross get: got %v want ErrForbidden", err)
	}
	if _, err := s.svc.GetUser(s.admin, "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing: got %v want ErrNotFound", err)
	}
}
