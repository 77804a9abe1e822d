package service

import (
	"time"

	"taskdeck/internal/core/apperr"
	"taskdeck/internal/core/model"
	"taskdeck/internal/core/repository"
)

type CreateUserInput struct {
	Name      string
	Email     string
	Password  string
	Role      model.Role
	ManagerID string
}

// UpdateUserInput carries partial updates; nil fields are left untouched.
type UpdateUserInput struct {
	Name      *string
	Email     *string
	Password  *string
	Role      *model.Role
	ManagerID *string
}

type UserService interface {
	ListUsers(principal *model.Principal) ([]*model.User, error)
	ListAssignedUsers(principal *model.Principal) ([]*model.User, error)
	GetUser(principal *model.Principal, id string) (*model.User, error)
	CreateUser(principal *model.Principal, input CreateUserInput) (*model.User, error)
	UpdateUser(principal *model.Principal, id string, input UpdateUserInput) (*model.User, error)
	DeleteUser(principal *model.Principal, id string) error
}

type userService struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
}

func NewUserService(userRepo repository.UserRepository, taskRepo repository.TaskRepository) UserService {
	return &userService{
		userRepo: userRepo,
		taskRepo: taskRepo,
	}
}

// ListUsers returns every user record. Admin only; password digests never
// leave the service boundary (the field is excluded from serialization).
func (s *userService) ListUsers(p *model.Principal) ([]*model.User, error) {
	if p.Role != model.RoleAdmin {
		return nil, apperr.ErrForbidden
	}
	return s.userRepo.FindAll()
}

// ListAssignedUsers resolves the "assigned users" scope: admins see every
// user-role record, managers see the user-role records assigned to them,
// user principals are denied.
func (s *userService) ListAssignedUsers(p *model.Principal) ([]*model.User, error) {
	switch p.Role {
	case model.RoleAdmin:
		return s.userRepo.FindByRole(model.RoleUser)
	case model.RoleManager:
		assigned, err := s.userRepo.FindByManagerID(p.ID)
		if err != nil {
			return nil, err
		}
		result := make([]*model.User, 0, len(assigned))
		for _, u := range assigned {
			if u.Role == model.RoleUser {
				result = append(result, u)
			}
		}
		return result, nil
	default:
		return nil, apperr.ErrForbidden
	}
}

func (s *userService) GetUser(p *model.Principal, id string) (*model.User, error) {
	if id == "" {
		return nil, apperr.ErrInvalidInput
	}
	if p.Role != model.RoleAdmin && p.ID != id {
		return nil, apperr.ErrForbidden
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrNotFound
	}
	return user, nil
}

func (s *userService) CreateUser(p *model.Principal, in CreateUserInput) (*model.User, error) {
	if p.Role != model.RoleAdmin {
		return nil, apperr.ErrForbidden
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.ErrInvalidInput
	}

	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return nil, apperr.ErrInvalidInput
	}

	existing, err := s.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrEmailTaken
	}

	digest, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := model.NewUser(in.Name, in.Email, digest, role)

	// The manager edge is only meaningful on user-role records and is
	// validated at write time.
	if in.ManagerID != "" && role == model.RoleUser {
		if err := s.validateManagerRef(in.ManagerID); err != nil {
			return nil, err
		}
		user.ManagerID = in.ManagerID
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(p *model.Principal, id string, in UpdateUserInput) (*model.User, error) {
	if p.Role != model.RoleAdmin {
		return nil, apperr.ErrForbidden
	}
	if id == "" {
		return nil, apperr.ErrInvalidInput
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrNotFound
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.ErrInvalidInput
		}
		user.Name = *in.Name
	}
	if in.Email != nil && *in.Email != user.Email {
		if *in.Email == "" {
			return nil, apperr.ErrInvalidInput
		}
		existing, err := s.userRepo.FindByEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.ErrEmailTaken
		}
		user.Email = *in.Email
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperr.ErrInvalidInput
		}
		user.Role = *in.Role
	}
	if in.ManagerID != nil {
		if *in.ManagerID == "" {
			user.ManagerID = ""
		} else {
			if user.Role != model.RoleUser {
				return nil, apperr.ErrInvalidInput
			}
			if err := s.validateManagerRef(*in.ManagerID); err != nil {
				return nil, err
			}
			user.ManagerID = *in.ManagerID
		}
	}
	// The edge has no meaning outside the user role; drop it on promotion.
	if user.Role != model.RoleUser {
		user.ManagerID = ""
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, apperr.ErrInvalidInput
		}
		digest, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = digest
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user and cascades to every task the user owns.
func (s *userService) DeleteUser(p *model.Principal, id string) error {
	if p.Role != model.RoleAdmin {
		return apperr.ErrForbidden
	}
	if id == "" {
		return apperr.ErrInvalidInput
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.ErrNotFound
	}

	if err := s.userRepo.Delete(id); err != nil {
		return err
	}
	return s.taskRepo.DeleteByOwnerID(id)
}

// validateManagerRef requires the referenced user to exist and to actually
// hold the manager role.
func (s *userService) validateManagerRef(managerID string) error {
	manager, err := s.userRepo.FindByID(managerID)
	if err != nil {
		return err
	}
	if manager == nil || manager.Role != model.RoleManager {
		return apperr.ErrInvalidInput
	}
	return nil
}
