package service

import (
	"time"

	"taskdeck/internal/core/apperr"
	"taskdeck/internal/core/model"
	"taskdeck/internal/core/repository"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Status      model.Status
	DueDate     *time.Time
	OwnerID     string // requested owner; resolution is role-dependent
}

// UpdateTaskInput carries partial updates; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *model.Status
	DueDate     *time.Time
	OwnerID     *string
}

type TaskStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalManagers     int64 `json:"totalManagers"`
	TotalRegularUsers int64 `json:"totalRegularUsers"`
	TotalTasks        int64 `json:"totalTasks"`
	CompletedTasks    int64 `json:"completedTasks"`
	PendingTasks      int64 `json:"pendingTasks"`
	InProgressTasks   int64 `json:"inProgressTasks"`
}

type TaskService interface {
	ListTasks(principal *model.Principal) ([]*model.Task, error)
	GetTask(principal *model.Principal, id string) (*model.Task, error)
	CreateTask(principal *model.Principal, input CreateTaskInput) (*model.Task, error)
	UpdateTask(principal *model.Principal, id string, input UpdateTaskInput) (*model.Task, error)
	DeleteTask(principal *model.Principal, id string) error
	Stats(principal *model.Principal) (*TaskStats, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListTasks computes the visible task set for the principal: admins see
// everything, managers see their own tasks plus those of their managed
// users, users see only their own. The filter is recomputed from stored
// state on every call; nothing is cached.
func (s *taskService) ListTasks(p *model.Principal) ([]*model.Task, error) {
	switch p.Role {
	case model.RoleAdmin:
		return s.taskRepo.FindAll()
	case model.RoleManager:
		managed, err := s.userRepo.FindByManagerID(p.ID)
		if err != nil {
			return nil, err
		}
		ownerIDs := make([]string, 0, len(managed)+1)
		ownerIDs = append(ownerIDs, p.ID)
		for _, u := range managed {
			ownerIDs = append(ownerIDs, u.ID)
		}
		return s.taskRepo.FindByOwnerIDIn(ownerIDs)
	default:
		return s.taskRepo.FindByOwnerIDIn([]string{p.ID})
	}
}

func (s *taskService) GetTask(p *model.Principal, id string) (*model.Task, error) {
	if id == "" {
		return nil, apperr.ErrInvalidInput
	}
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.ErrNotFound
	}
	allowed, err := s.authorize(p, task)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.ErrForbidden
	}
	return task, nil
}

// authorize reports whether the principal may read, update or delete the
// task. Rights derive solely from the owner edge: the owner themselves and
// the owner's manager have authority; below admin nobody else does.
func (s *taskService) authorize(p *model.Principal, task *model.Task) (bool, error) {
	switch p.Role {
	case model.RoleAdmin:
		return true, nil
	case model.RoleManager:
		if task.OwnerID == p.ID {
			return true, nil
		}
		owner, err := s.userRepo.FindByID(task.OwnerID)
		if err != nil {
			return false, err
		}
		return owner != nil && owner.ManagerID == p.ID, nil
	default:
		return task.OwnerID == p.ID, nil
	}
}

// resolveOwner decides which user a task lands on. Users always own their
// own tasks regardless of what they request; managers may only place tasks
// on themselves or a user they manage; admins may place tasks on any
// existing user.
func (s *taskService) resolveOwner(p *model.Principal, requested string) (string, error) {
	if requested == "" || p.Role == model.RoleUser {
		return p.ID, nil
	}
	if requested == p.ID {
		return p.ID, nil
	}

	target, err := s.userRepo.FindByID(requested)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", apperr.ErrNotFound
	}
	if p.Role == model.RoleManager && target.ManagerID != p.ID {
		return "", apperr.ErrForbidden
	}
	return target.ID, nil
}

func (s *taskService) CreateTask(p *model.Principal, in CreateTaskInput) (*model.Task, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.StatusPending
	}
	if !status.Valid() {
		return nil, apperr.ErrInvalidInput
	}

	ownerID, err := s.resolveOwner(p, in.OwnerID)
	if err != nil {
		return nil, err
	}

	task := model.NewTask(in.Title, in.Description, status, in.DueDate, ownerID)
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) UpdateTask(p *model.Principal, id string, in UpdateTaskInput) (*model.Task, error) {
	if id == "" {
		return nil, apperr.ErrInvalidInput
	}

	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.ErrNotFound
	}

	allowed, err := s.authorize(p, task)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.ErrForbidden
	}

	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
		task.Title = *in.Title
	}
	if in.Description != nil {
		if err := validateDescription(*in.Description); err != nil {
			return nil, err
		}
		task.Description = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperr.ErrInvalidInput
		}
		task.Status = *in.Status
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}

	// Reassignment is an admin/manager capability. A user principal's
	// attempt is dropped, not rejected, so the role keeps its "always owns
	// own tasks" contract.
	if in.OwnerID != nil && p.Role != model.RoleUser && *in.OwnerID != task.OwnerID {
		ownerID, err := s.resolveOwner(p, *in.OwnerID)
		if err != nil {
			return nil, err
		}
		task.OwnerID = ownerID
	}

	task.UpdatedAt = time.Now()
	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) DeleteTask(p *model.Principal, id string) error {
	if id == "" {
		return apperr.ErrInvalidInput
	}

	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		return err
	}
	if task == nil {
		return apperr.ErrNotFound
	}

	allowed, err := s.authorize(p, task)
	if err != nil {
		return err
	}
	if !allowed {
		return apperr.ErrForbidden
	}

	return s.taskRepo.Delete(id)
}

// Stats aggregates dashboard counts for admin and manager principals.
func (s *taskService) Stats(p *model.Principal) (*TaskStats, error) {
	if p.Role != model.RoleAdmin && p.Role != model.RoleManager {
		return nil, apperr.ErrForbidden
	}

	stats := &TaskStats{}
	var err error

	if stats.TotalUsers, err = s.userRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalManagers, err = s.userRepo.CountByRole(model.RoleManager); err != nil {
		return nil, err
	}
	if stats.TotalRegularUsers, err = s.userRepo.CountByRole(model.RoleUser); err != nil {
		return nil, err
	}
	if stats.TotalTasks, err = s.taskRepo.Count(); err != nil {
		return nil, err
	}
	if stats.CompletedTasks, err = s.taskRepo.CountByStatus(model.StatusCompleted); err != nil {
		return nil, err
	}
	if stats.PendingTasks, err = s.taskRepo.CountByStatus(model.StatusPending); err != nil {
		return nil, err
	}
	if stats.InProgressTasks, err = s.taskRepo.CountByStatus(model.StatusInProgress); err != nil {
		return nil, err
	}
	return stats, nil
}

func validateTitle(title string) error {
	if title == "" || len(title) > model.MaxTitleLength {
		return apperr.ErrInvalidInput
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > model.MaxDescriptionLength {
		return apperr.ErrInvalidInput
	}
	return nil
}
