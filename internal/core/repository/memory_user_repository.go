package repository

import (
	"fmt"
	"sync"

	"taskdeck/internal/core/model"
)

type inMemoryUserRepository struct {
	users map[string]*model.User
	mutex sync.RWMutex
}

func NewInMemoryUserRepository() UserRepository {
	return &inMemoryUserRepository{
		users: make(map[string]*model.User),
	}
}

func (r *inMemoryUserRepository) Create(user *model.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.users[user.ID]; exists {
		return fmt.Errorf("user with ID %s already exists", user.ID)
	}

	r.users[user.ID] = user
	return nil
}

func (r *inMemoryUserRepository) CreateFirstAdmin(admin *model.User) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Check and insert under one lock, mirroring the store-side atomicity of
	// the Mongo implementation.
	for _, user := range r.users {
		if user.Role == model.RoleAdmin {
			return false, nil
		}
	}

	r.users[admin.ID] = admin
	return true, nil
}

func (r *inMemoryUserRepository) Update(user *model.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.users[user.ID]; !exists {
		return fmt.Errorf("user with ID %s not found", user.ID)
	}

	r.users[user.ID] = user
	return nil
}

func (r *inMemoryUserRepository) Delete(id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.users[id]; !exists {
		return fmt.Errorf("user with ID %s not found", id)
	}

	delete(r.users, id)
	return nil
}

func (r *inMemoryUserRepository) FindByID(id string) (*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if user, exists := r.users[id]; exists {
		return user, nil
	}
	return nil, nil
}

func (r *inMemoryUserRepository) FindByEmail(email string) (*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepository) FindByManagerID(managerID string) ([]*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*model.User
	for _, user := range r.users {
		if user.ManagerID == managerID {
			result = append(result, user)
		}
	}
	return result, nil
}

func (r *inMemoryUserRepository) FindByRole(role model.Role) ([]*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*model.User
	for _, user := range r.users {
		if user.Role == role {
			result = append(result, user)
		}
	}
	return result, nil
}

func (r *inMemoryUserRepository) FindAll() ([]*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *inMemoryUserRepository) Count() (int64, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return int64(len(r.users)), nil
}

func (r *inMemoryUserRepository) CountByRole(role model.Role) (int64, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var count int64
	for _, user := range r.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}
