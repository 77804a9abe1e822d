package repository

import (
	"fmt"
	"sync"

	"taskdeck/internal/core/model"
)

type inMemoryTaskRepository struct {
	tasks map[string]*model.Task
	mutex sync.RWMutex
}

func NewInMemoryTaskRepository() TaskRepository {
	return &inMemoryTaskRepository{
		tasks: make(map[string]*model.Task),
	}
}

func (r *inMemoryTaskRepository) Create(task *model.Task) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.tasks[task.ID]; exists {
		return fmt.Errorf("task with ID %s already exists", task.ID)
	}

	r.tasks[task.ID] = task
	return nil
}

func (r *inMemoryTaskRepository) Update(task *model.Task) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.tasks[task.ID]; !exists {
		return fmt.Errorf("task with ID %s not found", task.ID)
	}

	r.tasks[task.ID] = task
	return nil
}

func (r *inMemoryTaskRepository) Delete(id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.tasks[id]; !exists {
		return fmt.Errorf("task with ID %s not found", id)
	}

	delete(r.tasks, id)
	return nil
}

func (r *inMemoryTaskRepository) FindByID(id string) (*model.Task, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if task, exists := r.tasks[id]; exists {
		return task, nil
	}
	return nil, nil
}

func (r *inMemoryTaskRepository) FindByOwnerIDIn(ownerIDs []string) ([]*model.Task, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	owners := make(map[string]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = struct{}{}
	}

	var result []*model.Task
	for _, task := range r.tasks {
		if _, ok := owners[task.OwnerID]; ok {
			result = append(result, task)
		}
	}
	return result, nil
}

func (r *inMemoryTaskRepository) FindAll() ([]*model.Task, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	tasks := make([]*model.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *inMemoryTaskRepository) DeleteByOwnerID(ownerID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, task := range r.tasks {
		if task.OwnerID == ownerID {
			delete(r.tasks, id)
		}
	}
	return nil
}

func (r *inMemoryTaskRepository) Count() (int64, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return int64(len(r.tasks)), nil
}

func (r *inMemoryTaskRepository) CountByStatus(status model.Status) (int64, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var count int64
	for _, task := range r.tasks {
		if task.Status == status {
			count++
		}
	}
	return count, nil
}
