package repository

import (
	"context"
	"errors"

	"projecthub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListAll retrieves all tasks
func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Order("created_at").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// GetByProjectID retrieves all tasks belonging to a project
func (r *TaskRepository) GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Update replaces an existing task with the full record passed in. Failures
// are surfaced as-is; retrying is the caller's decision, not the adapter's.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// AddDocument appends a document to the task's embedded document list
func (r *TaskRepository) AddDocument(ctx context.Context, taskID uuid.UUID, doc model.Document) (*model.Task, error) {
	task, err := r.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.Documents = append(task.Documents, doc)
	if err := r.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// RemoveDocument drops a document from the task's embedded document list
func (r *TaskRepository) RemoveDocument(ctx context.Context, taskID, docID uuid.UUID) (*model.Task, error) {
	task, err := r.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	kept := make(model.DocumentList, 0, len(task.Documents))
	found := false
	for _, d := range task.Documents {
		if d.ID == docID {
			found = true
			continue
		}
		kept = append(kept, d)
	}
	if !found {
		return nil, ErrDocumentNotFound
	}
	task.Documents = kept
	if err := r.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}
