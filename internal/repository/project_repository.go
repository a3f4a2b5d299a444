package repository

import (
	"context"
	"errors"

	"projecthub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create adds a new project to the database
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// GetByID retrieves a project by its ID
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	result := r.db.WithContext(ctx).First(&project, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, result.Error
	}
	return &project, nil
}

// ListAll retrieves all projects
func (r *ProjectRepository) ListAll(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	result := r.db.WithContext(ctx).Order("created_at").Find(&projects)
	if result.Error != nil {
		return nil, result.Error
	}
	return projects, nil
}

// Update replaces an existing project with the full record passed in
func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	result := r.db.WithContext(ctx).Save(project)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Delete removes a project by its ID
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// AddDocument appends a document to the project's embedded document list.
// The store boundary has no per-document operations, so this is a
// read-modify-write of the full array.
func (r *ProjectRepository) AddDocument(ctx context.Context, projectID uuid.UUID, doc model.Document) (*model.Project, error) {
	project, err := r.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	project.Documents = append(project.Documents, doc)
	if err := r.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// RemoveDocument drops a document from the project's embedded document list
func (r *ProjectRepository) RemoveDocument(ctx context.Context, projectID, docID uuid.UUID) (*model.Project, error) {
	project, err := r.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	kept := make(model.DocumentList, 0, len(project.Documents))
	found := false
	for _, d := range project.Documents {
		if d.ID == docID {
			found = true
			continue
		}
		kept = append(kept, d)
	}
	if !found {
		return nil, ErrDocumentNotFound
	}
	project.Documents = kept
	if err := r.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}
