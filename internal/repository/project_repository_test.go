package repository_test

import (
	"context"
	"fmt"
	"testing"

	"projecthub/internal/model"
	"projecthub/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func projectColumns() []string {
	return []string{"id", "name", "description", "status", "start_date", "end_date", "manager_id", "team_ids", "documents", "created_at", "updated_at"}
}

func TestProjectRepository_GetByID(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	projectRepo := repository.NewProjectRepository(gormDB)

	projectID := uuid.New()
	managerID := uuid.New()
	memberID := uuid.New()
	docID := uuid.New()

	// Embedded arrays come back as jsonb columns.
	teamJSON := fmt.Sprintf(`["%s"]`, memberID)
	docsJSON := fmt.Sprintf(`[{"id":"%s","name":"brief.pdf","type":"REQUIREMENT_DOC","upload_date":"2025-01-10","size":1024,"mime_type":"application/pdf","url":"https://files.example.com/brief.pdf"}]`, docID)

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .* LIMIT 1`).
		WithArgs(projectID).
		WillReturnRows(sqlmock.NewRows(projectColumns()).
			AddRow(projectID.String(), "Portal", "Customer portal", "ACTIVE", "2025-01-01", "2025-06-30",
				managerID.String(), []byte(teamJSON), []byte(docsJSON), "2025-01-01 00:00:00", "2025-01-01 00:00:00"))

	project, err := projectRepo.GetByID(context.Background(), projectID)

	assert.NoError(t, err)
	assert.NotNil(t, project)
	assert.Equal(t, projectID, project.ID)
	assert.Equal(t, model.ProjectActive, project.Status)
	assert.Equal(t, model.UUIDList{memberID}, project.TeamIDs)
	assert.Len(t, project.Documents, 1)
	assert.Equal(t, docID, project.Documents[0].ID)
	assert.Equal(t, model.DocRequirement, project.Documents[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_GetByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	projectRepo := repository.NewProjectRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .* LIMIT 1`).
		WillReturnError(gorm.ErrRecordNotFound)

	project, err := projectRepo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrProjectNotFound)
	assert.Nil(t, project)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Create(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	projectRepo := repository.NewProjectRepository(gormDB)

	projectID := uuid.New()
	project := &model.Project{
		ID:        projectID,
		Name:      "Portal",
		Status:    model.ProjectPlanning,
		ManagerID: uuid.New(),
		TeamIDs:   model.UUIDList{},
		Documents: model.DocumentList{},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(projectID.String()))
	mock.ExpectCommit()

	err := projectRepo.Create(context.Background(), project)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_RemoveDocument_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	projectRepo := repository.NewProjectRepository(gormDB)

	projectID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .* LIMIT 1`).
		WithArgs(projectID).
		WillReturnRows(sqlmock.NewRows(projectColumns()).
			AddRow(projectID.String(), "Portal", "", "PLANNING", "", "",
				uuid.New().String(), []byte(`[]`), []byte(`[]`), "2025-01-01 00:00:00", "2025-01-01 00:00:00"))

	// No UPDATE is expected: a missing document aborts the read-modify-write.
	project, err := projectRepo.RemoveDocument(context.Background(), projectID, uuid.New())

	assert.ErrorIs(t, err, repository.ErrDocumentNotFound)
	assert.Nil(t, project)
	assert.NoError(t, mock.ExpectationsWereMet())
}
