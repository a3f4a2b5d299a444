package handler

import (
	"fmt"
	"net/http"
	"time"

	"projecthub/internal/model"
	"projecthub/internal/notify"
	"projecthub/internal/policy"
	"projecthub/internal/repository"
	"projecthub/internal/state"
	"projecthub/internal/suggest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	projectRepo *repository.ProjectRepository
	taskRepo    *repository.TaskRepository
	userRepo    *repository.UserRepository
	state       *state.Container
	center      *notify.Center
	suggester   *suggest.Service
}

func NewProjectHandler(
	projectRepo *repository.ProjectRepository,
	taskRepo *repository.TaskRepository,
	userRepo *repository.UserRepository,
	st *state.Container,
	center *notify.Center,
	suggester *suggest.Service,
) *ProjectHandler {
	return &ProjectHandler{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		state:       st,
		center:      center,
		suggester:   suggester,
	}
}

// List returns all projects and refreshes the working set.
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectRepo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	h.state.PutProjects(projects...)

	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

type createProjectRequest struct {
	Name          string              `json:"name" binding:"required"`
	Description   string              `json:"description"`
	Status        model.ProjectStatus `json:"status"`
	StartDate     string              `json:"start_date"`
	EndDate       string              `json:"end_date"`
	ManagerID     string              `json:"manager_id"`
	TeamIDs       []string            `json:"team_ids"`
	GenerateTasks bool                `json:"generate_tasks"`
}

// Create adds a project. Admin/PM only. With generate_tasks set, the
// suggestion service seeds starter tasks; its failure degrades to a plain
// creation, never an error.
func (h *ProjectHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if !policy.CanCreateProject(actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to create projects"})
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	status := req.Status
	if status == "" {
		status = model.ProjectPlanning
	}
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project status"})
		return
	}

	managerID := actor.ID
	if req.ManagerID != "" {
		parsed, err := uuid.Parse(req.ManagerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manager ID format"})
			return
		}
		managerID = parsed
	}

	manager, err := h.userRepo.GetByID(c.Request.Context(), managerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify manager"})
		return
	}
	if manager == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Manager not found"})
		return
	}

	teamIDs, err := parseUUIDList(req.TeamIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team member ID format"})
		return
	}

	startDate := req.StartDate
	if startDate == "" {
		startDate = time.Now().Format("2006-01-02")
	}
	endDate := req.EndDate
	if endDate == "" {
		endDate = time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	}

	project := &model.Project{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		StartDate:   startDate,
		EndDate:     endDate,
		ManagerID:   managerID,
		TeamIDs:     teamIDs,
		Documents:   model.DocumentList{},
	}

	if err := h.projectRepo.Create(c.Request.Context(), project); err != nil {
		h.center.Push(actor.ID, "Error creating project", notify.TypeError)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}
	h.state.PutProjects(*project)

	created := 0
	if req.GenerateTasks {
		created = h.seedSuggestedTasks(c, actor, project)
	}

	if created > 0 {
		h.center.Push(actor.ID, fmt.Sprintf("Project created with %d generated tasks", created), notify.TypeSuccess)
	} else {
		h.center.Push(actor.ID, "Project created successfully", notify.TypeSuccess)
	}

	c.JSON(http.StatusCreated, gin.H{
		"project":         toProjectResponse(*project),
		"generated_tasks": created,
	})
}

// seedSuggestedTasks turns suggestions into TODO tasks reported by the
// creator. Individual insert failures only reduce the count.
func (h *ProjectHandler) seedSuggestedTasks(c *gin.Context, actor *model.User, project *model.Project) int {
	suggestions := h.suggester.ProjectPlan(c.Request.Context(), project.Name, project.Description)
	created := 0
	for _, s := range suggestions {
		priority := model.PriorityMedium
		if s.Priority == string(model.PriorityHigh) {
			priority = model.PriorityHigh
		}
		task := &model.Task{
			ID:          uuid.New(),
			ProjectID:   project.ID,
			Title:       s.Title,
			Description: s.Description,
			Status:      model.StatusTodo,
			Priority:    priority,
			AssigneeIDs: model.UUIDList{},
			ReporterID:  actor.ID,
			Documents:   model.DocumentList{},
		}
		if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
			continue
		}
		h.state.PutTasks(*task)
		created++
	}
	return created
}

// GetByID retrieves a project by ID
func (h *ProjectHandler) GetByID(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), projectID)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	h.state.PutProjects(*project)
	c.JSON(http.StatusOK, toProjectResponse(*project))
}

type updateProjectRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Status      model.ProjectStatus `json:"status" binding:"required"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	ManagerID   string              `json:"manager_id" binding:"required"`
	TeamIDs     []string            `json:"team_ids"`
}

// Update replaces a project's fields. Status changes are free-form; only
// tasks follow an enforced order. The document list is managed through the
// dedicated document endpoints and survives untouched here.
func (h *ProjectHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if !policy.CanCreateProject(actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to edit projects"})
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project status"})
		return
	}

	managerID, err := uuid.Parse(req.ManagerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manager ID format"})
		return
	}
	manager, err := h.userRepo.GetByID(c.Request.Context(), managerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify manager"})
		return
	}
	if manager == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Manager not found"})
		return
	}

	teamIDs, err := parseUUIDList(req.TeamIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team member ID format"})
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), projectID)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	project.Name = req.Name
	project.Description = req.Description
	project.Status = req.Status
	project.StartDate = req.StartDate
	project.EndDate = req.EndDate
	project.ManagerID = managerID
	project.TeamIDs = teamIDs

	if err := h.projectRepo.Update(c.Request.Context(), project); err != nil {
		h.center.Push(actor.ID, "Failed to update project", notify.TypeError)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	h.state.PutProjects(*project)
	c.JSON(http.StatusOK, toProjectResponse(*project))
}

// Delete removes a project. Store-layer parity with the other entities.
func (h *ProjectHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if !policy.CanCreateProject(actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete projects"})
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	if err := h.projectRepo.Delete(c.Request.Context(), projectID); err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			h.center.Push(actor.ID, "Failed to delete project", notify.TypeError)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		}
		return
	}

	h.state.RemoveProject(projectID)
	h.center.Push(actor.ID, "Project deleted", notify.TypeSuccess)
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

type addDocumentRequest struct {
	Name     string             `json:"name" binding:"required"`
	Type     model.DocumentType `json:"type" binding:"required"`
	Size     int64              `json:"size"`
	MimeType string             `json:"mime_type"`
	URL      string             `json:"url"`
}

// AddDocument attaches a document record to the project. Upload rights are
// wider than delete rights: Team Lead may add but not remove.
func (h *ProjectHandler) AddDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if !policy.CanUploadProjectDocuments(actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to upload documents"})
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	var req addDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document type"})
		return
	}

	doc := model.Document{
		ID:         uuid.New(),
		Name:       req.Name,
		Type:       req.Type,
		UploadDate: time.Now(),
		Size:       req.Size,
		MimeType:   req.MimeType,
		URL:        req.URL,
	}

	project, err := h.projectRepo.AddDocument(c.Request.Context(), projectID, doc)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			h.center.Push(actor.ID, "Failed to upload document", notify.TypeError)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add document"})
		}
		return
	}

	h.state.PutProjects(*project)
	h.center.Push(actor.ID, "Document uploaded", notify.TypeSuccess)
	c.JSON(http.StatusCreated, toProjectResponse(*project))
}

// RemoveDocument detaches a document from the project. Admin/PM only.
func (h *ProjectHandler) RemoveDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if !policy.CanDeleteProjectDocuments(actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete documents"})
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}
	docID, err := uuid.Parse(c.Param("doc_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID format"})
		return
	}

	project, err := h.projectRepo.RemoveDocument(c.Request.Context(), projectID, docID)
	if err != nil {
		switch err {
		case repository.ErrProjectNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		case repository.ErrDocumentNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		default:
			h.center.Push(actor.ID, "Failed to delete document", notify.TypeError)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove document"})
		}
		return
	}

	h.state.PutProjects(*project)
	c.JSON(http.StatusOK, toProjectResponse(*project))
}

func parseUUIDList(raw []string) (model.UUIDList, error) {
	out := make(model.UUIDList, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
