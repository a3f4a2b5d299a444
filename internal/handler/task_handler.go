package handler

import (
	"net/http"
	"time"

	"projecthub/internal/model"
	"projecthub/internal/notify"
	"projecthub/internal/policy"
	"projecthub/internal/repository"
	"projecthub/internal/state"
	"projecthub/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskRepo    *repository.TaskRepository
	projectRepo *repository.ProjectRepository
	engine      *workflow.Engine
	state       *state.Container
	center      *notify.Center
}

func NewTaskHandler(
	taskRepo *repository.TaskRepository,
	projectRepo *repository.ProjectRepository,
	engine *workflow.Engine,
	st *state.Container,
	center *notify.Center,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		engine:      engine,
		state:       st,
		center:      center,
	}
}

// ListByProject returns a project's tasks and refreshes the working set.
func (h *TaskHandler) ListByProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	if _, err := h.projectRepo.GetByID(c.Request.Context(), projectID); err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	tasks, err := h.taskRepo.GetByProjectID(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	h.state.PutTasks(tasks...)

	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

type createTaskRequest struct {
	ProjectID   string             `json:"project_id" binding:"required,uuid"`
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Priority    model.TaskPriority `json:"priority"`
	AssigneeIDs []string           `json:"assignee_ids"`
	DueDate     *time.Time         `json:"due_date"`
}

// Create adds a task with the caller as reporter. Admin/PM only; the
// reporter is fixed at creation and never changes.
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if !policy.CanManageTasks(actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to create tasks"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}
	if _, err := h.projectRepo.GetByID(c.Request.Context(), projectID); err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}

	assigneeIDs, err := parseUUIDList(req.AssigneeIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID format"})
		return
	}

	task := &model.Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.StatusTodo,
		Priority:    priority,
		AssigneeIDs: assigneeIDs,
		ReporterID:  actor.ID,
		DueDate:     req.DueDate,
		Documents:   model.DocumentList{},
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		h.center.Push(actor.ID, "Failed to create task", notify.TypeError)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	h.state.PutTasks(*task)
	c.JSON(http.StatusCreated, toTaskResponse(*task))
}

// GetByID retrieves a task by ID
func (h *TaskHandler) GetByID(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	h.state.PutTasks(*task)
	c.JSON(http.StatusOK, toTaskResponse(*task))
}

type updateTaskRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Priority    model.TaskPriority `json:"priority" binding:"required"`
	DueDate     *time.Time         `json:"due_date"`
}

// Update edits task details: title, description, priority, due date.
// Status moves go through the workflow engine and assignees through the
// assign endpoint; neither is accepted here.
func (h *TaskHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if !policy.CanEditTaskDetails(actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to edit task details"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if !req.Priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.Priority = req.Priority
	task.DueDate = req.DueDate

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		h.center.Push(actor.ID, "Failed to update task", notify.TypeError)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	h.state.PutTasks(*task)
	c.JSON(http.StatusOK, toTaskResponse(*task))
}

type assignRequest struct {
	AssigneeIDs []string `json:"assignee_ids"`
}

// Assign replaces the task's assignee set. Admin/PM only; rejected before
// any persistence call for everyone else, Team Lead included.
func (h *TaskHandler) Assign(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if !policy.CanManageTasks(actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to change assignees"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	assigneeIDs, err := parseUUIDList(req.AssigneeIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID format"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	task.AssigneeIDs = assigneeIDs

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		h.center.Push(actor.ID, "Failed to update assignees", notify.TypeError)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update assignees"})
		return
	}

	h.state.PutTasks(*task)
	c.JSON(http.StatusOK, toTaskResponse(*task))
}

type moveRequest struct {
	Status model.TaskStatus `json:"status" binding:"required"`
}

// Move transitions a task to an arbitrary target status through the
// workflow engine. An actor the policy refuses gets the unchanged task
// back, not an error: the engine treats it as a silent no-op.
func (h *TaskHandler) Move(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	task, moved, err := h.engine.Move(c.Request.Context(), actor, taskID, req.Status)
	if err != nil {
		switch err {
		case workflow.ErrInvalidStatus:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task status"})
		case repository.ErrTaskNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": toTaskResponse(task), "moved": moved})
}

type stepRequest struct {
	Direction workflow.Direction `json:"direction" binding:"required"`
}

// Step moves a task one position along the status line; stepping past
// either end is a no-op.
func (h *TaskHandler) Step(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Direction.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid direction"})
		return
	}

	task, moved, err := h.engine.Step(c.Request.Context(), actor, taskID, req.Direction)
	if err != nil {
		switch err {
		case repository.ErrTaskNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": toTaskResponse(task), "moved": moved})
}

// Delete removes a task. Reaching the detail view is the only gate.
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), taskID); err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			h.center.Push(actor.ID, "Failed to delete task", notify.TypeError)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		}
		return
	}

	h.state.RemoveTask(taskID)
	h.center.Push(actor.ID, "Task deleted", notify.TypeSuccess)
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// AddDocument attaches a document record to the task. Task documents are
// independent of the parent project's list and carry no role gate beyond
// authentication.
func (h *TaskHandler) AddDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
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

	task, err := h.taskRepo.AddDocument(c.Request.Context(), taskID, doc)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			h.center.Push(actor.ID, "Failed to upload document", notify.TypeError)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add document"})
		}
		return
	}

	h.state.PutTasks(*task)
	c.JSON(http.StatusCreated, toTaskResponse(*task))
}

// RemoveDocument detaches a document from the task.
func (h *TaskHandler) RemoveDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}
	docID, err := uuid.Parse(c.Param("doc_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID format"})
		return
	}

	task, err := h.taskRepo.RemoveDocument(c.Request.Context(), taskID, docID)
	if err != nil {
		switch err {
		case repository.ErrTaskNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case repository.ErrDocumentNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		default:
			h.center.Push(actor.ID, "Failed to delete document", notify.TypeError)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove document"})
		}
		return
	}

	h.state.PutTasks(*task)
	c.JSON(http.StatusOK, toTaskResponse(*task))
}
