package handler

import (
	"fmt"
	"net/http"
	"time"

	"projecthub/internal/model"
	"projecthub/internal/notify"
	"projecthub/internal/report"
	"projecthub/internal/repository"
	"projecthub/internal/state"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	userRepo    *repository.UserRepository
	projectRepo *repository.ProjectRepository
	taskRepo    *repository.TaskRepository
	state       *state.Container
	center      *notify.Center
}

func NewDashboardHandler(
	userRepo *repository.UserRepository,
	projectRepo *repository.ProjectRepository,
	taskRepo *repository.TaskRepository,
	st *state.Container,
	center *notify.Center,
) *DashboardHandler {
	return &DashboardHandler{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		state:       st,
		center:      center,
	}
}

type statusCountEntry struct {
	Status model.TaskStatus `json:"status"`
	Label  string           `json:"label"`
	Color  string           `json:"color"`
	Count  int              `json:"count"`
}

// Get reloads the three collections, recomputes every derived view and
// classifies the caller's due dates. Nothing is cached between calls; the
// views are pure functions of what the store returned.
func (h *DashboardHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx := c.Request.Context()
	users, err := h.userRepo.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard data"})
		return
	}
	projects, err := h.projectRepo.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard data"})
		return
	}
	tasks, err := h.taskRepo.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard data"})
		return
	}

	h.state.Reset(users, projects, tasks)

	counts := report.StatusCounts(tasks)
	countEntries := make([]statusCountEntry, 0, len(model.StatusMeta))
	for _, s := range []model.TaskStatus{model.StatusTodo, model.StatusInProgress, model.StatusReview, model.StatusDone} {
		meta := model.StatusMeta[s]
		countEntries = append(countEntries, statusCountEntry{
			Status: s,
			Label:  meta.Label,
			Color:  meta.Color,
			Count:  counts[s],
		})
	}

	notices := report.DueNotices(actor, tasks, time.Now())
	for _, n := range notices {
		switch n.Class {
		case report.NoticeError:
			h.center.Push(actor.ID, fmt.Sprintf("Task %q is overdue!", n.Title), notify.TypeError)
		case report.NoticeWarning:
			h.center.Push(actor.ID, fmt.Sprintf("Task %q is due soon (in %d days)!", n.Title, n.DaysLeft), notify.TypeWarning)
		}
	}
	if notices == nil {
		notices = []report.DueNotice{}
	}

	c.JSON(http.StatusOK, gin.H{
		"status_counts":    countEntries,
		"project_progress": report.ProjectProgressAll(projects, tasks),
		"workloads":        report.Workloads(users, tasks),
		"due_notices":      notices,
	})
}
