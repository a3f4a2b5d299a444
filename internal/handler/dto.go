package handler

import (
	"time"

	"projecthub/internal/model"
)

// UserResponse is the wire shape of a user, password hash excluded. The
// badge comes from the exhaustive role descriptor table.
type UserResponse struct {
	ID       string           `json:"id"`
	Username string           `json:"username"`
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Role     model.Role       `json:"role"`
	Avatar   string           `json:"avatar,omitempty"`
	Badge    model.Descriptor `json:"badge"`
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Avatar:   u.Avatar,
		Badge:    model.RoleMeta[u.Role],
	}
}

type ProjectResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Status      model.ProjectStatus `json:"status"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	ManagerID   string              `json:"manager_id"`
	TeamIDs     []string            `json:"team_ids"`
	Documents   []model.Document    `json:"documents"`
}

func toProjectResponse(p model.Project) ProjectResponse {
	teamIDs := make([]string, 0, len(p.TeamIDs))
	for _, id := range p.TeamIDs {
		teamIDs = append(teamIDs, id.String())
	}
	docs := p.Documents
	if docs == nil {
		docs = model.DocumentList{}
	}
	return ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		ManagerID:   p.ManagerID.String(),
		TeamIDs:     teamIDs,
		Documents:   docs,
	}
}

type TaskResponse struct {
	ID          string             `json:"id"`
	ProjectID   string             `json:"project_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      model.TaskStatus   `json:"status"`
	Priority    model.TaskPriority `json:"priority"`
	AssigneeIDs []string           `json:"assignee_ids"`
	ReporterID  string             `json:"reporter_id"`
	DueDate     *string            `json:"due_date,omitempty"`
	Documents   []model.Document   `json:"documents"`
}

func toTaskResponse(t model.Task) TaskResponse {
	assignees := make([]string, 0, len(t.AssigneeIDs))
	for _, id := range t.AssigneeIDs {
		assignees = append(assignees, id.String())
	}
	docs := t.Documents
	if docs == nil {
		docs = model.DocumentList{}
	}
	resp := TaskResponse{
		ID:          t.ID.String(),
		ProjectID:   t.ProjectID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		AssigneeIDs: assignees,
		ReporterID:  t.ReporterID.String(),
		Documents:   docs,
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(time.RFC3339)
		resp.DueDate = &due
	}
	return resp
}
