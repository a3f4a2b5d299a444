// Package report derives dashboard statistics. Every function is a pure
// scan over already-loaded collections; nothing here holds state and
// everything is recomputed per request.
package report

import (
	"math"
	"time"

	"projecthub/internal/model"

	"github.com/google/uuid"
)

// overloadThreshold flags a user with more than this many in-progress
// tasks. A documented heuristic, not configuration.
const overloadThreshold = 3

// StatusCounts tallies tasks per status. All four statuses are always
// present in the result.
func StatusCounts(tasks []model.Task) map[model.TaskStatus]int {
	counts := map[model.TaskStatus]int{
		model.StatusTodo:       0,
		model.StatusInProgress: 0,
		model.StatusReview:     0,
		model.StatusDone:       0,
	}
	for _, t := range tasks {
		if _, ok := counts[t.Status]; ok {
			counts[t.Status]++
		}
	}
	return counts
}

type ProjectProgress struct {
	ProjectID  uuid.UUID `json:"project_id"`
	Name       string    `json:"name"`
	Progress   int       `json:"progress"`
	TotalTasks int       `json:"total_tasks"`
}

// ProjectProgressAll reports per-project completion as a rounded 0-100
// percentage. A project with no tasks is 0% complete, not a division fault.
func ProjectProgressAll(projects []model.Project, tasks []model.Task) []ProjectProgress {
	out := make([]ProjectProgress, 0, len(projects))
	for _, p := range projects {
		total, done := 0, 0
		for _, t := range tasks {
			if t.ProjectID != p.ID {
				continue
			}
			total++
			if t.Status == model.StatusDone {
				done++
			}
		}
		out = append(out, ProjectProgress{
			ProjectID:  p.ID,
			Name:       p.Name,
			Progress:   percent(done, total),
			TotalTasks: total,
		})
	}
	return out
}

type Workload struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Role       model.Role `json:"role"`
	Total      int       `json:"total"`
	Todo       int       `json:"todo"`
	InProgress int       `json:"in_progress"`
	Review     int       `json:"review"`
	Done       int       `json:"done"`
	Completion int       `json:"completion"`
	Overloaded bool      `json:"overloaded"`
}

// UserWorkload breaks down one user's assigned tasks by status.
func UserWorkload(user model.User, tasks []model.Task) Workload {
	w := Workload{UserID: user.ID, Name: user.Name, Role: user.Role}
	for _, t := range tasks {
		if !t.AssigneeIDs.Contains(user.ID) {
			continue
		}
		w.Total++
		switch t.Status {
		case model.StatusTodo:
			w.Todo++
		case model.StatusInProgress:
			w.InProgress++
		case model.StatusReview:
			w.Review++
		case model.StatusDone:
			w.Done++
		}
	}
	w.Completion = percent(w.Done, w.Total)
	w.Overloaded = w.InProgress > overloadThreshold
	return w
}

func Workloads(users []model.User, tasks []model.Task) []Workload {
	out := make([]Workload, 0, len(users))
	for _, u := range users {
		out = append(out, UserWorkload(u, tasks))
	}
	return out
}

type NoticeClass string

const (
	NoticeWarning NoticeClass = "warning"
	NoticeError   NoticeClass = "error"
)

type DueNotice struct {
	TaskID   uuid.UUID   `json:"task_id"`
	Title    string      `json:"title"`
	Class    NoticeClass `json:"class"`
	DaysLeft int         `json:"days_left"`
}

// DueNotices classifies the signed-in user's incomplete assigned tasks
// against their due dates: 0-2 days remaining is a warning, overdue is an
// error. Admins and tasks without a due date are skipped. Called once per
// dashboard load, not continuously.
func DueNotices(user *model.User, tasks []model.Task, now time.Time) []DueNotice {
	if user == nil || user.Role == model.RoleAdmin {
		return nil
	}
	var out []DueNotice
	for _, t := range tasks {
		if t.Status == model.StatusDone || t.DueDate == nil || !t.AssigneeIDs.Contains(user.ID) {
			continue
		}
		days := int(math.Ceil(t.DueDate.Sub(now).Hours() / 24))
		switch {
		case days < 0:
			out = append(out, DueNotice{TaskID: t.ID, Title: t.Title, Class: NoticeError, DaysLeft: days})
		case days <= 2:
			out = append(out, DueNotice{TaskID: t.ID, Title: t.Title, Class: NoticeWarning, DaysLeft: days})
		}
	}
	return out
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
