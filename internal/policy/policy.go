// Package policy holds the pure permission predicates. Handlers gate
// requests with these, and the workflow engine re-checks before executing:
// UI affordances are not a trust boundary.
//
// Status-movement rights are deliberately wider (supervisors plus the
// owning worker) than assignment and detail-edit rights (supervisors
// only): a manager scopes the work, any holder of the work can progress it.
package policy

import "projecthub/internal/model"

// CanMoveTask reports whether the actor may change a task's status.
// Admin, PM and Team Lead can move any task; everyone else only tasks
// they are assigned to. A nil actor is an unauthenticated session.
func CanMoveTask(actor *model.User, task model.Task) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case model.RoleAdmin, model.RoleProjectManager, model.RoleTeamLead:
		return true
	}
	return task.AssigneeIDs.Contains(actor.ID)
}

// CanManageTasks covers task creation and assignee changes. Team Lead is
// excluded: supervisory move rights do not include re-scoping work.
func CanManageTasks(actor *model.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == model.RoleAdmin || actor.Role == model.RoleProjectManager
}

// CanEditTaskDetails covers title, description, priority and due date.
func CanEditTaskDetails(actor *model.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == model.RoleAdmin || actor.Role == model.RoleProjectManager
}

func CanManageUsers(actor *model.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == model.RoleAdmin || actor.Role == model.RoleProjectManager
}

// CanDeleteUser additionally protects the seed admin account.
func CanDeleteUser(actor *model.User, targetUsername string) bool {
	return CanManageUsers(actor) && targetUsername != model.SeedAdminUsername
}

func CanCreateProject(actor *model.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == model.RoleAdmin || actor.Role == model.RoleProjectManager
}

// CanUploadProjectDocuments is wider than CanDeleteProjectDocuments:
// Team Lead may add material but not remove it.
func CanUploadProjectDocuments(actor *model.User) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case model.RoleAdmin, model.RoleProjectManager, model.RoleTeamLead:
		return true
	}
	return false
}

func CanDeleteProjectDocuments(actor *model.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == model.RoleAdmin || actor.Role == model.RoleProjectManager
}
