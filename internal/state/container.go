// Package state holds the application's working copies of the three
// collections. The workflow engine mutates tasks here optimistically and
// restores a snapshot when persistence fails; the dashboard derives its
// views from whatever was last loaded. The container is process-wide and
// guarded by a lock because gin serves requests concurrently.
package state

import (
	"sync"

	"projecthub/internal/model"

	"github.com/google/uuid"
)

type Container struct {
	mu       sync.RWMutex
	users    []model.User
	projects []model.Project
	tasks    []model.Task
}

func NewContainer() *Container {
	return &Container{}
}

// Reset replaces all three collections, called after a full load from the
// store.
func (c *Container) Reset(users []model.User, projects []model.Project, tasks []model.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = cloneUsers(users)
	c.projects = cloneProjects(projects)
	c.tasks = cloneTasks(tasks)
}

// Clear drops everything, the teardown counterpart of Reset.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = nil
	c.projects = nil
	c.tasks = nil
}

func (c *Container) Users() []model.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneUsers(c.users)
}

func (c *Container) Projects() []model.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneProjects(c.projects)
}

func (c *Container) Tasks() []model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneTasks(c.tasks)
}

func (c *Container) TaskByID(id uuid.UUID) (model.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return cloneTask(t), true
		}
	}
	return model.Task{}, false
}

// SnapshotTasks captures the full task collection so a failed persist can
// be rolled back exactly, not recomputed.
func (c *Container) SnapshotTasks() []model.Task {
	return c.Tasks()
}

// RestoreTasks puts back a snapshot taken before an optimistic mutation.
func (c *Container) RestoreTasks(snapshot []model.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = cloneTasks(snapshot)
}

// PutTasks upserts tasks into the working set, keyed by id.
func (c *Container) PutTasks(tasks ...model.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tasks {
		c.putTaskLocked(t)
	}
}

func (c *Container) putTaskLocked(t model.Task) {
	for i := range c.tasks {
		if c.tasks[i].ID == t.ID {
			c.tasks[i] = cloneTask(t)
			return
		}
	}
	c.tasks = append(c.tasks, cloneTask(t))
}

func (c *Container) RemoveTask(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return
		}
	}
}

func (c *Container) PutProjects(projects ...model.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range projects {
		c.putProjectLocked(p)
	}
}

func (c *Container) putProjectLocked(p model.Project) {
	for i := range c.projects {
		if c.projects[i].ID == p.ID {
			c.projects[i] = cloneProject(p)
			return
		}
	}
	c.projects = append(c.projects, cloneProject(p))
}

func (c *Container) RemoveProject(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.projects {
		if c.projects[i].ID == id {
			c.projects = append(c.projects[:i], c.projects[i+1:]...)
			return
		}
	}
}

func (c *Container) PutUsers(users ...model.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range users {
		c.putUserLocked(u)
	}
}

func (c *Container) putUserLocked(u model.User) {
	for i := range c.users {
		if c.users[i].ID == u.ID {
			c.users[i] = u
			return
		}
	}
	c.users = append(c.users, u)
}

func (c *Container) RemoveUser(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.users {
		if c.users[i].ID == id {
			c.users = append(c.users[:i], c.users[i+1:]...)
			return
		}
	}
}

// Clones copy the embedded slices too so a snapshot cannot be mutated
// through a shared backing array.

func cloneTask(t model.Task) model.Task {
	out := t
	out.AssigneeIDs = append(model.UUIDList(nil), t.AssigneeIDs...)
	out.Documents = append(model.DocumentList(nil), t.Documents...)
	return out
}

func cloneTasks(tasks []model.Task) []model.Task {
	if tasks == nil {
		return nil
	}
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = cloneTask(t)
	}
	return out
}

func cloneProject(p model.Project) model.Project {
	out := p
	out.TeamIDs = append(model.UUIDList(nil), p.TeamIDs...)
	out.Documents = append(model.DocumentList(nil), p.Documents...)
	return out
}

func cloneProjects(projects []model.Project) []model.Project {
	if projects == nil {
		return nil
	}
	out := make([]model.Project, len(projects))
	for i, p := range projects {
		out[i] = cloneProject(p)
	}
	return out
}

func cloneUsers(users []model.User) []model.User {
	if users == nil {
		return nil
	}
	return append([]model.User(nil), users...)
}
