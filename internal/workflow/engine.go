package workflow

import (
	"context"
	"errors"
	"log"

	"projecthub/internal/model"
	"projecthub/internal/notify"
	"projecthub/internal/policy"
	"projecthub/internal/state"

	"github.com/google/uuid"
)

// ErrInvalidStatus is returned for a transition to a status outside the
// four-state line.
var ErrInvalidStatus = errors.New("invalid task status")

// TaskStore is the slice of the entity store the engine needs.
type TaskStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
}

// Engine executes status transitions: policy re-check, optimistic apply
// to the state container, persist, snapshot rollback on failure.
type Engine struct {
	tasks  TaskStore
	state  *state.Container
	center *notify.Center
}

func NewEngine(tasks TaskStore, st *state.Container, center *notify.Center) *Engine {
	return &Engine{tasks: tasks, state: st, center: center}
}

// Move transitions a task to target. Unauthorized actors are refused as a
// silent no-op: the task comes back unchanged and moved is false, with no
// error. Persistence failures revert the in-memory state to the snapshot
// taken before the optimistic apply and are returned to the caller.
func (e *Engine) Move(ctx context.Context, actor *model.User, taskID uuid.UUID, target model.TaskStatus) (model.Task, bool, error) {
	if !target.Valid() {
		return model.Task{}, false, ErrInvalidStatus
	}

	task, err := e.currentTask(ctx, taskID)
	if err != nil {
		return model.Task{}, false, err
	}

	if !policy.CanMoveTask(actor, task) {
		log.Printf("⚠️  Refused status change on task %s: actor not permitted", taskID)
		return task, false, nil
	}

	if task.Status == target {
		return task, false, nil
	}

	snapshot := e.state.SnapshotTasks()

	updated := task
	updated.Status = target
	e.state.PutTasks(updated)

	if err := e.tasks.Update(ctx, &updated); err != nil {
		e.state.RestoreTasks(snapshot)
		if e.center != nil && actor != nil {
			e.center.Push(actor.ID, "Failed to update task status", notify.TypeError)
		}
		return task, false, err
	}

	return updated, true, nil
}

// Step moves a task one position along the status line. Stepping backward
// from TODO or forward from DONE is a no-op.
func (e *Engine) Step(ctx context.Context, actor *model.User, taskID uuid.UUID, dir Direction) (model.Task, bool, error) {
	task, err := e.currentTask(ctx, taskID)
	if err != nil {
		return model.Task{}, false, err
	}

	var target model.TaskStatus
	switch dir {
	case DirectionForward:
		target = NextStatus(task.Status)
	case DirectionBackward:
		target = PrevStatus(task.Status)
	default:
		return model.Task{}, false, ErrInvalidStatus
	}

	if target == task.Status {
		return task, false, nil
	}
	return e.Move(ctx, actor, taskID, target)
}

// currentTask prefers the in-memory working copy and falls back to the
// store, caching what it finds.
func (e *Engine) currentTask(ctx context.Context, taskID uuid.UUID) (model.Task, error) {
	if task, ok := e.state.TaskByID(taskID); ok {
		return task, nil
	}
	stored, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}
	e.state.PutTasks(*stored)
	return *stored, nil
}
