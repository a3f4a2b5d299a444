package workflow

import "projecthub/internal/model"

// StatusOrder is the linear progression tasks move along. It constrains
// the step helpers and display ordering only; direct moves may target any
// of the four states.
var StatusOrder = []model.TaskStatus{
	model.StatusTodo,
	model.StatusInProgress,
	model.StatusReview,
	model.StatusDone,
}

type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

func (d Direction) Valid() bool {
	return d == DirectionForward || d == DirectionBackward
}

func statusIndex(s model.TaskStatus) int {
	for i, v := range StatusOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// NextStatus returns the status one step forward, clamped at DONE.
func NextStatus(s model.TaskStatus) model.TaskStatus {
	i := statusIndex(s)
	if i < 0 || i >= len(StatusOrder)-1 {
		return s
	}
	return StatusOrder[i+1]
}

// PrevStatus returns the status one step backward, clamped at TODO.
func PrevStatus(s model.TaskStatus) model.TaskStatus {
	i := statusIndex(s)
	if i <= 0 {
		return s
	}
	return StatusOrder[i-1]
}
