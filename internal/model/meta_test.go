package model_test

import (
	"testing"

	"projecthub/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestDescriptorTablesAreExhaustive(t *testing.T) {
	for _, s := range []model.TaskStatus{model.StatusTodo, model.StatusInProgress, model.StatusReview, model.StatusDone} {
		d, ok := model.StatusMeta[s]
		assert.True(t, ok, "status %s", s)
		assert.NotEmpty(t, d.Label)
		assert.NotEmpty(t, d.Color)
	}
	for _, r := range []model.Role{model.RoleAdmin, model.RoleProjectManager, model.RoleTeamLead, model.RoleDeveloper, model.RoleTester} {
		d, ok := model.RoleMeta[r]
		assert.True(t, ok, "role %s", r)
		assert.NotEmpty(t, d.Label)
		assert.NotEmpty(t, d.Color)
	}
	for _, p := range []model.TaskPriority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityCritical} {
		d, ok := model.PriorityMeta[p]
		assert.True(t, ok, "priority %s", p)
		assert.NotEmpty(t, d.Label)
		assert.NotEmpty(t, d.Color)
	}
}
