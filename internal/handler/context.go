package handler

import (
	"projecthub/internal/middleware"
	"projecthub/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentActor rebuilds the acting user from the verified token claims.
// Only the id and role are populated; handlers that need the full record
// load it from the store.
func currentActor(c *gin.Context) (*model.User, bool) {
	idVal, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return nil, false
	}
	id, ok := idVal.(uuid.UUID)
	if !ok {
		return nil, false
	}

	roleVal, exists := c.Get(middleware.UserRoleKey)
	if !exists {
		return nil, false
	}
	role, ok := roleVal.(model.Role)
	if !ok {
		return nil, false
	}

	return &model.User{ID: id, Role: role}, true
}
