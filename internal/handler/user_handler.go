package handler

import (
	"net/http"
	"strings"

	"projecthub/internal/auth"
	"projecthub/internal/model"
	"projecthub/internal/notify"
	"projecthub/internal/policy"
	"projecthub/internal/repository"
	"projecthub/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	repo   *repository.UserRepository
	state  *state.Container
	center *notify.Center
}

func NewUserHandler(repo *repository.UserRepository, st *state.Container, center *notify.Center) *UserHandler {
	return &UserHandler{repo: repo, state: st, center: center}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login resolves the handle, verifies the password and issues the session
// credential. An unknown handle and a bad password produce the same
// response so a probe cannot tell which part was wrong.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Username = strings.ToLower(req.Username)

	user, err := h.repo.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify credentials"})
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID.String(), string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  toUserResponse(*user),
		"token": token,
	})
}

// Me restores the session user from the verified credential. A deleted
// user with a live token gets the same generic failure as a bad token.
func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(*user))
}

// List returns all users. Any authenticated role may read the roster; it
// backs the assignee picker as well as the admin page.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	h.state.PutUsers(users...)

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

type createUserRequest struct {
	Username string     `json:"username" binding:"required,min=2"`
	Name     string     `json:"name" binding:"required,min=2"`
	Email    string     `json:"email" binding:"required,email"`
	Role     model.Role `json:"role" binding:"required"`
	Avatar   string     `json:"avatar"`
	Password string     `json:"password" binding:"required,min=6"`
}

// Create adds a team member. Admin/PM only.
func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if !policy.CanManageUsers(actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to manage users"})
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	req.Username = strings.ToLower(req.Username)

	existing, err := h.repo.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check username"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &model.User{
		ID:             uuid.New(),
		Username:       req.Username,
		Name:           req.Name,
		Email:          req.Email,
		Role:           req.Role,
		Avatar:         req.Avatar,
		HashedPassword: string(hash),
	}

	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		h.center.Push(actor.ID, "Failed to create user", notify.TypeError)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	h.state.PutUsers(*user)
	h.center.Push(actor.ID, "User created successfully", notify.TypeSuccess)
	c.JSON(http.StatusCreated, toUserResponse(*user))
}

type updateUserRequest struct {
	Name   string     `json:"name" binding:"required,min=2"`
	Email  string     `json:"email" binding:"required,email"`
	Role   model.Role `json:"role" binding:"required"`
	Avatar string     `json:"avatar"`
}

// Update replaces a user's editable fields. The username is the login
// handle and stays fixed; role changes only happen through this admin path.
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if !policy.CanManageUsers(actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to manage users"})
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = req.Role
	user.Avatar = req.Avatar

	if err := h.repo.Update(c.Request.Context(), user); err != nil {
		h.center.Push(actor.ID, "Failed to update user", notify.TypeError)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	h.state.PutUsers(*user)
	c.JSON(http.StatusOK, toUserResponse(*user))
}

// Delete removes a user. The seed admin account is protected by policy;
// references from projects and tasks are left dangling by design.
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if !policy.CanDeleteUser(actor, user.Username) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this user"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), userID); err != nil {
		h.center.Push(actor.ID, "Failed to delete user", notify.TypeError)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	h.state.RemoveUser(userID)
	h.center.Push(actor.ID, "User deleted", notify.TypeSuccess)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
