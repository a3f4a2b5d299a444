package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"projecthub/internal/handler"
	"projecthub/internal/middleware"
	"projecthub/internal/model"
	"projecthub/internal/notify"
	"projecthub/internal/repository"
	"projecthub/internal/state"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

// actAs injects verified token claims the way the auth middleware does.
func actAs(id uuid.UUID, role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, id)
		c.Set(middleware.UserRoleKey, role)
		c.Next()
	}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	raw, err := json.Marshal(v)
	assert.NoError(t, err)
	return bytes.NewBuffer(raw)
}

func newUserRouter(t *testing.T, actorID uuid.UUID, role model.Role) (*gin.Engine, sqlmock.Sqlmock, *state.Container, *notify.Center) {
	gin.SetMode(gin.TestMode)
	gormDB, mock := setupMockDB(t)

	container := state.NewContainer()
	center := notify.NewCenter(notify.DefaultTTL)
	h := handler.NewUserHandler(repository.NewUserRepository(gormDB), container, center)

	r := gin.New()
	r.POST("/login", h.Login)
	authorized := r.Group("/", actAs(actorID, role))
	authorized.POST("/users", h.Create)
	authorized.DELETE("/users/:id", h.Delete)

	return r, mock, container, center
}

func TestUserHandler_Create_ForbiddenForTeamLead(t *testing.T) {
	router, mock, container, _ := newUserRouter(t, uuid.New(), model.RoleTeamLead)

	body := jsonBody(t, gin.H{
		"username": "newdev",
		"name":     "New Dev",
		"email":    "newdev@example.com",
		"role":     "DEVELOPER",
		"password": "secret123",
	})

	req, _ := http.NewRequest("POST", "/users", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// The gate fires before any persistence call.
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, container.Users())
}

func TestUserHandler_Create_AdminCreatesDeveloper(t *testing.T) {
	adminID := uuid.New()
	router, mock, container, center := newUserRouter(t, adminID, model.RoleAdmin)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE username = .* LIMIT 1`).
		WithArgs("newdev").
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	body := jsonBody(t, gin.H{
		"username": "NewDev",
		"name":     "New Dev",
		"email":    "newdev@example.com",
		"role":     "DEVELOPER",
		"password": "secret123",
	})

	req, _ := http.NewRequest("POST", "/users", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)
	// Handles are stored lowercase regardless of the submitted casing.
	assert.Contains(t, resp.Body.String(), `"newdev"`)
	assert.NoError(t, mock.ExpectationsWereMet())

	users := container.Users()
	assert.Len(t, users, 1)
	assert.Equal(t, model.RoleDeveloper, users[0].Role)

	messages := center.Active(adminID)
	assert.Len(t, messages, 1)
	assert.Equal(t, notify.TypeSuccess, messages[0].Type)
}

func TestUserHandler_Login(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-key")
	router, mock, _, _ := newUserRouter(t, uuid.New(), model.RoleAdmin)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	assert.NoError(t, err)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE username = .* LIMIT 1`).
		WithArgs("dev1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "name", "email", "role", "avatar", "hashed_password", "created_at"}).
			AddRow(userID.String(), "dev1", "Dev One", "dev1@example.com", "DEVELOPER", "", string(hash), time.Now()))

	body := jsonBody(t, gin.H{"username": "dev1", "password": "correct-horse"})
	req, _ := http.NewRequest("POST", "/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"token"`)
	assert.Contains(t, resp.Body.String(), userID.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_Login_BadPassword(t *testing.T) {
	router, mock, _, _ := newUserRouter(t, uuid.New(), model.RoleAdmin)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE username = .* LIMIT 1`).
		WithArgs("dev1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "name", "email", "role", "avatar", "hashed_password", "created_at"}).
			AddRow(uuid.New().String(), "dev1", "Dev One", "dev1@example.com", "DEVELOPER", "", string(hash), time.Now()))

	body := jsonBody(t, gin.H{"username": "dev1", "password": "wrong"})
	req, _ := http.NewRequest("POST", "/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_Login_UnknownUserSameResponse(t *testing.T) {
	router, mock, _, _ := newUserRouter(t, uuid.New(), model.RoleAdmin)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE username = .* LIMIT 1`).
		WithArgs("ghost").
		WillReturnError(gorm.ErrRecordNotFound)

	body := jsonBody(t, gin.H{"username": "ghost", "password": "whatever"})
	req, _ := http.NewRequest("POST", "/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Indistinguishable from a bad password.
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_Delete_SeedAdminRefused(t *testing.T) {
	router, mock, container, _ := newUserRouter(t, uuid.New(), model.RoleAdmin)

	targetID := uuid.New()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .* LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "name", "email", "role", "avatar", "hashed_password", "created_at"}).
			AddRow(targetID.String(), model.SeedAdminUsername, "System Administrator", "admin@example.com", "ADMIN", "", "hash", time.Now()))

	req, _ := http.NewRequest("DELETE", "/users/"+targetID.String(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// No DELETE statement was expected; the policy refuses first.
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, container.Users())
}
