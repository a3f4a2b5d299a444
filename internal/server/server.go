package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"projecthub/internal/config"
	"projecthub/internal/handler"
	"projecthub/internal/middleware"
	"projecthub/internal/model"
	"projecthub/internal/notify"
	"projecthub/internal/repository"
	"projecthub/internal/state"
	"projecthub/internal/suggest"
	"projecthub/internal/workflow"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	State  *state.Container
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate schema: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	if err := seedAdmin(userRepo, cfg); err != nil {
		return nil, fmt.Errorf("❌ failed to seed admin account: %w", err)
	}

	// Application state, notifications, workflow engine
	container := state.NewContainer()
	if err := loadState(container, userRepo, projectRepo, taskRepo); err != nil {
		return nil, fmt.Errorf("❌ failed to load application state: %w", err)
	}
	center := notify.NewCenter(notify.DefaultTTL)
	engine := workflow.NewEngine(taskRepo, container, center)
	suggester := suggest.NewService(cfg.GeminiAPIKey)

	// Setup Gin
	r := gin.Default()

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, container, center)
	projectHandler := handler.NewProjectHandler(projectRepo, taskRepo, userRepo, container, center, suggester)
	taskHandler := handler.NewTaskHandler(taskRepo, projectRepo, engine, container, center)
	dashboardHandler := handler.NewDashboardHandler(userRepo, projectRepo, taskRepo, container, center)
	notificationHandler := handler.NewNotificationHandler(center)

	// Public routes
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.GET("/me", userHandler.Me)
		authorized.POST("/logout", notificationHandler.Logout)

		// User routes
		authorized.GET("/users", userHandler.List)
		authorized.POST("/users", userHandler.Create)
		authorized.PUT("/users/:id", userHandler.Update)
		authorized.DELETE("/users/:id", userHandler.Delete)

		// Project routes
		authorized.GET("/projects", projectHandler.List)
		authorized.POST("/projects", projectHandler.Create)
		authorized.GET("/projects/:id", projectHandler.GetByID)
		authorized.PUT("/projects/:id", projectHandler.Update)
		authorized.DELETE("/projects/:id", projectHandler.Delete)
		authorized.POST("/projects/:id/documents", projectHandler.AddDocument)
		authorized.DELETE("/projects/:id/documents/:doc_id", projectHandler.RemoveDocument)
		authorized.GET("/projects/:id/tasks", taskHandler.ListByProject)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/move", taskHandler.Move)
		authorized.POST("/tasks/:id/step", taskHandler.Step)
		authorized.POST("/tasks/:id/assignees", taskHandler.Assign)
		authorized.POST("/tasks/:id/documents", taskHandler.AddDocument)
		authorized.DELETE("/tasks/:id/documents/:doc_id", taskHandler.RemoveDocument)

		// Dashboard and notifications
		authorized.GET("/dashboard", dashboardHandler.Get)
		authorized.GET("/notifications", notificationHandler.List)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		State:  container,
	}, nil
}

func migrate(db *gorm.DB) error {
	// uuid_generate_v4 needs the extension before the first table lands
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	entities := []interface{}{
		&model.User{},
		&model.Project{},
		&model.Task{},
	}
	migrator := db.Migrator()
	for _, entity := range entities {
		if !migrator.HasTable(entity) {
			if err := db.AutoMigrate(entity); err != nil {
				return err
			}
		}
	}
	return nil
}

// seedAdmin ensures the reserved admin account exists. Policy prevents its
// deletion, so first run is the only time this inserts anything.
func seedAdmin(userRepo *repository.UserRepository, cfg *config.Config) error {
	existing, err := userRepo.FindByUsername(context.Background(), model.SeedAdminUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:       model.SeedAdminUsername,
		Name:           "System Administrator",
		Email:          cfg.AdminEmail,
		Role:           model.RoleAdmin,
		HashedPassword: string(hash),
	}
	if err := userRepo.Create(context.Background(), admin); err != nil {
		return err
	}
	log.Println("✅ Seeded admin account")
	return nil
}

func loadState(
	container *state.Container,
	userRepo *repository.UserRepository,
	projectRepo *repository.ProjectRepository,
	taskRepo *repository.TaskRepository,
) error {
	ctx := context.Background()
	users, err := userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	projects, err := projectRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	tasks, err := taskRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	container.Reset(users, projects, tasks)
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	s.State.Clear()
	log.Println("✅ Server exited properly")
}
