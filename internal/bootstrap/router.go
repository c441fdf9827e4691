package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/tasktracker-app/tasktracker-backend/config"
	httpapi "github.com/tasktracker-app/tasktracker-backend/internal/api/http"
	"github.com/tasktracker-app/tasktracker-backend/internal/auth"
	"github.com/tasktracker-app/tasktracker-backend/internal/dashboard"
	"github.com/tasktracker-app/tasktracker-backend/internal/projects"
	"github.com/tasktracker-app/tasktracker-backend/internal/tasks"
	"github.com/tasktracker-app/tasktracker-backend/internal/users"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Cfg         *config.Config
}

// BuildRouter is the composition root: repositories, hasher, token service
// and handlers are built here and injected by explicit reference passing.
func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(httpapi.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.Cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	userRepo := users.NewRepo(dep.DB)
	projectRepo := projects.NewRepo(dep.DB)
	taskRepo := tasks.NewRepo(dep.DB)

	hasher := auth.NewHasher(dep.Cfg.Auth.HashScheme)
	tokens := auth.NewTokenService(dep.Cfg.JWT)
	requireAuth := auth.RequireAuth(tokens)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(httpapi.RateLimit(rate.Every(time.Second), 10))
	auth.Register(authGroup, userRepo, hasher, tokens)

	projects.Register(api.Group("/projects"), projectRepo, requireAuth)
	tasks.Register(api.Group("/tasks"), taskRepo, projectRepo, requireAuth)

	statsService := dashboard.NewService(dashboard.NewRepo(dep.DB), dep.Redis, 0)
	dashboard.Register(api.Group("/dashboard"), statsService)

	return r
}
