package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/college-admin-api/api/swagger"
	"github.com/noah-isme/college-admin-api/internal/handler"
	"github.com/noah-isme/college-admin-api/internal/middleware"
	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/repository"
	"github.com/noah-isme/college-admin-api/internal/service"
	"github.com/noah-isme/college-admin-api/pkg/cache"
	"github.com/noah-isme/college-admin-api/pkg/config"
	"github.com/noah-isme/college-admin-api/pkg/database"
	"github.com/noah-isme/college-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/college-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/college-admin-api/pkg/middleware/requestid"
)

// @title College Admin API
// @version 1.0.0
// @description Course catalog, faculty and class roster administration
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			repo := repository.NewCacheRepository(redisClient, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cacheRepo != nil)

	validate := validator.New()

	departmentRepo := repository.NewDepartmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	allocationRepo := repository.NewCourseAllocationRepository(db)

	authSvc := service.NewAuthService(facultyRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	departmentSvc := service.NewDepartmentService(departmentRepo, cacheSvc, logr)
	courseSvc := service.NewCourseService(courseRepo, departmentRepo, cacheSvc, metrics, validate, logr)
	facultySvc := service.NewFacultyService(facultyRepo, departmentRepo, validate, logr, cfg.Faculty.DefaultLimit)
	classSvc := service.NewClassService(classRepo, studentRepo, metrics, logr)
	allocationSvc := service.NewCourseAllocationService(allocationRepo, courseRepo, facultyRepo, classRepo, metrics, validate, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics, db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), routeHandlers{
		auth:        handler.NewAuthHandler(authSvc),
		departments: handler.NewDepartmentHandler(departmentSvc),
		courses:     handler.NewCourseHandler(courseSvc),
		faculty:     handler.NewFacultyHandler(facultySvc),
		classes:     handler.NewClassHandler(classSvc),
		allocations: handler.NewCourseAllocationHandler(allocationSvc),
	}, authSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "cache", cacheSvc.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

type routeHandlers struct {
	auth        *handler.AuthHandler
	departments *handler.DepartmentHandler
	courses     *handler.CourseHandler
	faculty     *handler.FacultyHandler
	classes     *handler.ClassHandler
	allocations *handler.CourseAllocationHandler
}

func registerRoutes(api *gin.RouterGroup, h routeHandlers, tokens middleware.TokenValidator) {
	api.POST("/auth/login", h.auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens), middleware.WithResponseMeta())
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	secured.GET("/auth/me", h.auth.Me)
	secured.GET("/departments", h.departments.List)

	courses := secured.Group("/courses")
	courses.GET("", h.courses.List)
	courses.GET("/:id", h.courses.Get)
	courses.POST("", adminOnly, h.courses.Create)
	courses.PUT("/:id", adminOnly, h.courses.Update)
	courses.DELETE("/:id", adminOnly, h.courses.Delete)

	faculty := secured.Group("/faculty")
	faculty.GET("", h.faculty.List)
	faculty.GET("/:id", h.faculty.Get)
	faculty.POST("", adminOnly, h.faculty.Create)
	faculty.PUT("/:id", adminOnly, h.faculty.Update)
	faculty.DELETE("/:id", adminOnly, h.faculty.Delete)

	allocations := secured.Group("/course-allocations")
	allocations.GET("", h.allocations.List)
	allocations.POST("", adminOnly, h.allocations.Create)
	allocations.DELETE("/:id", adminOnly, h.allocations.Delete)

	classes := secured.Group("/classes")
	classes.GET("", h.classes.List)
	classes.GET("/:id/students", h.classes.Students)
	classes.GET("/:id/students/export", h.classes.Export)
}
