package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authhandler "github.com/worklog/worklog-backend/internal/auth/handler"
	"github.com/worklog/worklog-backend/internal/auth/jwt"
	authrepo "github.com/worklog/worklog-backend/internal/auth/repository"
	authservice "github.com/worklog/worklog-backend/internal/auth/service"
	identityevents "github.com/worklog/worklog-backend/internal/identity/events"
	identityhandler "github.com/worklog/worklog-backend/internal/identity/handler"
	identityrepo "github.com/worklog/worklog-backend/internal/identity/repository"
	identityservice "github.com/worklog/worklog-backend/internal/identity/service"
	projectevents "github.com/worklog/worklog-backend/internal/project/events"
	projecthandler "github.com/worklog/worklog-backend/internal/project/handler"
	projectrepo "github.com/worklog/worklog-backend/internal/project/repository"
	projectservice "github.com/worklog/worklog-backend/internal/project/service"
	reportevents "github.com/worklog/worklog-backend/internal/report/events"
	reporthandler "github.com/worklog/worklog-backend/internal/report/handler"
	"github.com/worklog/worklog-backend/internal/report/render"
	reportservice "github.com/worklog/worklog-backend/internal/report/service"
	timesheetevents "github.com/worklog/worklog-backend/internal/timesheet/events"
	timesheethandler "github.com/worklog/worklog-backend/internal/timesheet/handler"
	timesheetrepo "github.com/worklog/worklog-backend/internal/timesheet/repository"
	timesheetservice "github.com/worklog/worklog-backend/internal/timesheet/service"
	"github.com/worklog/worklog-backend/pkg/config"
	"github.com/worklog/worklog-backend/pkg/database"
	"github.com/worklog/worklog-backend/pkg/httputil"
	"github.com/worklog/worklog-backend/pkg/logger"
	"github.com/worklog/worklog-backend/pkg/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation("server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("worklog-backend", cfg.Server.Environment)
	log.Info().Msg("starting worklog backend")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Event publishers
	identityPublisher, err := identityevents.NewIdentityEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create identity event publisher")
	}
	projectPublisher, err := projectevents.NewProjectEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create project event publisher")
	}
	entryPublisher, err := timesheetevents.NewEntryEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create entry event publisher")
	}
	reportPublisher, err := reportevents.NewReportEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create report event publisher")
	}

	// Repositories
	profileRepo := identityrepo.NewProfileRepository(db)
	departmentRepo := identityrepo.NewDepartmentRepository(db)
	sessionRepo := authrepo.NewSessionRepository(db)
	projectRepo := projectrepo.NewProjectRepository(db)
	entryRepo := timesheetrepo.NewEntryRepository(db)

	// Services
	jwtManager := jwt.NewManager(&cfg.JWT)
	authService := authservice.NewAuthService(sessionRepo, profileRepo, jwtManager, log)
	identityService := identityservice.NewIdentityService(profileRepo, departmentRepo, identityPublisher, log)
	projectService := projectservice.NewProjectService(projectRepo, projectPublisher, log)
	timesheetService := timesheetservice.NewTimesheetService(entryRepo, profileRepo, entryPublisher, log, cfg.Report.DailyTargetHours)

	fonts := render.NewFontLoader(cfg.Report.FontPath, cfg.Report.FontName, log)
	reportSource := reportservice.NewDataSource(entryRepo, profileRepo, departmentRepo, projectRepo)
	reportService := reportservice.NewReportService(reportSource, fonts, reportPublisher, log, cfg.Report)

	// Handlers
	authHandler := authhandler.NewAuthHandler(authService, log)
	userHandler := identityhandler.NewUserHandler(identityService, log)
	departmentHandler := identityhandler.NewDepartmentHandler(identityService, log)
	projectHandler := projecthandler.NewProjectHandler(projectService, log)
	entryHandler := timesheethandler.NewEntryHandler(timesheetService, log)
	reportHandler := reporthandler.NewReportHandler(reportService, log)

	// Create router
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "worklog-backend",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(authhandler.Authenticate(jwtManager))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			// User and department administration
			r.Route("/admin", func(r chi.Router) {
				r.Use(authhandler.RequireAdmin)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", userHandler.List)
					r.Post("/", userHandler.Create)
					r.Put("/{id}", userHandler.Update)
					r.Delete("/{id}", userHandler.Delete)
					r.Post("/{id}/password", userHandler.ResetPassword)
				})

				r.Route("/departments", func(r chi.Router) {
					r.Get("/", departmentHandler.List)
					r.Post("/", departmentHandler.Create)
					r.Put("/{id}", departmentHandler.Update)
					r.Delete("/{id}", departmentHandler.Delete)
				})
			})

			// Projects
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)
				r.Post("/", projectHandler.Create)
				r.Put("/{id}", projectHandler.Update)
			})

			// Time entries
			r.Route("/entries", func(r chi.Router) {
				r.Get("/", entryHandler.List)
				r.Post("/", entryHandler.Create)
				r.Put("/{id}", entryHandler.Update)
				r.Delete("/{id}", entryHandler.Delete)
				r.Get("/quickfill/preview", entryHandler.QuickFillPreview)
				r.Post("/quickfill", entryHandler.QuickFillSubmit)
			})

			r.Get("/progress/week", entryHandler.Progress)

			// Reports
			r.Route("/reports", func(r chi.Router) {
				r.Get("/dashboard", reportHandler.Dashboard)
				r.Get("/trends", reportHandler.Trends)
				r.Get("/export", reportHandler.Export)
			})
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
