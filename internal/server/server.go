// Package server assembles the application: it opens the database, wires
// repositories into services into handlers, mounts the routes, runs the
// reminder scheduler, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/praveenhebbal38/Streak-Master/internal/auth"
	"github.com/praveenhebbal38/Streak-Master/internal/handler"
	"github.com/praveenhebbal38/Streak-Master/internal/middleware"
	"github.com/praveenhebbal38/Streak-Master/internal/reminder"
	sqliteRepo "github.com/praveenhebbal38/Streak-Master/internal/repository/sqlite"
	"github.com/praveenhebbal38/Streak-Master/internal/service"
	"github.com/praveenhebbal38/Streak-Master/internal/timer"
)

// Config holds server configuration.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
	// StoreLatency adds a fixed delay to every store operation, modeling a
	// remote database during local development. Zero disables it.
	StoreLatency time.Duration
}

// Server owns the router, the database connection, and the reminder
// scheduler goroutine.
type Server struct {
	router    *chi.Mux
	config    Config
	logger    *slog.Logger
	db        *sqliteRepo.DB
	reminders *reminder.Scheduler
}

// New opens the database and wires the full dependency graph:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer receives only interfaces from the layer below it.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	var opts []sqliteRepo.Option
	if cfg.StoreLatency > 0 {
		opts = append(opts, sqliteRepo.WithSimulatedLatency(cfg.StoreLatency))
	}
	db, err := sqliteRepo.New(cfg.DBPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	habitSvc := service.NewHabitService(s.db.Habits(), s.db.Logs(), s.logger)
	authSvc := service.NewAuthService(s.db.Users(), tokens, passwords, habitSvc, s.logger)
	checkinSvc := service.NewCheckInService(s.db.Habits(), s.logger)
	analyticsSvc := service.NewAnalyticsService(s.db.Habits(), s.db.Logs())
	timerSvc := timer.NewService(s.db.Timers(), s.db.Habits(), s.logger)

	s.reminders = reminder.NewScheduler(s.db.Habits(), &reminder.LogNotifier{Logger: s.logger}, s.logger)

	authHandler := handler.NewAuthHandler(authSvc, s.logger)
	habitHandler := handler.NewHabitHandler(habitSvc, s.logger)
	checkinHandler := handler.NewCheckInHandler(checkinSvc, habitSvc, timerSvc, s.logger)
	timerHandler := handler.NewTimerHandler(timerSvc, s.logger)
	statsHandler := handler.NewStatsHandler(analyticsSvc, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		// Everything below requires a valid session cookie.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/auth/me", authHandler.HandleMe)
			r.Get("/me/stats", statsHandler.HandleStats)

			r.Route("/habits", func(r chi.Router) {
				r.Get("/", habitHandler.HandleList)
				r.Post("/", habitHandler.HandleCreate)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", habitHandler.HandleGet)
					r.Put("/", habitHandler.HandleUpdate)
					r.Delete("/", habitHandler.HandleDelete)
					r.Get("/logs", habitHandler.HandleLogs)
					r.Get("/calendar", habitHandler.HandleCalendar)
					r.Post("/checkin", checkinHandler.HandleCheckIn)
					r.Post("/timer/start", timerHandler.HandleStart)
					r.Post("/timer/cancel", timerHandler.HandleCancel)
					r.Get("/timer", timerHandler.HandleStatus)
					r.Get("/timer/stream", timerHandler.HandleStream)
				})
			})
		})
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests, stop the reminder
// scheduler, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	schedCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go s.reminders.Run(schedCtx)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", s.config.Port),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the countdown SSE stream writes for the whole
		// session, which can run for an hour.
		IdleTimeout: 60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
