package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/palpitebox/bolao-system/config"
	"github.com/palpitebox/bolao-system/db"
	"github.com/palpitebox/bolao-system/engine"
	"github.com/palpitebox/bolao-system/handlers"
	"github.com/palpitebox/bolao-system/live"
	"github.com/palpitebox/bolao-system/repositories"
	api "github.com/palpitebox/bolao-system/routes"
	"github.com/palpitebox/bolao-system/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	resolver, err := engine.NewResolver(cfg.Rules)
	if err != nil {
		logger.Error("invalid resolution rules", slog.Any("error", err))
		os.Exit(1)
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("websocket hub started")

	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	predictionRepo := repositories.NewPostgresPredictionRepository(dbConn)
	ticketRepo := repositories.NewPostgresTicketRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	jackpotRepo := repositories.NewPostgresJackpotRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	quizRepo := repositories.NewPostgresQuizRepository(dbConn)
	logger.Info("repositories initialized")

	resolutionService := services.NewResolutionService(
		repositories.NewTxBeginner(dbConn),
		resolver,
		matchRepo,
		predictionRepo,
		ticketRepo,
		roundRepo,
		groupRepo,
		jackpotRepo,
		standingRepo,
		quizRepo,
		wsHub,
		logger,
	)
	matchService := services.NewMatchService(matchRepo, predictionRepo, ticketRepo, roundRepo, logger)
	standingsService := services.NewStandingsService(engine.NewStandingsAggregator(cfg.Rules), groupRepo, matchRepo, standingRepo)
	scheduleService := services.NewScheduleService(engine.NewScheduleSizer(cfg.Rules), cfg.Rules, groupRepo)
	jackpotService := services.NewJackpotService(jackpotRepo, roundRepo, wsHub, logger)
	logger.Info("services initialized")

	matchHandler := handlers.NewMatchHandler(matchService)
	resolutionHandler := handlers.NewResolutionHandler(resolutionService)
	standingsHandler := handlers.NewStandingsHandler(standingsService, scheduleService)
	jackpotHandler := handlers.NewJackpotHandler(jackpotService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{JWTSecret: cfg.JWTSecretKey, AdminKeyHash: cfg.AdminKeyHash},
		matchHandler,
		resolutionHandler,
		standingsHandler,
		jackpotHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("forced server close failed", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	}
}
