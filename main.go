package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/manideepv28/wealthwizard/src/config"
	"github.com/manideepv28/wealthwizard/src/database"
	"github.com/manideepv28/wealthwizard/src/handlers"
	"github.com/manideepv28/wealthwizard/src/logger"
	"github.com/manideepv28/wealthwizard/src/model"
	"github.com/manideepv28/wealthwizard/src/scheduler"
	"github.com/manideepv28/wealthwizard/src/security"
	"github.com/manideepv28/wealthwizard/src/services"
	"github.com/manideepv28/wealthwizard/src/storage"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("WealthWizard backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	if err := database.SeedFunds(database.DB); err != nil {
		logger.L.Error("Failed to seed fund catalog", "error", err)
		os.Exit(1)
	}
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(config.Cfg.CacheExpiration, config.Cfg.CacheCleanupInterval)

	logger.L.Info("Initializing services and handlers...")
	fundStore := storage.NewSqliteFundStore(database.DB)
	transactionStore := storage.NewSqliteTransactionStore(database.DB)
	holdingStore := storage.NewSqliteHoldingStore(database.DB)
	sipPlanStore := storage.NewSqliteSipPlanStore(database.DB)
	alertStore := storage.NewSqliteAlertStore(database.DB)

	authService := security.NewAuthService(config.Cfg.JWTSecret)
	emailService := services.NewEmailService()
	portfolioService := services.NewPortfolioService(fundStore, transactionStore, holdingStore, sipPlanStore, reportCache)
	alertService := services.NewAlertService(alertStore, emailService, func(userID int64) (string, string, error) {
		user, err := model.GetUserByID(database.DB, userID)
		if err != nil {
			return "", "", err
		}
		return user.Name, user.Email, nil
	})

	var navSource services.NavSource = services.StaticNavSource{}
	if config.Cfg.NavSourceURL != "" {
		navSource = services.NewHTTPNavSource(config.Cfg.NavSourceURL)
	}
	navService := services.NewNavService(fundStore, holdingStore, navSource, alertService, config.Cfg.NavAlertThreshold)

	userHandler := handlers.NewUserHandler(authService)
	fundHandler := handlers.NewFundHandler(fundStore)
	txHandler := handlers.NewTransactionHandler(portfolioService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	sipHandler := handlers.NewSipHandler(portfolioService)
	alertHandler := handlers.NewAlertHandler(alertService)

	logger.L.Info("Starting background scheduler...")
	jobs := scheduler.New(sipPlanStore, fundStore, alertService, navService)
	if err := jobs.Start(config.Cfg.SipAlertSchedule, config.Cfg.NavRefreshSchedule); err != nil {
		logger.L.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer jobs.Stop()

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/auth/register", userHandler.HandleRegister)
	apiRouter.HandleFunc("POST /api/auth/login", userHandler.HandleLogin)
	apiRouter.HandleFunc("POST /api/auth/refresh", userHandler.HandleRefresh)
	apiRouter.HandleFunc("POST /api/auth/logout", userHandler.HandleLogout)

	protected := func(handler http.HandlerFunc) http.Handler {
		return userHandler.AuthMiddleware(handler)
	}

	apiRouter.Handle("GET /api/auth/me", protected(userHandler.HandleMe))

	apiRouter.HandleFunc("GET /api/funds", fundHandler.HandleListFunds)
	apiRouter.HandleFunc("GET /api/funds/search", fundHandler.HandleListFunds)
	apiRouter.HandleFunc("GET /api/funds/{id}", fundHandler.HandleGetFund)

	apiRouter.Handle("POST /api/transactions", protected(txHandler.HandleCreateTransaction))
	apiRouter.Handle("GET /api/transactions", protected(txHandler.HandleGetTransactions))

	apiRouter.Handle("GET /api/portfolio/holdings", protected(portfolioHandler.HandleGetHoldings))
	apiRouter.Handle("GET /api/portfolio/summary", protected(portfolioHandler.HandleGetSummary))
	apiRouter.Handle("GET /api/portfolio/allocation", protected(portfolioHandler.HandleGetAllocation))
	apiRouter.Handle("GET /api/portfolio/analysis", protected(portfolioHandler.HandleGetAnalysis))

	apiRouter.Handle("POST /api/sips", protected(sipHandler.HandleCreateSipPlan))
	apiRouter.Handle("GET /api/sips", protected(sipHandler.HandleGetSipPlans))
	apiRouter.Handle("PATCH /api/sips/{id}", protected(sipHandler.HandleSetSipPlanActive))

	apiRouter.Handle("GET /api/alerts", protected(alertHandler.HandleGetAlerts))
	apiRouter.Handle("PATCH /api/alerts/{id}/read", protected(alertHandler.HandleMarkAlertRead))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "WealthWizard backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
