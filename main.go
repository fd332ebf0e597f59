package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/archReactor04/TradeFlow/src/config"
	"github.com/archReactor04/TradeFlow/src/database"
	"github.com/archReactor04/TradeFlow/src/handlers"
	"github.com/archReactor04/TradeFlow/src/logger"
	"github.com/archReactor04/TradeFlow/src/processors"
	"github.com/archReactor04/TradeFlow/src/services"
	"github.com/archReactor04/TradeFlow/src/utils"
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

		if origin == config.Cfg.AllowedOrigin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-Requested-With, If-None-Match")
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
	logger.L.Info("TradeFlow backend server starting...")

	logger.L.Info("Initializing data loaders...")
	if err := utils.InitMultiplierData(config.Cfg.MultiplierDataPath); err != nil {
		logger.L.Error("Failed to load futures multiplier data", "error", err)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	if config.Cfg.SeedDemoData {
		database.SeedDemoData()
	}

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)
	logger.L.Info("Report cache initialized.")

	logger.L.Info("Initializing services and handlers...")
	journalService := services.NewJournalService(reportCache)
	importService := services.NewImportService(
		processors.NewScaleOutProcessor(),
		processors.NewTradeMerger(),
		journalService,
	)

	importHandler := handlers.NewImportHandler(importService)
	tradeHandler := handlers.NewTradeHandler(journalService)
	accountHandler := handlers.NewAccountHandler(journalService)
	strategyHandler := handlers.NewStrategyHandler(journalService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("GET /api/brokers", importHandler.HandleListBrokers)
	apiRouter.HandleFunc("POST /api/import/preview", importHandler.HandlePreview)
	apiRouter.HandleFunc("POST /api/import/merge", importHandler.HandleMerge)
	apiRouter.HandleFunc("POST /api/import/unmerge", importHandler.HandleUnmerge)
	apiRouter.HandleFunc("POST /api/import/commit", importHandler.HandleCommit)

	apiRouter.HandleFunc("GET /api/trades", tradeHandler.HandleListTrades)
	apiRouter.HandleFunc("POST /api/trades", tradeHandler.HandleCreateTrade)
	apiRouter.HandleFunc("GET /api/trades/{id}", tradeHandler.HandleGetTrade)
	apiRouter.HandleFunc("PUT /api/trades/{id}", tradeHandler.HandleUpdateTrade)
	apiRouter.HandleFunc("DELETE /api/trades/{id}", tradeHandler.HandleDeleteTrade)
	apiRouter.HandleFunc("GET /api/stats", tradeHandler.HandleGetStats)

	apiRouter.HandleFunc("GET /api/accounts", accountHandler.HandleListAccounts)
	apiRouter.HandleFunc("POST /api/accounts", accountHandler.HandleCreateAccount)
	apiRouter.HandleFunc("DELETE /api/accounts/{id}", accountHandler.HandleDeleteAccount)

	apiRouter.HandleFunc("GET /api/strategies", strategyHandler.HandleListStrategies)
	apiRouter.HandleFunc("POST /api/strategies", strategyHandler.HandleCreateStrategy)
	apiRouter.HandleFunc("DELETE /api/strategies/{id}", strategyHandler.HandleDeleteStrategy)

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "TradeFlow backend is running"})
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
