package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"shelfstock/internal/config"
	"shelfstock/internal/enrich"
	custommiddleware "shelfstock/internal/middleware"
	"shelfstock/internal/repository"
	"shelfstock/internal/service"
	"shelfstock/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)

	// Initialize the enrichment pipeline
	completionClient := enrich.NewGroqClient(
		cfg.Groq.BaseURL,
		cfg.Groq.APIKey,
		cfg.Groq.Model,
		cfg.Groq.Timeout,
	)
	enricher := enrich.NewEnricher(completionClient, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, enricher)

	// Initialize handlers
	productHandler := transport.NewProductHandler(productService, logger)
	productHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:        fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:     router,
			IdleTimeout: time.Minute,
			ReadTimeout: 10 * time.Second,
			// Enrichment holds the request open for one LLM round trip, so
			// the write timeout must outlast the completion client timeout.
			WriteTimeout: cfg.Groq.Timeout + 30*time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
