package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"lmg-backend/cmd"
	"lmg-backend/internal/api"
	"lmg-backend/internal/docs"
	"lmg-backend/internal/llm"
)

type APIConfig struct {
	// The API key is deliberately not required here: its absence is reported
	// per-request as a configuration error, matching the hosted setup where
	// the process starts regardless.
	GoogleAPIKey    string        `env:"GOOGLE_API_KEY"`
	DocumentBaseURL string        `env:"DOCUMENT_BASE_URL" envDefault:"https://raw.githubusercontent.com/simon23-12/lmg-ai/main"`
	FetchTimeout    time.Duration `env:"DOCUMENT_FETCH_TIMEOUT" envDefault:"3s"`
	CacheTTL        time.Duration `env:"DOCUMENT_CACHE_TTL" envDefault:"1h"`
	APIPort         string        `env:"API_PORT" envDefault:"8080"`
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	var generator llm.ContentGenerator
	if cfg.GoogleAPIKey != "" {
		client, err := llm.NewGeminiClient(context.Background(), cfg.GoogleAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		generator = client
	} else {
		log.Println("Warning: GOOGLE_API_KEY is not set, chat requests will fail with a configuration error")
	}

	store := docs.NewStore(cfg.CacheTTL, nil)
	fetcher := docs.NewFetcher(cfg.DocumentBaseURL, cfg.FetchTimeout, store)

	r := chi.NewRouter()

	// The widget is served from a separate static host, so CORS stays
	// permissive, including the preflight short-circuit.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS", "PATCH", "DELETE", "POST", "PUT"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// leave headroom above the slowest model fallback sequence so a long PDF
	// request gets the service's own busy answer, not a middleware 504
	r.Use(middleware.Timeout(llm.MaxRequestBudget() + 10*time.Second))

	chatHandler := api.NewChatService(cfg.GoogleAPIKey, fetcher, llm.NewOrchestrator(generator))
	chatHandler.AddRoutes(r)

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
