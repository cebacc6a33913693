// Postboard is a REST backend for user accounts, sessions and posts.
// main wires configuration, the database pool, the feature packages and the
// HTTP router, then runs the server with graceful shutdown.
//
// @title Postboard API
// @version 1.0
// @description REST API for user accounts, sessions and posts.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/postboard-go/apperror"
	"github.com/user/postboard-go/auth"
	"github.com/user/postboard-go/config"
	"github.com/user/postboard-go/db"
	_ "github.com/user/postboard-go/docs" // Swagger spec registration
	"github.com/user/postboard-go/posts"
	"github.com/user/postboard-go/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if cfg.DB.MigrationsDir != "" {
		if err := db.RunMigrations(cfg.DB, cfg.DB.MigrationsDir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Printf("Migrations applied from %s", cfg.DB.MigrationsDir)
	}

	authService := auth.NewService(auth.NewPostgresUserRepository(pool), *cfg.Auth)
	authHandlers := auth.NewHandlers(authService, *cfg.Auth)

	postService := posts.NewService(posts.NewPostgresRepository(pool))
	postHandlers := posts.NewHandlers(postService)

	userService := users.NewService(users.NewPostgresRepository(pool))
	userHandlers := users.NewHandlers(userService)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panics become JSON 500 responses instead of Recoverer's plain text.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
		r.Post("/logout", authHandlers.HandleLogout())
		r.Post("/refresh", authHandlers.HandleRefresh())
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandlers.HandleList())
		r.Get("/{postID}", postHandlers.HandleGet())
		r.Get("/author/{authorID}", postHandlers.HandleListByAuthor())

		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware(cfg.Auth))
			r.Post("/", postHandlers.HandleCreate())
			r.Patch("/{postID}", postHandlers.HandleEdit())
			r.Delete("/{postID}", postHandlers.HandleDelete())
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(auth.JWTMiddleware(cfg.Auth))
		r.Patch("/", userHandlers.HandleUpdate())
		r.Delete("/", userHandlers.HandleDelete())
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// writeError is the panic middleware's response writer; handler-level errors
// go through auth.WriteError instead.
func writeError(w http.ResponseWriter, err *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode())
	if encodeErr := json.NewEncoder(w).Encode(err.ToResponse()); encodeErr != nil {
		log.Printf("Failed to encode error response: %v", encodeErr)
	}
}
