package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devlinkhq/devlink-backend/internal/auth"
	"github.com/devlinkhq/devlink-backend/internal/config"
	"github.com/devlinkhq/devlink-backend/internal/middleware"
	"github.com/devlinkhq/devlink-backend/internal/posts"
	"github.com/devlinkhq/devlink-backend/internal/profile"
	"github.com/devlinkhq/devlink-backend/internal/store"
)

const githubAPI = "https://api.github.com"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer pgPool.Close()
	userStore := store.NewPostgresStore(pgPool)
	if err := userStore.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres migrate")
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	defer mongoClient.Disconnect(ctx)
	mongoDB := mongoClient.Database(cfg.MongoDB)

	profileStore := store.NewProfileStore(mongoDB)
	if err := profileStore.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo profile indexes")
	}
	postStore := store.NewPostStore(mongoDB)

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect")
	}
	defer rdb.Close()

	// ── Handlers ─────────────────────────────────────────────
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	github := profile.NewGithubClient(githubAPI, cfg.GithubClientID, cfg.GithubClientSecret, rdb)

	authHandler := auth.NewHandler(userStore, tokens)
	profileHandler := profile.NewHandler(profileStore, userStore, postStore, github)
	postHandler := posts.NewHandler(postStore, userStore)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.TokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	requireAuth := middleware.RequireAuth(tokens)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", authHandler.Register)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/", authHandler.Login)
		r.With(requireAuth).Get("/", authHandler.Me)
	})

	r.Route("/api/profile", func(r chi.Router) {
		r.Get("/", profileHandler.List)
		r.Get("/user/{user_id}", profileHandler.GetByUser)
		r.Get("/github/{username}", profileHandler.GithubRepos)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", profileHandler.Me)
			r.Post("/", profileHandler.Upsert)
			r.Delete("/", profileHandler.Delete)
			r.Put("/experience", profileHandler.AddExperience)
			r.Delete("/experience/{exp_id}", profileHandler.RemoveExperience)
			r.Put("/education", profileHandler.AddEducation)
			r.Delete("/education/{edu_id}", profileHandler.RemoveEducation)
		})
	})

	r.Route("/api/posts", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", postHandler.Create)
		r.Get("/", postHandler.List)
		r.Get("/{id}", postHandler.Get)
		r.Delete("/{id}", postHandler.Delete)
		r.Put("/like/{id}", postHandler.Like)
		r.Put("/unlike/{id}", postHandler.Unlike)
		r.Post("/comment/{id}", postHandler.AddComment)
		r.Delete("/comment/{id}/{comment_id}", postHandler.RemoveComment)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("backend listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
