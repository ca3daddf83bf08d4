package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ojlab/judged/internal/api"
	"github.com/ojlab/judged/internal/auth"
	"github.com/ojlab/judged/internal/grader"
	"github.com/ojlab/judged/internal/store"
	"github.com/ojlab/judged/internal/worker"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	queries := store.New(pool)
	verifier := auth.NewVerifier([]byte(secret), queries)

	router := gin.Default()
	api.RegisterRoutes(router, queries, verifier)

	judge0URL := os.Getenv("JUDGE0_URL")
	if judge0URL == "" {
		judge0URL = "http://judge0-server:2358"
	}
	g := grader.NewJudge0(grader.Judge0Config{
		URL:       judge0URL,
		AuthToken: os.Getenv("JUDGE0_AUTH_TOKEN"),
	})

	concurrency := 5
	if raw := os.Getenv("GRADER_CONCURRENCY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			log.Fatalf("invalid GRADER_CONCURRENCY: %q", raw)
		}
		concurrency = n
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := worker.New(queries, g, concurrency)

	switch os.Getenv("MODE") {
	case "worker":
		log.Println("starting in worker-only mode")
		w.Start(ctx) // blocks until ctx cancelled
	case "api":
		// API-only: no embedded grader goroutines; scale graders separately.
		log.Println("starting in api-only mode")
		if err := router.Run(":" + port()); err != nil {
			log.Fatalf("server error: %v", err)
		}
	default:
		// Default: run both API server and grader worker in the same process.
		go w.Start(ctx)

		if err := router.Run(":" + port()); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}

func port() string {
	p := os.Getenv("PORT")
	if p == "" {
		p = "8080"
	}
	return p
}
