package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "go-banter/cmd/api/router/v1"
	"go-banter/internal/infrastructure/auth"
	cacheAdapter "go-banter/internal/infrastructure/cache/adapter"
	cacheport "go-banter/internal/infrastructure/cache/port"
	"go-banter/internal/infrastructure/database"
	queueAdapter "go-banter/internal/infrastructure/queue/adapter"
	"go-banter/internal/infrastructure/realtime"
	"go-banter/internal/pkg/chat/application/task"
	httpHandler "go-banter/internal/pkg/chat/presentation/http"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// Connect to the database on startup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Cache is an optimization, not a dependency: run without it if Redis is
	// down or unconfigured.
	var cache cacheport.Cache
	if redisCache, err := cacheAdapter.NewRedisAdapter(); err != nil {
		log.Printf("Warning: cache disabled: %v", err)
	} else {
		cache = redisCache
		defer redisCache.Close()
	}

	queueClient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Fatalf("failed to create queue client: %v", err)
	}
	defer queueClient.Close()

	queueServer, err := queueAdapter.NewAsynqServer()
	if err != nil {
		log.Fatalf("failed to create queue server: %v", err)
	}
	task.RegisterNotifyMessageTask(queueServer)

	verifier, err := auth.NewVerifierFromEnv()
	if err != nil {
		log.Fatalf("failed to configure auth: %v", err)
	}

	rt := realtime.NewRouter()
	defer rt.Close()

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	v1.RegisterRoutes(r, httpHandler.Deps{
		Pool:     pool,
		Cache:    cache,
		Queue:    queueClient,
		Verifier: verifier,
		Realtime: rt,
	})

	addr := ":" + os.Getenv("PORT")
	if addr == ":" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: r}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background workers share the process lifetime with the HTTP server.
	go func() {
		if err := queueServer.Run(runCtx); err != nil {
			log.Printf("queue server stopped: %v", err)
		}
	}()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-runCtx.Done()
	log.Println("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}
