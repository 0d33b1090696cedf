package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/internal-hackathon-7/int-hack-7/config"
	"github.com/internal-hackathon-7/int-hack-7/internal/auth"
	"github.com/internal-hackathon-7/int-hack-7/internal/handlers"
	"github.com/internal-hackathon-7/int-hack-7/internal/hub"
	"github.com/internal-hackathon-7/int-hack-7/internal/middleware"
	"github.com/internal-hackathon-7/int-hack-7/internal/presence"
	"github.com/internal-hackathon-7/int-hack-7/internal/redis"
	"github.com/internal-hackathon-7/int-hack-7/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")

	st := store.NewRedis(rdb)
	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.TokenTTL)
	fanout := hub.New()
	codes := presence.NewCodeGenerator(cfg.Presence.CodeLength, cfg.Presence.CodeAttempts)
	engine := presence.NewEngine(st, fanout, codes, cfg.Presence.GracePeriod)
	h := handlers.New(cfg, verifier, st, st, st, engine)

	gin.SetMode(cfg.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", middleware.SessionAuth(verifier), h.Me)
	}

	daemonGroup := router.Group("/daemon")
	{
		daemonGroup.POST("/roomsJoined", h.RoomsJoined)
		daemonGroup.POST("/joinRoom", h.JoinRoom)
		daemonGroup.POST("/diff", h.AddDiff)
		daemonGroup.POST("/diff/member", h.MemberDiffs)
	}

	router.GET("/ws", h.HandleWS)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	// Pending grace timers die with the process; durable membership stays
	// intact and stale members get cleaned up the next time their room is
	// touched.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
