package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"secret-snowman-backend/internal/common/config"
	"secret-snowman-backend/internal/common/logger"
	"secret-snowman-backend/internal/common/middleware"
	exchangeHTTP "secret-snowman-backend/internal/features/exchange/delivery/http"
	exchangeService "secret-snowman-backend/internal/features/exchange/service"
	participantRepo "secret-snowman-backend/internal/features/participant/repository/redis"
	redisplatform "secret-snowman-backend/internal/platform/redis"
	"secret-snowman-backend/internal/platform/twilio"
)

func main() {
	cfg := config.Load()

	logger.Init("secret-snowman-backend", cfg.Debug)

	log.Info().
		Bool("debug", cfg.Debug).
		Msg("Starting Secret Snowman backend")

	ctx := context.Background()

	redisClient, err := redisplatform.Open(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	log.Info().Msg("Redis connection established")

	repo := participantRepo.NewParticipantRepository(redisClient)

	sender := twilio.NewClient(
		cfg.Twilio.AccountSID,
		cfg.Twilio.AuthToken,
		cfg.Snowman.ServicePhone,
		cfg.Twilio.SendRate,
		log.With().Str("component", "twilio").Logger(),
	)

	engine := exchangeService.NewEngine(
		rand.New(rand.NewSource(time.Now().UnixNano())),
		cfg.Snowman.MaxShuffleAttempts,
	)

	svc := exchangeService.NewExchangeService(
		repo,
		sender,
		engine,
		cfg.Snowman.AdminPhone,
		log.With().Str("component", "exchange").Logger(),
	)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	exchangeHTTP.NewSMSHandler(svc).RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "secret-snowman-backend",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
