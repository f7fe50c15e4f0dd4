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

	"github.com/binita54/chat-app/internal/auth"
	"github.com/binita54/chat-app/internal/cache"
	"github.com/binita54/chat-app/internal/config"
	"github.com/binita54/chat-app/internal/domain"
	"github.com/binita54/chat-app/internal/handler"
	"github.com/binita54/chat-app/internal/hub"
	"github.com/binita54/chat-app/internal/repository"
	"github.com/binita54/chat-app/internal/service"
	"github.com/binita54/chat-app/pkg/database"
	"github.com/binita54/chat-app/pkg/log"
	"github.com/binita54/chat-app/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	logger := log.L()

	if cfg.Auth.Secret == "" {
		logger.Fatal().Msg("JWT_SECRET is not set")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	if err := db.AutoMigrate(&domain.UserModel{}, &domain.RoomModel{}, &domain.MessageModel{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database ready")

	userRepo := repository.NewGormUserRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	msgRepo := repository.NewGormMessageRepository(db)

	tokens := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	var pageCache cache.PageCache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisPageCache(cfg.Cache)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisCache.Close()
		pageCache = redisCache
		logger.Info().Str("address", cfg.Cache.Address).Msg("history cache enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsHub := hub.NewHub()
	go wsHub.Run(ctx)

	chatSvc := service.NewChatService(msgRepo, wsHub)
	historySvc := service.NewHistoryService(msgRepo, pageCache, cfg.Cache.TTL)
	userSvc := service.NewUserService(userRepo, tokens)
	roomSvc := service.NewRoomService(roomRepo)

	authmw := middleware.NewAuthMiddleware(tokens)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(log.GinMiddleware(logger), gin.Recovery())

	handler.NewHTTPHandler(userSvc, roomSvc, historySvc, authmw).RegisterRoutes(router)
	handler.NewWSHandler(wsHub, chatSvc, historySvc, tokens, cfg.WebSocket).RegisterRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("chat server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("stopped")
}
