package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chefmate-api/internal/api"
	"chefmate-api/internal/core/auth"
	"chefmate-api/internal/core/store"
	"chefmate-api/internal/core/voice"
	"chefmate-api/internal/infrastructure/config"
	"chefmate-api/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("env", cfg.App.Env),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("auth_enabled", cfg.Auth.Enabled),
		zap.String("firebase_project_id", cfg.Auth.ProjectID),
		zap.String("elevenlabs_key", common.MaskSecret(cfg.ElevenLabs.APIKey)),
	)

	docStore, err := openStore(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize document store", zap.Error(err))
	}
	defer docStore.Close()

	deps := api.Dependencies{
		Store:  docStore,
		Tokens: voice.NewClient(cfg.ElevenLabs),
	}
	if cfg.Auth.Enabled {
		deps.Verifier = auth.NewVerifierFromConfig(cfg.Auth)
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, deps)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}

// openStore Redis 開啟時使用 Redis，否則使用記憶體儲存
func openStore(cfg *config.Config) (store.Store, error) {
	if !cfg.Redis.Enabled {
		common.LogWarn("Redis disabled, documents are kept in memory only")
		return store.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return store.NewRedisStore(ctx, &cfg.Redis)
}
