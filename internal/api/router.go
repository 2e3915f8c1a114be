package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"chefmate-api/internal/api/handlers/health"
	plannerHandler "chefmate-api/internal/api/handlers/planner"
	prefsHandler "chefmate-api/internal/api/handlers/preferences"
	recipeHandler "chefmate-api/internal/api/handlers/recipe"
	voiceHandler "chefmate-api/internal/api/handlers/voice"
	"chefmate-api/internal/api/middleware"
	"chefmate-api/internal/api/validate"
	"chefmate-api/internal/core/agent"
	"chefmate-api/internal/core/auth"
	plannerService "chefmate-api/internal/core/planner"
	prefsService "chefmate-api/internal/core/preferences"
	recipeService "chefmate-api/internal/core/recipe"
	"chefmate-api/internal/core/store"
	"chefmate-api/internal/core/voice"
	"chefmate-api/internal/infrastructure/config"
	"chefmate-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由需要的外部依賴
type Dependencies struct {
	Store store.Store
	// Verifier 驗證關閉時可為 nil
	Verifier auth.TokenVerifier
	Tokens   voice.TokenProvider
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if deps.Store == nil {
		return nil, errors.New("document store is required")
	}
	if cfg.Auth.Enabled && deps.Verifier == nil {
		return nil, errors.New("token verifier is required when auth is enabled")
	}
	if deps.Tokens == nil {
		deps.Tokens = voice.NewClient(cfg.ElevenLabs)
	}

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	validate.Register()

	router := gin.New()

	// 註冊基礎中間件
	router.Use(requestid.New())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", middleware.DevUserHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(requestTimeout(cfg.Server.RequestTimeout))

	// 初始化服務
	extractor := agent.NewExtractor(agent.GreedySpanFinder{})
	recipeSvc := recipeService.NewService(deps.Store, extractor)
	plannerSvc := plannerService.NewService(deps.Store, deps.Store, extractor)
	prefsSvc := prefsService.NewService(deps.Store)

	// 健康檢查路由
	health.NewHandler(cfg.App.Version, deps.Store).Register(router)

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.Auth.Enabled {
		api.Use(middleware.Auth(deps.Verifier))
	} else {
		common.LogWarn("Authentication disabled, using X-User-ID header")
		api.Use(middleware.DevAuth())
	}
	if cfg.RateLimit.Enabled {
		api.Use(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst).Middleware())
	}
	api.Use(middleware.NewDeduplicator(cfg.DedupWindow).Middleware())

	recipeHandler.NewHandler(recipeSvc).Register(api.Group("/recipes"))
	plannerHandler.NewHandler(plannerSvc).Register(api.Group("/planner"))
	prefsHandler.NewHandler(prefsSvc).Register(api.Group("/preferences"))
	voiceHandler.NewHandler(deps.Tokens).Register(api.Group("/elevenlabs"))

	common.LogInfo("Router setup completed successfully",
		zap.Bool("auth_enabled", cfg.Auth.Enabled),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}

// requestTimeout 為每個請求設定逾時
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		// 檢查是否超時
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeout),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrorResponse{
				Code:    common.ErrGatewayTimeout.Code,
				Message: common.ErrGatewayTimeout.Message,
			})
		}
	}
}
