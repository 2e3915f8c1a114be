package voice

import (
	"net/http"

	"chefmate-api/internal/api/middleware"
	voiceClient "chefmate-api/internal/core/voice"

	"github.com/gin-gonic/gin"
)

// TokenResponse 對話 token
type TokenResponse struct {
	Token string `json:"token"`
}

// Handler 語音助理 token API
type Handler struct {
	tokens voiceClient.TokenProvider
}

// NewHandler 創建語音助理處理器
func NewHandler(tokens voiceClient.TokenProvider) *Handler {
	return &Handler{tokens: tokens}
}

// Register 註冊路由
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("/conversation-token", h.HandleToken(voiceClient.AgentDiscover))
	group.GET("/conversation-token-cook", h.HandleToken(voiceClient.AgentCook))
	group.GET("/conversation-token-planner", h.HandleToken(voiceClient.AgentPlanner))
}

// HandleToken 取得指定助理的對話 token
func (h *Handler) HandleToken(agent voiceClient.Agent) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := h.tokens.ConversationToken(c.Request.Context(), agent)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, TokenResponse{Token: token})
	}
}
