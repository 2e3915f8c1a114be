package planner

import (
	"net/http"

	"chefmate-api/internal/api/middleware"
	"chefmate-api/internal/api/validate"
	plannerService "chefmate-api/internal/core/planner"
	"chefmate-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// SavePlanRequest 簡化格式的週計畫
type SavePlanRequest struct {
	Days map[string]map[string][]string `json:"days" binding:"required"`
}

// AgentMessageRequest 語音助理訊息
type AgentMessageRequest struct {
	Message string `json:"message" binding:"required,notblank"`
}

// Handler 餐點計畫 API
type Handler struct {
	service *plannerService.Service
}

// NewHandler 創建餐點計畫處理器
func NewHandler(service *plannerService.Service) *Handler {
	return &Handler{service: service}
}

// Register 註冊路由
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("", h.HandleGet)
	group.POST("", h.HandleSave)
	group.POST("/agent/parse", h.HandleParseAgentMessage)
}

// HandleGet 取得週計畫
func (h *Handler) HandleGet(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthorized)
		return
	}

	plan, err := h.service.Get(c.Request.Context(), user.UID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// HandleSave 覆寫週計畫
func (h *Handler) HandleSave(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthorized)
		return
	}

	var req SavePlanRequest
	if err := validate.BindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	plan, err := h.service.Save(c.Request.Context(), user.UID, common.WeeklyPlanCreate{Days: req.Days})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// HandleParseAgentMessage 從助理訊息擷取週計畫
func (h *Handler) HandleParseAgentMessage(c *gin.Context) {
	var req AgentMessageRequest
	if err := validate.BindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	input, ok := h.service.ParseAgentPlan(req.Message)
	if !ok {
		middleware.AbortWithError(c, common.ErrNoPlanDetected)
		return
	}
	c.JSON(http.StatusOK, input)
}
