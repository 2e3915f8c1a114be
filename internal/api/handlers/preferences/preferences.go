package preferences

import (
	"net/http"

	"chefmate-api/internal/api/middleware"
	"chefmate-api/internal/api/validate"
	prefsService "chefmate-api/internal/core/preferences"
	"chefmate-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// UpdateRequest 部分更新偏好設定
type UpdateRequest struct {
	Name            *string  `json:"name"`
	Diet            []string `json:"diet"`
	Allergies       *string  `json:"allergies"`
	TemperatureUnit *string  `json:"temperatureUnit" binding:"omitempty,oneof=Celcius Fahrenheit"`
}

// Handler 偏好設定 API
type Handler struct {
	service *prefsService.Service
}

// NewHandler 創建偏好設定處理器
func NewHandler(service *prefsService.Service) *Handler {
	return &Handler{service: service}
}

// Register 註冊路由
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("", h.HandleGet)
	group.PUT("", h.HandleSave)
}

// HandleGet 取得偏好設定
func (h *Handler) HandleGet(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthorized)
		return
	}

	prefs, err := h.service.Get(c.Request.Context(), user.UID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// HandleSave 合併更新偏好設定
func (h *Handler) HandleSave(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthorized)
		return
	}

	var req UpdateRequest
	if err := validate.BindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	update := prefsService.Update{Name: req.Name, Diet: req.Diet, Allergies: req.Allergies}
	if req.TemperatureUnit != nil {
		unit := common.TemperatureUnit(*req.TemperatureUnit)
		update.TemperatureUnit = &unit
	}

	prefs, err := h.service.Save(c.Request.Context(), user.UID, update)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
