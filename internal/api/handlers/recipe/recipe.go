package recipe

import (
	"net/http"

	"chefmate-api/internal/api/middleware"
	"chefmate-api/internal/api/validate"
	recipeService "chefmate-api/internal/core/recipe"
	"chefmate-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IngredientRequest 食材
type IngredientRequest struct {
	Name   string   `json:"name" binding:"required,notblank"`
	Amount *float64 `json:"amount,omitempty" binding:"omitempty,gte=0"`
	Unit   *string  `json:"unit,omitempty"`
}

// CreateRecipeRequest 新增食譜
type CreateRecipeRequest struct {
	UserID       string              `json:"userId" binding:"required"`
	Title        string              `json:"title" binding:"required,notblank,max=200"`
	Description  string              `json:"description"`
	Ingredients  []IngredientRequest `json:"ingredients" binding:"required,min=1,dive"`
	Instructions []string            `json:"instructions" binding:"required,min=1,dive,notblank"`
	PrepTime     *int                `json:"prepTime,omitempty" binding:"omitempty,gte=0"`
	CookTime     *int                `json:"cookTime,omitempty" binding:"omitempty,gte=0"`
	Servings     *int                `json:"servings,omitempty" binding:"omitempty,gte=1"`
	ImageURL     *string             `json:"imageUrl,omitempty"`
}

// AgentMessageRequest 語音助理訊息
type AgentMessageRequest struct {
	Message string `json:"message" binding:"required,notblank"`
}

func (r CreateRecipeRequest) toNewRecipe() common.NewRecipe {
	ingredients := make([]common.Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = common.Ingredient{Name: ing.Name, Amount: ing.Amount, Unit: ing.Unit}
	}
	return common.NewRecipe{
		UserID:       r.UserID,
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  ingredients,
		Instructions: r.Instructions,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		ImageURL:     r.ImageURL,
	}
}

// Handler 食譜 API
type Handler struct {
	service *recipeService.Service
}

// NewHandler 創建食譜處理器
func NewHandler(service *recipeService.Service) *Handler {
	return &Handler{service: service}
}

// Register 註冊路由
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("", h.HandleList)
	group.POST("", h.HandleCreate)
	group.POST("/agent/parse", h.HandleParseAgentMessage)
	group.GET("/:id", h.HandleGet)
	group.DELETE("/:id", h.HandleDelete)
}

// HandleList 列出食譜，帶 q 參數時依相關度排序
func (h *Handler) HandleList(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthorized)
		return
	}

	var (
		recipes []common.Recipe
		err     error
	)
	if query, has := c.GetQuery("q"); has {
		recipes, err = h.service.Search(c.Request.Context(), user.UID, query)
	} else {
		recipes, err = h.service.List(c.Request.Context(), user.UID)
	}
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

// HandleCreate 新增食譜
func (h *Handler) HandleCreate(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthorized)
		return
	}

	var req CreateRecipeRequest
	if err := validate.BindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	recipe, err := h.service.Create(c.Request.Context(), user.UID, req.toNewRecipe())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// HandleGet 取得食譜
func (h *Handler) HandleGet(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthorized)
		return
	}

	recipe, err := h.service.Get(c.Request.Context(), user.UID, c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// HandleDelete 刪除食譜
func (h *Handler) HandleDelete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), user.UID, c.Param("id")); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleParseAgentMessage 從助理訊息產生食譜草稿（不儲存）
func (h *Handler) HandleParseAgentMessage(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthorized)
		return
	}

	var req AgentMessageRequest
	if err := validate.BindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	draft, err := h.service.ImportFromAgent(c.Request.Context(), user.UID, req.Message)
	if err != nil {
		common.LogDebug("No recipe in agent message",
			zap.String("user_id", user.UID),
			zap.Int("message_length", len(req.Message)),
			zap.Error(err),
		)
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}
