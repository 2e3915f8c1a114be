package recipe

import (
	"context"
	"errors"
	"fmt"

	"chefmate-api/internal/core/agent"
	"chefmate-api/internal/core/search"
	"chefmate-api/internal/core/store"
	"chefmate-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 食譜服務
type Service struct {
	store     store.RecipeStore
	extractor *agent.Extractor
}

// NewService 創建新的食譜服務，extractor 為 nil 時使用預設的擷取器
func NewService(recipeStore store.RecipeStore, extractor *agent.Extractor) *Service {
	if extractor == nil {
		extractor = agent.NewExtractor(nil)
	}
	return &Service{
		store:     recipeStore,
		extractor: extractor,
	}
}

// List 列出使用者食譜，由新到舊
func (s *Service) List(ctx context.Context, userID string) ([]common.Recipe, error) {
	recipes, err := s.store.ListRecipes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Search 依關鍵字排序使用者食譜，空白查詢維持原順序
func (s *Service) Search(ctx context.Context, userID, query string) ([]common.Recipe, error) {
	recipes, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	ranked := search.Rank(recipes, query)

	common.LogDebug("食譜搜尋完成",
		zap.String("user_id", userID),
		zap.String("query", query),
		zap.Int("count", len(ranked)),
	)
	return ranked, nil
}

// Get 取得單一食譜，非擁有者視為不存在
func (s *Service) Get(ctx context.Context, userID, id string) (*common.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithMessage("recipe not found")
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if recipe.UserID != userID {
		return nil, common.ErrNotFound.WithMessage("recipe not found")
	}
	return recipe, nil
}

// Create 驗證並儲存新食譜
func (s *Service) Create(ctx context.Context, userID string, input common.NewRecipe) (*common.Recipe, error) {
	if input.UserID != userID {
		return nil, common.ErrForbidden.WithMessage("recipe userId must match authenticated user")
	}

	normalized, err := Validate(input)
	if err != nil {
		return nil, err
	}

	recipe := common.Recipe{
		ID:           common.GenerateUUID(),
		UserID:       userID,
		Title:        normalized.Title,
		Description:  normalized.Description,
		Ingredients:  normalized.Ingredients,
		Instructions: normalized.Instructions,
		PrepTime:     normalized.PrepTime,
		CookTime:     normalized.CookTime,
		Servings:     normalized.Servings,
		ImageURL:     normalized.ImageURL,
		CreatedAt:    common.Now(),
	}

	if err := s.store.SaveRecipe(ctx, recipe); err != nil {
		common.LogError("儲存食譜失敗",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}

	common.LogInfo("食譜已建立",
		zap.String("user_id", userID),
		zap.String("recipe_id", recipe.ID),
		zap.String("title", recipe.Title),
	)
	return &recipe, nil
}

// Delete 刪除食譜，只有擁有者可以刪除
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	common.LogInfo("食譜已刪除",
		zap.String("user_id", userID),
		zap.String("recipe_id", id),
	)
	return nil
}

// ImportFromAgent 從助理訊息產生尚未儲存的食譜草稿
func (s *Service) ImportFromAgent(ctx context.Context, userID, message string) (*common.NewRecipe, error) {
	result := s.extractor.Extract(message)
	switch result.Outcome {
	case agent.OutcomeFound:
		draft := agent.ToNewRecipe(result.Recipe, userID)
		return &draft, nil
	case agent.OutcomeInvalid:
		return nil, common.ErrInvalidAgentRecipe.WithCause(result.Err)
	default:
		return nil, common.ErrNoRecipeDetected
	}
}
