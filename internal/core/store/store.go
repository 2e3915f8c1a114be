// Package store 使用者文件儲存：食譜、餐點計畫與偏好設定。
package store

import (
	"context"

	"chefmate-api/internal/pkg/common"
)

// RecipeStore 食譜集合
type RecipeStore interface {
	SaveRecipe(ctx context.Context, recipe common.Recipe) error
	// GetRecipe 找不到時回傳 common.ErrNotFound
	GetRecipe(ctx context.Context, id string) (*common.Recipe, error)
	// ListRecipes 依建立時間由新到舊
	ListRecipes(ctx context.Context, userID string) ([]common.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}

// PlanStore 每位使用者一份週計畫
type PlanStore interface {
	GetPlan(ctx context.Context, userID string) (*common.WeeklyPlan, error)
	SavePlan(ctx context.Context, plan common.WeeklyPlan) error
}

// PreferencesStore 每位使用者一份偏好設定
type PreferencesStore interface {
	GetPreferences(ctx context.Context, userID string) (*common.UserPreferences, error)
	SavePreferences(ctx context.Context, prefs common.UserPreferences) error
}

// Store 完整的文件儲存
type Store interface {
	RecipeStore
	PlanStore
	PreferencesStore
	Ping(ctx context.Context) error
	Stats() map[string]interface{}
	Close() error
}
