// Package planner 每週餐點計畫。
//
// 助理產生的計畫採用簡化格式 {"days": {"monday": {"breakfast": ["Eggs"]}}}，
// 儲存前轉換為固定週一到週日排序的 WeeklyPlan。
package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"chefmate-api/internal/core/agent"
	"chefmate-api/internal/core/store"
	"chefmate-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Weekdays 計畫輸出的日期順序
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

const (
	mealBreakfast = "breakfast"
	mealLunch     = "lunch"
	mealDinner    = "dinner"
)

// Service 餐點計畫服務
type Service struct {
	plans     store.PlanStore
	recipes   store.RecipeStore
	extractor *agent.Extractor
}

// NewService 創建餐點計畫服務，recipes 可為 nil（不連結食譜）
func NewService(plans store.PlanStore, recipes store.RecipeStore, extractor *agent.Extractor) *Service {
	if extractor == nil {
		extractor = agent.NewExtractor(nil)
	}
	return &Service{plans: plans, recipes: recipes, extractor: extractor}
}

// Get 取得使用者計畫，尚未建立時回傳空白的一週
func (s *Service) Get(ctx context.Context, userID string) (*common.WeeklyPlan, error) {
	plan, err := s.plans.GetPlan(ctx, userID)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return EmptyPlan(userID), nil
}

// Save 由簡化格式建立並覆寫使用者計畫
func (s *Service) Save(ctx context.Context, userID string, input common.WeeklyPlanCreate) (*common.WeeklyPlan, error) {
	titles, err := s.recipeIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := Build(userID, input, titles)
	if err != nil {
		return nil, err
	}

	if err := s.plans.SavePlan(ctx, *plan); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}

	common.LogInfo("餐點計畫已儲存",
		zap.String("user_id", userID),
		zap.Int("meals", countMeals(plan)),
	)
	return plan, nil
}

// ParseAgentPlan 從助理訊息擷取簡化格式的計畫
func (s *Service) ParseAgentPlan(message string) (*common.WeeklyPlanCreate, bool) {
	candidate, ok := s.extractor.ExtractJSON(message)
	if !ok {
		return nil, false
	}

	var input common.WeeklyPlanCreate
	if err := common.ParseJSON(candidate, &input); err != nil {
		common.LogWarn("Agent plan rejected", zap.Error(err))
		return nil, false
	}
	if len(input.Days) == 0 {
		common.LogWarn("Agent plan has no days")
		return nil, false
	}
	return &input, true
}

// recipeIndex 小寫標題對應食譜 id
func (s *Service) recipeIndex(ctx context.Context, userID string) (map[string]string, error) {
	if s.recipes == nil {
		return nil, nil
	}
	recipes, err := s.recipes.ListRecipes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	index := make(map[string]string, len(recipes))
	// 由新到舊，同名時保留最新的一筆
	for _, r := range recipes {
		key := strings.ToLower(strings.TrimSpace(r.Title))
		if _, exists := index[key]; !exists {
			index[key] = r.ID
		}
	}
	return index, nil
}

// EmptyPlan 週一到週日皆無餐點的計畫
func EmptyPlan(userID string) *common.WeeklyPlan {
	days := make([]common.DayPlan, len(Weekdays))
	for i, day := range Weekdays {
		days[i] = emptyDay(day)
	}
	return &common.WeeklyPlan{UserID: userID, Days: days, CreatedAt: common.Now()}
}

// Build 將簡化格式轉為 WeeklyPlan。未知的日期回傳驗證錯誤，未知的餐別忽略。
func Build(userID string, input common.WeeklyPlanCreate, recipeIDs map[string]string) (*common.WeeklyPlan, error) {
	byDay := make(map[string]map[string][]string, len(input.Days))
	for _, rawDay := range sortedKeys(input.Days) {
		meals := input.Days[rawDay]
		day := strings.ToLower(strings.TrimSpace(rawDay))
		if !isWeekday(day) {
			return nil, common.NewValidationError(fmt.Sprintf("unknown day %q", rawDay))
		}
		if byDay[day] == nil {
			byDay[day] = make(map[string][]string)
		}
		for _, rawMeal := range sortedKeys(meals) {
			meal := strings.ToLower(strings.TrimSpace(rawMeal))
			byDay[day][meal] = append(byDay[day][meal], meals[rawMeal]...)
		}
	}

	plan := EmptyPlan(userID)
	for i, day := range Weekdays {
		meals := byDay[day]
		plan.Days[i].Breakfast = toItems(meals[mealBreakfast], recipeIDs)
		plan.Days[i].Lunch = toItems(meals[mealLunch], recipeIDs)
		plan.Days[i].Dinner = toItems(meals[mealDinner], recipeIDs)
	}
	return plan, nil
}

func toItems(names []string, recipeIDs map[string]string) []common.MealItem {
	items := make([]common.MealItem, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		item := common.MealItem{Name: name, Emoji: common.DefaultMealEmoji}
		if id, ok := recipeIDs[strings.ToLower(name)]; ok {
			item.RecipeID = common.Ptr(id)
		}
		items = append(items, item)
	}
	return items
}

func emptyDay(day string) common.DayPlan {
	return common.DayPlan{
		Day:       day,
		Breakfast: []common.MealItem{},
		Lunch:     []common.MealItem{},
		Dinner:    []common.MealItem{},
	}
}

func isWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// sortedKeys 讓大小寫不同的重複鍵以固定順序合併
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func countMeals(plan *common.WeeklyPlan) int {
	n := 0
	for _, d := range plan.Days {
		n += len(d.Breakfast) + len(d.Lunch) + len(d.Dinner)
	}
	return n
}
