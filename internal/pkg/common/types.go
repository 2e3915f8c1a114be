package common

import (
	"strings"
	"time"
)

// Ingredient 食材，數量與單位可各自省略
type Ingredient struct {
	Name   string   `json:"name"`
	Amount *float64 `json:"amount,omitempty"`
	Unit   *string  `json:"unit,omitempty"`
}

// Recipe 使用者的食譜文件
type Recipe struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	PrepTime     *int         `json:"prepTime,omitempty"`
	CookTime     *int         `json:"cookTime,omitempty"`
	Servings     *int         `json:"servings,omitempty"`
	ImageURL     *string      `json:"imageUrl,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// NewRecipe 尚未儲存的食譜（無 id 與建立時間）
type NewRecipe struct {
	UserID       string       `json:"userId"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	PrepTime     *int         `json:"prepTime,omitempty"`
	CookTime     *int         `json:"cookTime,omitempty"`
	Servings     *int         `json:"servings,omitempty"`
	ImageURL     *string      `json:"imageUrl,omitempty"`
}

// IngredientNames 以單一空白串接食材名稱
func (r Recipe) IngredientNames() string {
	names := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		names[i] = ing.Name
	}
	return strings.Join(names, " ")
}

// TemperatureUnit 溫度單位
type TemperatureUnit string

const (
	// Celcius 與前端已存資料的拼字一致
	Celcius    TemperatureUnit = "Celcius"
	Fahrenheit TemperatureUnit = "Fahrenheit"
)

// UserPreferences 使用者偏好
type UserPreferences struct {
	UserID          string          `json:"userId"`
	Name            string          `json:"name"`
	Diet            []string        `json:"diet"`
	Allergies       string          `json:"allergies"`
	TemperatureUnit TemperatureUnit `json:"temperatureUnit"`
	UpdatedAt       *time.Time      `json:"updatedAt,omitempty"`
}

// DefaultMealEmoji 未指定時的餐點圖示
const DefaultMealEmoji = "🍽️"

// MealItem 單一餐點
type MealItem struct {
	Name     string  `json:"name"`
	Emoji    string  `json:"emoji"`
	RecipeID *string `json:"recipe_id,omitempty"`
}

// DayPlan 一天的三餐
type DayPlan struct {
	Day       string     `json:"day"`
	Breakfast []MealItem `json:"breakfast"`
	Lunch     []MealItem `json:"lunch"`
	Dinner    []MealItem `json:"dinner"`
}

// WeeklyPlan 一週的餐點計畫
type WeeklyPlan struct {
	UserID        string     `json:"user_id"`
	WeekStartDate *time.Time `json:"week_start_date,omitempty"`
	Days          []DayPlan  `json:"days"`
	CreatedAt     time.Time  `json:"created_at"`
}

// WeeklyPlanCreate 簡化的計畫輸入：{"monday": {"breakfast": ["Eggs"]}}
type WeeklyPlanCreate struct {
	Days map[string]map[string][]string `json:"days"`
}
