package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"chefmate-api/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryStore 記憶體文件儲存，文件以 JSON 保存避免呼叫端共用底層切片
type MemoryStore struct {
	mu          sync.RWMutex
	recipes     map[string]string
	userRecipes map[string][]string
	plans       map[string]string
	preferences map[string]string
	stats       storeStats
}

// storeStats 讀取統計
type storeStats struct {
	hits   int64
	misses int64
	writes int64
}

// NewMemoryStore 創建記憶體儲存
func NewMemoryStore() *MemoryStore {
	common.LogInfo("記憶體文件儲存已初始化")
	return &MemoryStore{
		recipes:     make(map[string]string),
		userRecipes: make(map[string][]string),
		plans:       make(map[string]string),
		preferences: make(map[string]string),
	}
}

// SaveRecipe 新增或覆寫食譜
func (m *MemoryStore) SaveRecipe(ctx context.Context, recipe common.Recipe) error {
	data, err := common.ToJSON(recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.recipes[recipe.ID]; !exists {
		m.userRecipes[recipe.UserID] = append(m.userRecipes[recipe.UserID], recipe.ID)
	}
	m.recipes[recipe.ID] = data
	m.stats.writes++
	return nil
}

// GetRecipe 取得食譜
func (m *MemoryStore) GetRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.recipes[id]
	if !ok {
		m.stats.misses++
		return nil, common.ErrNotFound
	}
	m.stats.hits++

	var recipe common.Recipe
	if err := common.ParseJSON(data, &recipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	return &recipe, nil
}

// ListRecipes 列出使用者的食譜，由新到舊
func (m *MemoryStore) ListRecipes(ctx context.Context, userID string) ([]common.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.userRecipes[userID]
	recipes := make([]common.Recipe, 0, len(ids))
	for _, id := range ids {
		var recipe common.Recipe
		if err := common.ParseJSON(m.recipes[id], &recipe); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipe %s: %w", id, err)
		}
		recipes = append(recipes, recipe)
	}

	// 與 Redis 索引一致：毫秒由新到舊，同毫秒以 ID 遞減
	sort.Slice(recipes, func(i, j int) bool {
		ti, tj := recipes[i].CreatedAt.UnixMilli(), recipes[j].CreatedAt.UnixMilli()
		if ti != tj {
			return ti > tj
		}
		return recipes[i].ID > recipes[j].ID
	})
	return recipes, nil
}

// DeleteRecipe 刪除食譜
func (m *MemoryStore) DeleteRecipe(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.recipes[id]
	if !ok {
		return common.ErrNotFound
	}
	var recipe common.Recipe
	if err := common.ParseJSON(data, &recipe); err != nil {
		return fmt.Errorf("failed to unmarshal recipe: %w", err)
	}

	delete(m.recipes, id)
	ids := m.userRecipes[recipe.UserID]
	for i, rid := range ids {
		if rid == id {
			m.userRecipes[recipe.UserID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	m.stats.writes++
	return nil
}

// GetPlan 取得週計畫
func (m *MemoryStore) GetPlan(ctx context.Context, userID string) (*common.WeeklyPlan, error) {
	var plan common.WeeklyPlan
	if err := m.get(m.plans, userID, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// SavePlan 覆寫週計畫
func (m *MemoryStore) SavePlan(ctx context.Context, plan common.WeeklyPlan) error {
	return m.put(m.plans, plan.UserID, plan)
}

// GetPreferences 取得偏好設定
func (m *MemoryStore) GetPreferences(ctx context.Context, userID string) (*common.UserPreferences, error) {
	var prefs common.UserPreferences
	if err := m.get(m.preferences, userID, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// SavePreferences 覆寫偏好設定
func (m *MemoryStore) SavePreferences(ctx context.Context, prefs common.UserPreferences) error {
	return m.put(m.preferences, prefs.UserID, prefs)
}

func (m *MemoryStore) get(collection map[string]string, key string, v interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := collection[key]
	if !ok {
		m.stats.misses++
		return common.ErrNotFound
	}
	m.stats.hits++
	if err := common.ParseJSON(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return nil
}

func (m *MemoryStore) put(collection map[string]string, key string, v interface{}) error {
	data, err := common.ToJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	collection[key] = data
	m.stats.writes++
	return nil
}

// Ping 記憶體儲存永遠可用
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Stats 取得儲存統計
func (m *MemoryStore) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"backend":     "memory",
		"recipes":     len(m.recipes),
		"plans":       len(m.plans),
		"preferences": len(m.preferences),
		"hits":        m.stats.hits,
		"misses":      m.stats.misses,
		"writes":      m.stats.writes,
	}
}

// Close 清空儲存
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	common.LogInfo("記憶體文件儲存已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("寫入次數", m.stats.writes),
	)
	m.recipes = make(map[string]string)
	m.userRecipes = make(map[string][]string)
	m.plans = make(map[string]string)
	m.preferences = make(map[string]string)
	return nil
}
