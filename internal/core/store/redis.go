package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"chefmate-api/internal/infrastructure/config"
	"chefmate-api/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore Redis 文件儲存。
// 食譜以 JSON 存於 {prefix}:recipes:{id}，使用者索引為以建立時間（毫秒）排序的 sorted set。
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 創建 Redis 儲存並測試連線
func NewRedisStore(ctx context.Context, cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 文件儲存已連線",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
	)
	return NewRedisStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreWithClient 使用既有的 client
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "chefmate"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) recipeKey(id string) string {
	return fmt.Sprintf("%s:recipes:%s", s.prefix, id)
}

func (s *RedisStore) userRecipesKey(userID string) string {
	return fmt.Sprintf("%s:users:%s:recipes", s.prefix, userID)
}

func (s *RedisStore) planKey(userID string) string {
	return fmt.Sprintf("%s:planner:%s", s.prefix, userID)
}

func (s *RedisStore) preferencesKey(userID string) string {
	return fmt.Sprintf("%s:preferences:%s", s.prefix, userID)
}

// SaveRecipe 新增或覆寫食譜
func (s *RedisStore) SaveRecipe(ctx context.Context, recipe common.Recipe) error {
	data, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.recipeKey(recipe.ID), data, 0)
		pipe.ZAdd(ctx, s.userRecipesKey(recipe.UserID), &redis.Z{
			Score:  float64(recipe.CreatedAt.UnixMilli()),
			Member: recipe.ID,
		})
		return nil
	})
	if err != nil {
		return common.ErrStoreUnavailable.WithCause(fmt.Errorf("save recipe: %w", err))
	}
	return nil
}

// GetRecipe 取得食譜
func (s *RedisStore) GetRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	var recipe common.Recipe
	if err := s.getJSON(ctx, s.recipeKey(id), &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes 列出使用者的食譜，由新到舊
func (s *RedisStore) ListRecipes(ctx context.Context, userID string) ([]common.Recipe, error) {
	ids, err := s.client.ZRevRange(ctx, s.userRecipesKey(userID), 0, -1).Result()
	if err != nil {
		return nil, common.ErrStoreUnavailable.WithCause(fmt.Errorf("list recipe ids: %w", err))
	}
	if len(ids) == 0 {
		return []common.Recipe{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recipeKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, common.ErrStoreUnavailable.WithCause(fmt.Errorf("load recipes: %w", err))
	}

	recipes := make([]common.Recipe, 0, len(values))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// 索引殘留但文件已刪除
			common.LogWarn("Dangling recipe index entry",
				zap.String("user_id", userID),
				zap.String("recipe_id", ids[i]),
			)
			continue
		}
		var recipe common.Recipe
		if err := common.ParseJSON(str, &recipe); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipe %s: %w", ids[i], err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// DeleteRecipe 刪除食譜與索引
func (s *RedisStore) DeleteRecipe(ctx context.Context, id string) error {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.recipeKey(id))
		pipe.ZRem(ctx, s.userRecipesKey(recipe.UserID), id)
		return nil
	})
	if err != nil {
		return common.ErrStoreUnavailable.WithCause(fmt.Errorf("delete recipe: %w", err))
	}
	return nil
}

// GetPlan 取得週計畫
func (s *RedisStore) GetPlan(ctx context.Context, userID string) (*common.WeeklyPlan, error) {
	var plan common.WeeklyPlan
	if err := s.getJSON(ctx, s.planKey(userID), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// SavePlan 覆寫週計畫
func (s *RedisStore) SavePlan(ctx context.Context, plan common.WeeklyPlan) error {
	return s.setJSON(ctx, s.planKey(plan.UserID), plan)
}

// GetPreferences 取得偏好設定
func (s *RedisStore) GetPreferences(ctx context.Context, userID string) (*common.UserPreferences, error) {
	var prefs common.UserPreferences
	if err := s.getJSON(ctx, s.preferencesKey(userID), &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// SavePreferences 覆寫偏好設定
func (s *RedisStore) SavePreferences(ctx context.Context, prefs common.UserPreferences) error {
	return s.setJSON(ctx, s.preferencesKey(prefs.UserID), prefs)
}

func (s *RedisStore) getJSON(ctx context.Context, key string, v interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return common.ErrNotFound
		}
		return common.ErrStoreUnavailable.WithCause(fmt.Errorf("get %s: %w", key, err))
	}
	if err := common.ParseJSONBytes(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return common.ErrStoreUnavailable.WithCause(fmt.Errorf("set %s: %w", key, err))
	}
	return nil
}

// Ping 檢查連線
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Stats 連線池統計
func (s *RedisStore) Stats() map[string]interface{} {
	ps := s.client.PoolStats()
	return map[string]interface{}{
		"backend":     "redis",
		"hits":        ps.Hits,
		"misses":      ps.Misses,
		"timeouts":    ps.Timeouts,
		"total_conns": ps.TotalConns,
		"idle_conns":  ps.IdleConns,
	}
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	common.LogInfo("Redis 文件儲存已關閉")
	return s.client.Close()
}
