// Package preferences 使用者偏好設定（姓名、飲食限制、過敏原、溫度單位）。
package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chefmate-api/internal/core/store"
	"chefmate-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Update 部分更新，nil 欄位維持原值
type Update struct {
	Name            *string                 `json:"name"`
	Diet            []string                `json:"diet"`
	Allergies       *string                 `json:"allergies"`
	TemperatureUnit *common.TemperatureUnit `json:"temperatureUnit"`
}

// Service 偏好設定服務
type Service struct {
	store store.PreferencesStore
}

// NewService 創建偏好設定服務
func NewService(prefsStore store.PreferencesStore) *Service {
	return &Service{store: prefsStore}
}

// Get 取得偏好設定，尚未設定時回傳 common.ErrNotFound
func (s *Service) Get(ctx context.Context, userID string) (*common.UserPreferences, error) {
	prefs, err := s.store.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithMessage("preferences not found")
		}
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return withDefaults(userID, prefs), nil
}

// Save 合併更新並寫入 updatedAt
func (s *Service) Save(ctx context.Context, userID string, update Update) (*common.UserPreferences, error) {
	if update.TemperatureUnit != nil && !ValidUnit(*update.TemperatureUnit) {
		return nil, common.NewValidationError(fmt.Sprintf("temperatureUnit must be %q or %q", common.Celcius, common.Fahrenheit))
	}

	current, err := s.store.GetPreferences(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("get preferences: %w", err)
		}
		current = &common.UserPreferences{}
	}

	merged := merge(withDefaults(userID, current), update)
	merged.UpdatedAt = common.Ptr(common.Now())

	if err := s.store.SavePreferences(ctx, *merged); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}

	common.LogInfo("偏好設定已更新",
		zap.String("user_id", userID),
		zap.String("temperature_unit", string(merged.TemperatureUnit)),
	)
	return merged, nil
}

// ValidUnit 檢查溫度單位
func ValidUnit(unit common.TemperatureUnit) bool {
	return unit == common.Celcius || unit == common.Fahrenheit
}

func merge(current *common.UserPreferences, update Update) *common.UserPreferences {
	out := *current
	if update.Name != nil {
		out.Name = strings.TrimSpace(*update.Name)
	}
	if update.Diet != nil {
		out.Diet = make([]string, 0, len(update.Diet))
		for _, d := range update.Diet {
			if d = strings.TrimSpace(d); d != "" {
				out.Diet = append(out.Diet, d)
			}
		}
	}
	if update.Allergies != nil {
		out.Allergies = strings.TrimSpace(*update.Allergies)
	}
	if update.TemperatureUnit != nil {
		out.TemperatureUnit = *update.TemperatureUnit
	}
	return &out
}

// withDefaults 補齊缺少的欄位
func withDefaults(userID string, prefs *common.UserPreferences) *common.UserPreferences {
	out := *prefs
	if out.UserID == "" {
		out.UserID = userID
	}
	if out.Diet == nil {
		out.Diet = []string{}
	}
	if !ValidUnit(out.TemperatureUnit) {
		out.TemperatureUnit = common.Celcius
	}
	return &out
}
