package common

import (
	"time"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// Now 目前時間（UTC，毫秒精度，與文件儲存格式一致）
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Ptr 取得值的指標
func Ptr[T any](v T) *T {
	return &v
}
