package auth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"chefmate-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// defaultKeyTTL 回應沒有 max-age 時的快取時間
const defaultKeyTTL = time.Hour

// KeySource 依 kid 取得驗證用公鑰
type KeySource interface {
	PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// GoogleKeySource 從 Google x509 憑證端點取得公鑰並依 Cache-Control 快取
type GoogleKeySource struct {
	client *resty.Client
	url    string

	mu      sync.Mutex
	keys    map[string]*rsa.PublicKey
	expires time.Time
	now     func() time.Time
}

// NewGoogleKeySource 創建憑證來源
func NewGoogleKeySource(certsURL string, timeout time.Duration) *GoogleKeySource {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &GoogleKeySource{
		client: client,
		url:    certsURL,
		now:    time.Now,
	}
}

// PublicKey 取得公鑰，快取過期或找不到 kid 時重新下載
func (g *GoogleKeySource) PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if key, ok := g.keys[kid]; ok && g.now().Before(g.expires) {
		return key, nil
	}

	if err := g.refresh(ctx); err != nil {
		return nil, err
	}

	key, ok := g.keys[kid]
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return key, nil
}

// refresh 呼叫前需持有 g.mu
func (g *GoogleKeySource) refresh(ctx context.Context) error {
	var certs map[string]string
	resp, err := g.client.R().
		SetContext(ctx).
		SetResult(&certs).
		Get(g.url)
	if err != nil {
		return fmt.Errorf("failed to fetch signing certs: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("signing cert endpoint returned %d", resp.StatusCode())
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pemData := range certs {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemData))
		if err != nil {
			common.LogWarn("Skipping unparsable signing cert", zap.String("kid", kid), zap.Error(err))
			continue
		}
		keys[kid] = key
	}
	if len(keys) == 0 {
		return fmt.Errorf("no usable signing certs")
	}

	ttl := maxAge(resp.Header().Get("Cache-Control"))
	g.keys = keys
	g.expires = g.now().Add(ttl)

	common.LogDebug("Signing certs refreshed",
		zap.Int("keys", len(keys)),
		zap.Duration("ttl", ttl),
	)
	return nil
}

// maxAge 解析 Cache-Control 的 max-age
func maxAge(header string) time.Duration {
	for _, directive := range strings.Split(header, ",") {
		directive = strings.TrimSpace(directive)
		if !strings.HasPrefix(directive, "max-age=") {
			continue
		}
		seconds, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age="))
		if err != nil || seconds <= 0 {
			break
		}
		return time.Duration(seconds) * time.Second
	}
	return defaultKeyTTL
}

// StaticKeySource 固定的公鑰集合
type StaticKeySource map[string]*rsa.PublicKey

// PublicKey 實作 KeySource
func (s StaticKeySource) PublicKey(_ context.Context, kid string) (*rsa.PublicKey, error) {
	key, ok := s[kid]
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return key, nil
}
