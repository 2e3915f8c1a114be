// Package auth 驗證身分提供者（Firebase Authentication）簽發的 ID token。
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chefmate-api/internal/infrastructure/config"
	"chefmate-api/internal/pkg/common"

	"github.com/golang-jwt/jwt/v5"
)

// Claims Firebase ID token 內容
type Claims struct {
	jwt.RegisteredClaims
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	AuthTime      int64  `json:"auth_time,omitempty"`
}

// User 已驗證的使用者
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// TokenVerifier 驗證 ID token
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// Verifier RS256 ID token 驗證器
type Verifier struct {
	keys   KeySource
	parser *jwt.Parser
}

// IssuerFor 專案對應的簽發者
func IssuerFor(projectID string) string {
	return "https://securetoken.google.com/" + projectID
}

// NewVerifier 創建驗證器
func NewVerifier(keys KeySource, projectID string, leeway time.Duration) *Verifier {
	return &Verifier{
		keys: keys,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithAudience(projectID),
			jwt.WithIssuer(IssuerFor(projectID)),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(leeway),
		),
	}
}

// NewVerifierFromConfig 以 Google 憑證端點創建驗證器
func NewVerifierFromConfig(cfg config.AuthConfig) *Verifier {
	return NewVerifier(NewGoogleKeySource(cfg.CertsURL, 10*time.Second), cfg.ProjectID, cfg.Leeway)
}

// Verify 驗證 token 並回傳使用者
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*User, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token has no key id")
		}
		return v.keys.PublicKey(ctx, kid)
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrUnauthorized.WithMessage("Token has expired")
		}
		return nil, common.ErrUnauthorized.WithMessage("Invalid authentication token").
			WithCause(fmt.Errorf("failed to parse token: %w", err))
	}

	if claims.Subject == "" {
		return nil, common.ErrUnauthorized.WithMessage("Invalid authentication token")
	}

	return &User{UID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}
