// Package voice 取得語音助理（ElevenLabs Conversational AI）的短期對話 token。
package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"chefmate-api/internal/infrastructure/config"
	"chefmate-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Agent 語音助理種類
type Agent string

const (
	AgentDiscover Agent = "discover"
	AgentCook     Agent = "cook"
	AgentPlanner  Agent = "planner"
)

// envName 設定缺漏時提示的環境變數名稱
func (a Agent) envName() string {
	switch a {
	case AgentCook:
		return "ELEVENLABS_COOK_AGENT_ID"
	case AgentPlanner:
		return "ELEVENLABS_PLANNER_AGENT_ID"
	default:
		return "ELEVENLABS_DISCOVER_AGENT_ID"
	}
}

// TokenProvider 取得對話 token
type TokenProvider interface {
	ConversationToken(ctx context.Context, agent Agent) (string, error)
}

// Client ElevenLabs 客戶端
type Client struct {
	cfg    config.ElevenLabsConfig
	client *resty.Client
}

// NewClient 創建 ElevenLabs 客戶端
func NewClient(cfg config.ElevenLabsConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		cfg:    cfg,
		client: client,
	}
}

func (c *Client) agentID(agent Agent) string {
	switch agent {
	case AgentCook:
		return c.cfg.CookAgentID
	case AgentPlanner:
		return c.cfg.PlannerAgentID
	default:
		return c.cfg.DiscoverAgentID
	}
}

// ConversationToken 取得指定助理的對話 token
func (c *Client) ConversationToken(ctx context.Context, agent Agent) (string, error) {
	if c.cfg.APIKey == "" {
		return "", common.ErrConfiguration.WithMessage("ELEVENLABS_API_KEY not configured")
	}
	agentID := c.agentID(agent)
	if agentID == "" {
		return "", common.ErrConfiguration.WithMessage(agent.envName() + " not configured")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("xi-api-key", c.cfg.APIKey).
		SetQueryParam("agent_id", agentID).
		Get("/v1/convai/conversation/token")
	if err != nil {
		common.LogError("ElevenLabs request failed",
			zap.String("agent", string(agent)),
			zap.Error(err),
		)
		return "", common.ErrUpstream.WithCause(fmt.Errorf("failed to send request to ElevenLabs: %w", err))
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("ElevenLabs API returned error",
			zap.String("agent", string(agent)),
			zap.Int("status", resp.StatusCode()),
		)
		if resp.StatusCode() == http.StatusNotFound {
			return "", common.ErrUpstream.WithMessage(
				fmt.Sprintf("ElevenLabs agent not found. Check %s: %s", agent.envName(), agentID))
		}
		return "", common.ErrUpstream.WithMessage(fmt.Sprintf("ElevenLabs API error: %d", resp.StatusCode()))
	}

	var result struct {
		Token *string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", common.ErrUpstream.WithCause(fmt.Errorf("failed to parse ElevenLabs response: %w", err))
	}
	if result.Token == nil {
		return "", common.ErrUpstream.WithMessage("Invalid response from ElevenLabs: missing token")
	}

	common.LogDebug("ElevenLabs token issued", zap.String("agent", string(agent)))
	return *result.Token, nil
}
