package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"chefmate-api/internal/pkg/common"

	"go.uber.org/zap"
)

// fencedBlockPattern ```json { ... } ```，語言標籤可省略，物件取最短匹配
var fencedBlockPattern = regexp.MustCompile("```(?:[A-Za-z0-9_+-]+)?\\s*(\\{[\\s\\S]*?\\})\\s*```")

var (
	errMissingName        = errors.New("missing name")
	errIngredientsNotList = errors.New("ingredients is not a list")
	errStepsNotList       = errors.New("steps is not a list")
)

// Extractor 食譜擷取器，SpanFinder 決定程式碼區塊以外的擷取方式
type Extractor struct {
	finder SpanFinder
}

// NewExtractor 創建擷取器，finder 為 nil 時使用 GreedySpanFinder
func NewExtractor(finder SpanFinder) *Extractor {
	if finder == nil {
		finder = GreedySpanFinder{}
	}
	return &Extractor{finder: finder}
}

var defaultExtractor = NewExtractor(GreedySpanFinder{})

// Detect 判斷訊息是否可能含有食譜 JSON
func Detect(message string) bool { return defaultExtractor.Detect(message) }

// ExtractJSON 取出訊息中的候選 JSON 文字
func ExtractJSON(message string) (string, bool) { return defaultExtractor.ExtractJSON(message) }

// ParseAgentRecipe 解析並驗證訊息中的食譜，失敗時回傳 false
func ParseAgentRecipe(message string) (*AgentRecipe, bool) {
	return defaultExtractor.ParseAgentRecipe(message)
}

// Extract 與 ParseAgentRecipe 相同，但區分「找不到」與「格式錯誤」
func Extract(message string) Result { return defaultExtractor.Extract(message) }

// Detect 判斷訊息是否可能含有食譜 JSON
func (e *Extractor) Detect(message string) bool {
	if fencedBlockPattern.MatchString(message) {
		return true
	}
	_, ok := e.finder.FindSpan(message)
	return ok
}

// ExtractJSON 先找程式碼區塊，再交給 SpanFinder
func (e *Extractor) ExtractJSON(message string) (string, bool) {
	if m := fencedBlockPattern.FindStringSubmatch(message); m != nil && m[1] != "" {
		return strings.TrimSpace(m[1]), true
	}
	if span, ok := e.finder.FindSpan(message); ok {
		return strings.TrimSpace(span), true
	}
	return "", false
}

// ParseAgentRecipe 解析並驗證訊息中的食譜，失敗時回傳 false
func (e *Extractor) ParseAgentRecipe(message string) (*AgentRecipe, bool) {
	res := e.Extract(message)
	return res.Recipe, res.Outcome == OutcomeFound
}

// Extract 擷取、解析並驗證訊息中的食譜
func (e *Extractor) Extract(message string) Result {
	candidate, ok := e.ExtractJSON(message)
	if !ok {
		return Result{Outcome: OutcomeNotFound}
	}

	recipe, err := parseCandidate(candidate)
	if err != nil {
		common.LogWarn("Agent recipe rejected",
			zap.Error(err),
			zap.Int("candidate_length", len(candidate)),
		)
		return Result{Outcome: OutcomeInvalid, Candidate: candidate, Err: err}
	}

	common.LogDebug("Agent recipe parsed",
		zap.String("name", recipe.Name),
		zap.Int("ingredients", len(recipe.Ingredients)),
		zap.Int("steps", len(recipe.Steps)),
	)
	return Result{Outcome: OutcomeFound, Recipe: recipe, Candidate: candidate}
}

// parseCandidate 解析 JSON 並檢查必要欄位。
// 必要欄位之外採寬鬆轉換：數字數量轉為文字，型別不符的選填欄位直接捨棄。
func parseCandidate(candidate string) (*AgentRecipe, error) {
	var raw map[string]interface{}
	if err := common.ParseJSON(candidate, &raw); err != nil {
		return nil, fmt.Errorf("parse candidate: %w", err)
	}
	if err := validateShape(raw); err != nil {
		return nil, err
	}

	recipe := &AgentRecipe{
		Name:        raw["name"].(string),
		Ingredients: toIngredients(raw["ingredients"].([]interface{})),
		Steps:       toSteps(raw["steps"].([]interface{})),
		PrepTime:    toMinutes("prep_time", raw["prep_time"]),
		CookTime:    toMinutes("cook_time", raw["cook_time"]),
		TotalTime:   toMinutes("total_time", raw["total_time"]),
		Tags:        toTags(raw["tags"]),
	}
	return recipe, nil
}

func validateShape(raw map[string]interface{}) error {
	if name, ok := raw["name"].(string); !ok || name == "" {
		return errMissingName
	}
	if _, ok := raw["ingredients"].([]interface{}); !ok {
		return errIngredientsNotList
	}
	if _, ok := raw["steps"].([]interface{}); !ok {
		return errStepsNotList
	}
	return nil
}

// scalarText 字串與數字轉為文字，其餘型別回傳 false
func scalarText(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

func toIngredients(items []interface{}) []AgentIngredient {
	out := make([]AgentIngredient, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			common.LogDebug("Dropping non-object ingredient", zap.Int("index", i))
			continue
		}
		name, ok := scalarText(obj["name"])
		if !ok || strings.TrimSpace(name) == "" {
			common.LogDebug("Dropping ingredient without name", zap.Int("index", i))
			continue
		}
		ing := AgentIngredient{Name: name}
		if q, present := obj["quantity"]; present && q != nil {
			if text, ok := scalarText(q); ok {
				ing.Quantity = text
			} else {
				common.LogDebug("Ignoring ingredient quantity", zap.Int("index", i))
			}
		}
		out = append(out, ing)
	}
	return out
}

func toSteps(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for i, item := range items {
		text, ok := scalarText(item)
		if !ok {
			common.LogDebug("Dropping non-text step", zap.Int("index", i))
			continue
		}
		out = append(out, text)
	}
	return out
}

// toMinutes 接受數字或數字字串，小數四捨五入；無法轉換時回傳 nil
func toMinutes(field string, v interface{}) *int {
	if v == nil {
		return nil
	}
	var text string
	switch t := v.(type) {
	case json.Number:
		text = t.String()
	case string:
		text = strings.TrimSpace(t)
	default:
		common.LogDebug("Ignoring time field", zap.String("field", field))
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		common.LogDebug("Ignoring time field", zap.String("field", field), zap.String("value", text))
		return nil
	}
	minutes := int(math.Round(f))
	return &minutes
}

// toTags 只接受字串陣列，單一字串視為一個標籤
func toTags(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	case []interface{}:
		tags := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		common.LogDebug("Ignoring tags field")
		return nil
	}
}
