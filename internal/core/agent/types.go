// Package agent 從語音助理的對話文字中擷取食譜。
//
// 助理偶爾會在回覆裡夾帶 JSON 格式的食譜，可能包在 ``` 程式碼區塊內，也可能直接出現在句子中。
// 本套件的函式皆為純函式，格式錯誤屬於正常輸入，一律以「不存在」表示而不回傳錯誤。
package agent

// AgentIngredient 助理提供的食材，數量為自由文字
type AgentIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// AgentRecipe 助理回覆中的食譜格式
type AgentRecipe struct {
	Name        string            `json:"name"`
	Ingredients []AgentIngredient `json:"ingredients"`
	Steps       []string          `json:"steps"`
	PrepTime    *int              `json:"prep_time,omitempty"`
	CookTime    *int              `json:"cook_time,omitempty"`
	TotalTime   *int              `json:"total_time,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
}

// Quantity 解析後的數量與單位，兩者皆可省略
type Quantity struct {
	Amount *float64 `json:"amount,omitempty"`
	Unit   *string  `json:"unit,omitempty"`
}

// NormalizedIngredient 數量已解析的食材
type NormalizedIngredient struct {
	Name   string   `json:"name"`
	Amount *float64 `json:"amount,omitempty"`
	Unit   *string  `json:"unit,omitempty"`
}

// Outcome 擷取結果分類
type Outcome int

const (
	// OutcomeNotFound 訊息中沒有候選 JSON
	OutcomeNotFound Outcome = iota
	// OutcomeInvalid 找到候選文字但解析或欄位驗證失敗
	OutcomeInvalid
	// OutcomeFound 成功取得食譜
	OutcomeFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "not_found"
	}
}

// Result 帶分類的擷取結果
type Result struct {
	Outcome   Outcome
	Recipe    *AgentRecipe
	Candidate string
	Err       error
}
