// Package search 依關鍵字為使用者的食譜排序。
package search

import (
	"sort"
	"strings"

	"chefmate-api/internal/pkg/common"
)

// 各欄位命中的分數
const (
	titleWordScore       = 10
	exactTitleScore      = 20
	descriptionWordScore = 5
	ingredientWordScore  = 3
)

type scoredCandidate struct {
	recipe common.Recipe
	score  int
}

// Rank 依查詢字串重新排序食譜。
// 空白查詢原樣返回；有分數者依分數遞減（同分維持原順序）排在前，其餘維持原順序接在後。
// 不會刪除任何食譜，也不會修改輸入。
func Rank(recipes []common.Recipe, query string) []common.Recipe {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return recipes
	}
	queryWords := strings.Fields(normalized)

	matches := make([]scoredCandidate, 0, len(recipes))
	others := make([]common.Recipe, 0, len(recipes))
	for _, r := range recipes {
		score := Score(r, normalized, queryWords)
		if score > 0 {
			matches = append(matches, scoredCandidate{recipe: r, score: score})
		} else {
			others = append(others, r)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]common.Recipe, 0, len(recipes))
	for _, m := range matches {
		out = append(out, m.recipe)
	}
	return append(out, others...)
}

// Score 計算單一食譜的分數，normalized 為小寫且去頭尾空白的查詢字串
func Score(r common.Recipe, normalized string, queryWords []string) int {
	titleText := strings.ToLower(r.Title)
	descriptionText := strings.ToLower(r.Description)
	ingredientsText := strings.ToLower(r.IngredientNames())

	score := 0
	for _, word := range queryWords {
		if strings.Contains(titleText, word) {
			score += titleWordScore
		}
		if strings.Contains(descriptionText, word) {
			score += descriptionWordScore
		}
		if strings.Contains(ingredientsText, word) {
			score += ingredientWordScore
		}
	}
	if normalized == titleText {
		score += exactTitleScore
	}
	return score
}
