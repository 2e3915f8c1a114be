package agent

import (
	"strings"

	"chefmate-api/internal/pkg/common"
)

// NormalizeIngredients 逐一解析食材的數量文字
func NormalizeIngredients(draft *AgentRecipe) []NormalizedIngredient {
	out := make([]NormalizedIngredient, 0, len(draft.Ingredients))
	for _, ing := range draft.Ingredients {
		q := ParseQuantity(ing.Quantity)
		out = append(out, NormalizedIngredient{
			Name:   ing.Name,
			Amount: q.Amount,
			Unit:   q.Unit,
		})
	}
	return out
}

// ToNewRecipe 轉為尚未儲存的食譜。助理不提供份量與圖片，兩者一律留空。
func ToNewRecipe(draft *AgentRecipe, userID string) common.NewRecipe {
	normalized := NormalizeIngredients(draft)
	ingredients := make([]common.Ingredient, len(normalized))
	for i, n := range normalized {
		ingredients[i] = common.Ingredient{Name: n.Name, Amount: n.Amount, Unit: n.Unit}
	}

	instructions := make([]string, len(draft.Steps))
	copy(instructions, draft.Steps)

	return common.NewRecipe{
		UserID:       userID,
		Title:        draft.Name,
		Description:  strings.Join(draft.Tags, ", "),
		Ingredients:  ingredients,
		Instructions: instructions,
		PrepTime:     draft.PrepTime,
		CookTime:     draft.CookTime,
	}
}
