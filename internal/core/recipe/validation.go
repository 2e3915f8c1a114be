package recipe

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"chefmate-api/internal/pkg/common"
)

// MaxTitleLength 標題長度上限（字元數）
const MaxTitleLength = 200

// Validate 檢查新食譜並回傳去除前後空白的副本
func Validate(input common.NewRecipe) (common.NewRecipe, error) {
	out := input
	out.Title = strings.TrimSpace(input.Title)
	out.Description = strings.TrimSpace(input.Description)

	if out.Title == "" {
		return out, common.NewValidationError("title is required")
	}
	if utf8.RuneCountInString(out.Title) > MaxTitleLength {
		return out, common.NewValidationError(fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
	}

	if len(input.Ingredients) == 0 {
		return out, common.NewValidationError("at least one ingredient is required")
	}
	out.Ingredients = make([]common.Ingredient, len(input.Ingredients))
	for i, ing := range input.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			return out, common.NewValidationError(fmt.Sprintf("ingredient %d has no name", i+1))
		}
		out.Ingredients[i] = common.Ingredient{Name: name, Amount: ing.Amount, Unit: ing.Unit}
	}

	if len(input.Instructions) == 0 {
		return out, common.NewValidationError("at least one instruction is required")
	}
	out.Instructions = make([]string, len(input.Instructions))
	for i, step := range input.Instructions {
		step = strings.TrimSpace(step)
		if step == "" {
			return out, common.NewValidationError(fmt.Sprintf("instruction %d is empty", i+1))
		}
		out.Instructions[i] = step
	}

	if input.PrepTime != nil && *input.PrepTime < 0 {
		return out, common.NewValidationError("prepTime must not be negative")
	}
	if input.CookTime != nil && *input.CookTime < 0 {
		return out, common.NewValidationError("cookTime must not be negative")
	}
	if input.Servings != nil && *input.Servings < 1 {
		return out, common.NewValidationError("servings must be at least 1")
	}

	return out, nil
}
