package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const omeletteJSON = `{"name":"Omelette","ingredients":[{"name":"egg","quantity":"2"}],"steps":["Beat eggs","Cook"]}`

func TestParseAgentRecipe_FencedBlock(t *testing.T) {
	msg := "Here is your recipe:\n```json " + omeletteJSON + " ```\nEnjoy!"

	recipe, ok := ParseAgentRecipe(msg)

	require.True(t, ok)
	require.NotNil(t, recipe)
	assert.Equal(t, "Omelette", recipe.Name)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, AgentIngredient{Name: "egg", Quantity: "2"}, recipe.Ingredients[0])
	assert.Equal(t, []string{"Beat eggs", "Cook"}, recipe.Steps)
}

func TestParseAgentRecipe_FencedBlockWithoutLanguageTag(t *testing.T) {
	msg := "```\n" + omeletteJSON + "\n```"

	recipe, ok := ParseAgentRecipe(msg)

	require.True(t, ok)
	assert.Equal(t, "Omelette", recipe.Name)
}

func TestParseAgentRecipe_BareObjectInProse(t *testing.T) {
	msg := "Sure thing! " + omeletteJSON + " Let me know if you want another."

	recipe, ok := ParseAgentRecipe(msg)

	require.True(t, ok)
	assert.Equal(t, "Omelette", recipe.Name)
}

func TestParseAgentRecipe_OptionalFieldsPassThrough(t *testing.T) {
	msg := `{"name":"Pancakes","ingredients":[],"steps":[],"prep_time":10,"cook_time":15,"total_time":25,"tags":["breakfast","sweet"]}`

	recipe, ok := ParseAgentRecipe(msg)

	require.True(t, ok)
	require.NotNil(t, recipe.PrepTime)
	require.NotNil(t, recipe.CookTime)
	require.NotNil(t, recipe.TotalTime)
	assert.Equal(t, 10, *recipe.PrepTime)
	assert.Equal(t, 15, *recipe.CookTime)
	assert.Equal(t, 25, *recipe.TotalTime)
	assert.Equal(t, []string{"breakfast", "sweet"}, recipe.Tags)
	assert.Empty(t, recipe.Steps)
}

func TestParseAgentRecipe_LenientOptionalFields(t *testing.T) {
	ten, eight := 10, 8
	tests := []struct {
		name        string
		message     string
		ingredients []AgentIngredient
		steps       []string
		prepTime    *int
		cookTime    *int
		tags        []string
	}{
		{
			name:        "numeric quantity becomes text",
			message:     `{"name":"Omelette","ingredients":[{"name":"egg","quantity":2}],"steps":["Cook"]}`,
			ingredients: []AgentIngredient{{Name: "egg", Quantity: "2"}},
			steps:       []string{"Cook"},
		},
		{
			name:        "quoted prep time is parsed",
			message:     `{"name":"Toast","ingredients":[],"steps":[],"prep_time":"10"}`,
			ingredients: []AgentIngredient{},
			steps:       []string{},
			prepTime:    &ten,
		},
		{
			name:        "fractional cook time is rounded",
			message:     `{"name":"Toast","ingredients":[],"steps":[],"cook_time":7.5}`,
			ingredients: []AgentIngredient{},
			steps:       []string{},
			cookTime:    &eight,
		},
		{
			name:        "single tag string",
			message:     `{"name":"Toast","ingredients":[],"steps":[],"tags":"breakfast"}`,
			ingredients: []AgentIngredient{},
			steps:       []string{},
			tags:        []string{"breakfast"},
		},
		{
			name:        "unusable optional values are dropped",
			message:     `{"name":"Toast","ingredients":[{"name":"bread","quantity":{"n":1}},"salt"],"steps":["toast",{"x":1}],"prep_time":"soon","tags":{"a":1}}`,
			ingredients: []AgentIngredient{{Name: "bread"}},
			steps:       []string{"toast"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Extract(tt.message)

			require.Equal(t, OutcomeFound, res.Outcome, "%v", res.Err)
			require.NotNil(t, res.Recipe)
			assert.Equal(t, tt.ingredients, res.Recipe.Ingredients)
			assert.Equal(t, tt.steps, res.Recipe.Steps)
			assert.Equal(t, tt.prepTime, res.Recipe.PrepTime)
			assert.Equal(t, tt.cookTime, res.Recipe.CookTime)
			assert.Equal(t, tt.tags, res.Recipe.Tags)
		})
	}
}

func TestParseAgentRecipe_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		message string
		outcome Outcome
	}{
		{"no braces", "What would you like to cook today?", OutcomeNotFound},
		{"only closing brace", "oops } here", OutcomeNotFound},
		{"closing before opening", "} then {", OutcomeNotFound},
		{"missing steps", `{"name":"Toast","ingredients":[]}`, OutcomeInvalid},
		{"steps not a list", `{"name":"Toast","ingredients":[],"steps":"toast it"}`, OutcomeInvalid},
		{"ingredients not a list", `{"name":"Toast","ingredients":{},"steps":[]}`, OutcomeInvalid},
		{"empty name", `{"name":"","ingredients":[],"steps":[]}`, OutcomeInvalid},
		{"name not a string", `{"name":42,"ingredients":[],"steps":[]}`, OutcomeInvalid},
		{"malformed json", `{"name":"Toast", ingredients: []}`, OutcomeInvalid},
		{"prose braces", "I {love} cooking", OutcomeInvalid},
		{"two objects over-matched", `{"name":"A","ingredients":[],"steps":[]} and {"name":"B","ingredients":[],"steps":[]}`, OutcomeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipe, ok := ParseAgentRecipe(tt.message)
			assert.False(t, ok)
			assert.Nil(t, recipe)

			res := Extract(tt.message)
			assert.Equal(t, tt.outcome, res.Outcome, res.Outcome.String())
			if tt.outcome == OutcomeInvalid {
				assert.Error(t, res.Err)
				assert.NotEmpty(t, res.Candidate)
			}
		})
	}
}

func TestExtractJSON_PrefersFencedBlock(t *testing.T) {
	msg := "{not this} ```json\n{\"name\":\"x\"}\n``` trailing }"

	got, ok := ExtractJSON(msg)

	require.True(t, ok)
	assert.Equal(t, `{"name":"x"}`, got)
}

func TestExtractJSON_GreedySpanIsTrimmed(t *testing.T) {
	got, ok := ExtractJSON("prefix { \"a\": 1 } suffix")

	require.True(t, ok)
	assert.Equal(t, `{ "a": 1 }`, got)
}

func TestDetect(t *testing.T) {
	assert.True(t, Detect("```json {\"a\":1} ```"))
	assert.True(t, Detect("look {here}"))
	assert.True(t, Detect("{}"))
	assert.False(t, Detect("no json at all"))
	assert.False(t, Detect("} {"))
}

func TestExtractor_BalancedFinderIsolatesFirstObject(t *testing.T) {
	ex := NewExtractor(BalancedSpanFinder{})
	msg := `Option one: {"name":"A","ingredients":[],"steps":["go"]} or option two: {"name":"B","ingredients":[],"steps":[]}`

	recipe, ok := ex.ParseAgentRecipe(msg)

	require.True(t, ok)
	assert.Equal(t, "A", recipe.Name)
}

func TestExtractor_NilFinderDefaultsToGreedy(t *testing.T) {
	ex := NewExtractor(nil)

	_, ok := ex.ParseAgentRecipe("text " + omeletteJSON)

	assert.True(t, ok)
}
