package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"chefmate-api/internal/core/store"
	"chefmate-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayNames(plan *common.WeeklyPlan) []string {
	out := make([]string, len(plan.Days))
	for i, d := range plan.Days {
		out[i] = d.Day
	}
	return out
}

func TestService_GetReturnsEmptyWeekWhenMissing(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), nil, nil)

	plan, err := svc.Get(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", plan.UserID)
	assert.Equal(t, Weekdays, dayNames(plan))
	for _, d := range plan.Days {
		assert.NotNil(t, d.Breakfast)
		assert.Empty(t, d.Breakfast)
	}
}

func TestService_SaveNormalizesAndOrdersDays(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryStore(), nil, nil)

	input := common.WeeklyPlanCreate{Days: map[string]map[string][]string{
		"Sunday":  {"Dinner": {"Roast"}},
		" monday": {"breakfast": {"Eggs", "  "}, "snack": {"Chips"}},
	}}

	plan, err := svc.Save(ctx, "u1", input)
	require.NoError(t, err)
	assert.Equal(t, Weekdays, dayNames(plan))

	monday := plan.Days[0]
	require.Len(t, monday.Breakfast, 1)
	assert.Equal(t, "Eggs", monday.Breakfast[0].Name)
	assert.Equal(t, common.DefaultMealEmoji, monday.Breakfast[0].Emoji)
	assert.Nil(t, monday.Breakfast[0].RecipeID)

	sunday := plan.Days[6]
	require.Len(t, sunday.Dinner, 1)
	assert.Equal(t, "Roast", sunday.Dinner[0].Name)

	stored, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, plan.Days, stored.Days)
}

func TestService_SaveRejectsUnknownDay(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), nil, nil)

	_, err := svc.Save(context.Background(), "u1", common.WeeklyPlanCreate{
		Days: map[string]map[string][]string{"funday": {"lunch": {"Cake"}}},
	})

	assert.True(t, common.IsValidationError(err))
}

func TestService_SaveLinksRecipesByTitle(t *testing.T) {
	ctx := context.Background()
	memory := store.NewMemoryStore()
	require.NoError(t, memory.SaveRecipe(ctx, common.Recipe{
		ID: "r1", UserID: "u1", Title: "Tomato Soup", CreatedAt: time.Now(),
	}))
	require.NoError(t, memory.SaveRecipe(ctx, common.Recipe{
		ID: "r2", UserID: "u2", Title: "Pasta", CreatedAt: time.Now(),
	}))
	svc := NewService(memory, memory, nil)

	plan, err := svc.Save(ctx, "u1", common.WeeklyPlanCreate{
		Days: map[string]map[string][]string{"tuesday": {"lunch": {"tomato soup", "Pasta"}}},
	})

	require.NoError(t, err)
	lunch := plan.Days[1].Lunch
	require.Len(t, lunch, 2)
	require.NotNil(t, lunch[0].RecipeID)
	assert.Equal(t, "r1", *lunch[0].RecipeID)
	assert.Nil(t, lunch[1].RecipeID, "another user's recipe is not linked")
}

func TestService_ParseAgentPlan(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), nil, nil)

	msg := "Here's your week:\n```json\n{\"days\": {\"monday\": {\"dinner\": [\"Tacos\"]}}}\n```\nEnjoy!"
	input, ok := svc.ParseAgentPlan(msg)

	require.True(t, ok)
	assert.Equal(t, []string{"Tacos"}, input.Days["monday"]["dinner"])
}

func TestService_ParseAgentPlanRejects(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), nil, nil)

	for _, msg := range []string{
		"no plan",
		`{"days": {}}`,
		`{"days": "monday"}`,
		`{"days": {"monday": {"dinner": "Tacos"}}}`,
		`{not json}`,
	} {
		input, ok := svc.ParseAgentPlan(msg)
		assert.False(t, ok, msg)
		assert.Nil(t, input, msg)
	}
}

type failingPlans struct{}

func (failingPlans) GetPlan(context.Context, string) (*common.WeeklyPlan, error) {
	return nil, common.ErrStoreUnavailable
}

func (failingPlans) SavePlan(context.Context, common.WeeklyPlan) error {
	return common.ErrStoreUnavailable
}

func TestService_StoreErrorsPropagate(t *testing.T) {
	svc := NewService(failingPlans{}, nil, nil)

	_, err := svc.Get(context.Background(), "u1")
	assert.True(t, errors.Is(err, common.ErrStoreUnavailable))

	_, err = svc.Save(context.Background(), "u1", common.WeeklyPlanCreate{})
	assert.True(t, errors.Is(err, common.ErrStoreUnavailable))
}
