package preferences

import (
	"context"
	"errors"
	"testing"

	"chefmate-api/internal/core/store"
	"chefmate-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_GetMissing(t *testing.T) {
	svc := NewService(store.NewMemoryStore())

	prefs, err := svc.Get(context.Background(), "u1")

	assert.Nil(t, prefs)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestService_GetFillsDefaults(t *testing.T) {
	ctx := context.Background()
	memory := store.NewMemoryStore()
	require.NoError(t, memory.SavePreferences(ctx, common.UserPreferences{UserID: "u1", Name: "Ana"}))
	svc := NewService(memory)

	prefs, err := svc.Get(ctx, "u1")

	require.NoError(t, err)
	assert.Equal(t, "Ana", prefs.Name)
	assert.Equal(t, common.Celcius, prefs.TemperatureUnit)
	assert.NotNil(t, prefs.Diet)
}

func TestService_SaveMerges(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryStore())

	first, err := svc.Save(ctx, "u1", Update{
		Name: common.Ptr("Ana"),
		Diet: []string{"vegan", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", first.UserID)
	assert.Equal(t, []string{"vegan"}, first.Diet)
	assert.Equal(t, common.Celcius, first.TemperatureUnit)
	require.NotNil(t, first.UpdatedAt)

	unit := common.Fahrenheit
	second, err := svc.Save(ctx, "u1", Update{TemperatureUnit: &unit, Allergies: common.Ptr("peanuts")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", second.Name, "untouched fields are kept")
	assert.Equal(t, []string{"vegan"}, second.Diet)
	assert.Equal(t, "peanuts", second.Allergies)
	assert.Equal(t, common.Fahrenheit, second.TemperatureUnit)

	stored, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, common.Fahrenheit, stored.TemperatureUnit)
}

func TestService_SaveRejectsUnknownUnit(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	unit := common.TemperatureUnit("Kelvin")

	_, err := svc.Save(context.Background(), "u1", Update{TemperatureUnit: &unit})

	assert.True(t, common.IsValidationError(err))
}
