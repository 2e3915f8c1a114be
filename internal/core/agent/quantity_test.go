package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func amount(v float64) *float64 { return &v }
func unit(s string) *string     { return &s }

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want Quantity
	}{
		{"1/2 cup", Quantity{Amount: amount(0.5), Unit: unit("cup")}},
		{"2 tbsp", Quantity{Amount: amount(2), Unit: unit("tbsp")}},
		{"salt", Quantity{Unit: unit("salt")}},
		{"", Quantity{}},
		{"   ", Quantity{}},
		{"3", Quantity{Amount: amount(3)}},
		{"  1.5   kg  ", Quantity{Amount: amount(1.5), Unit: unit("kg")}},
		{"250g", Quantity{Amount: amount(250), Unit: unit("g")}},
		{"3/4", Quantity{Amount: amount(0.75)}},
		{"1/0 cup", Quantity{Unit: unit("cup")}},
		{"/2 cup", Quantity{Unit: unit("cup")}},
		{"1/2/3 cup", Quantity{Unit: unit("cup")}},
		{"1.2.3 l", Quantity{Unit: unit("l")}},
		{". pinch", Quantity{Unit: unit("pinch")}},
		{"half a cup", Quantity{Unit: unit("half a cup")}},
		{"a pinch of salt", Quantity{Unit: unit("a pinch of salt")}},
		// 帶分數不支援：只取第一個數字，其餘當單位
		{"1 1/2 cups", Quantity{Amount: amount(1), Unit: unit("1/2 cups")}},
		{"2\ncloves", Quantity{Amount: amount(2), Unit: unit("cloves")}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseQuantity(tt.in)
			if tt.want.Amount == nil {
				assert.Nil(t, got.Amount)
			} else if assert.NotNil(t, got.Amount) {
				assert.InDelta(t, *tt.want.Amount, *got.Amount, 1e-9)
			}
			assert.Equal(t, tt.want.Unit, got.Unit)
		})
	}
}
