package config

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockVisible(t *testing.T) {
	yes, no := true, false
	assert.True(t, (&Stock{Name: "a"}).Visible())
	assert.False(t, (&Stock{Name: "a", Infinite: true}).Visible())
	assert.True(t, (&Stock{Name: "a", Infinite: true, Show: &yes}).Visible())
	assert.False(t, (&Stock{Name: "a", Show: &no}).Visible())
}

func TestFormula(t *testing.T) {
	assert.True(t, Formula{}.IsZero())
	assert.False(t, Number(0).IsZero())
	assert.False(t, Expr("a * 2").IsZero())

	assert.Equal(t, "0.5", Number(0.5).String())
	assert.Equal(t, "+Inf", Number(math.Inf(1)).String())
	assert.Equal(t, "a * 2", Expr("a * 2").String())
	assert.Equal(t, "<unset>", Formula{}.String())
}

func TestModelValidate(t *testing.T) {
	negative := -1
	testCases := []struct {
		name      string
		model     *Model
		errSubstr string
	}{
		{
			name: "valid",
			model: &Model{
				Name:   "m",
				Stocks: []*Stock{{Name: "a"}, {Name: "b"}},
				Flows:  []*Flow{{Kind: "rate", From: "a", To: "b", Rate: Number(1)}},
			},
		},
		{name: "missing name", model: &Model{Filename: "x.hcl"}, errSubstr: "x.hcl has no name"},
		{name: "negative rounds", model: &Model{Name: "m", Rounds: &negative}, errSubstr: "must not be negative"},
		{name: "unnamed stock", model: &Model{Name: "m", Stocks: []*Stock{{}}}, errSubstr: "stock #1 has no name"},
		{name: "flow without kind", model: &Model{Name: "m", Flows: []*Flow{{From: "a", To: "b", Rate: Number(1)}}}, errSubstr: "has no kind"},
		{name: "flow without target", model: &Model{Name: "m", Flows: []*Flow{{Kind: "rate", From: "a", Rate: Number(1)}}}, errSubstr: "both 'from' and 'to'"},
		{name: "flow without rate", model: &Model{Name: "m", Flows: []*Flow{{Kind: "rate", From: "a", To: "b"}}}, errSubstr: "has no rate"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.model.Validate()
			if tc.errSubstr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errSubstr)
		})
	}
}
