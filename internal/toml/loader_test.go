package toml

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stockflow/internal/config"
	"github.com/vk/stockflow/internal/testutil"
)

const funnelTOML = `
[[model]]
name = "Hiring funnel"
rounds = 10

[[model.stock]]
name = "Candidates"
infinite = true

[[model.stock]]
name = "Phone Screen"

[[model.stock]]
name = "Onsites"
maximum = 40
initial = 0.0

[[model.stock]]
name = "Pool"
maximum = inf
show = false

[[model.flow]]
kind = "rate"
from = "Candidates"
to = "Phone Screen"
rate = 2

[[model.flow]]
kind = "conversion"
from = "Phone Screen"
to = "Onsites"
rate = "0.5"

[[model.flow]]
kind = "leak"
from = "Onsites"
to = "Pool"
rate = '"Phone Screen" / 100'
`

func TestLoadBytes(t *testing.T) {
	models, err := NewLoader().LoadBytes(context.Background(), []byte(funnelTOML), "funnel.toml")
	require.NoError(t, err)
	require.Len(t, models, 1)

	rounds := 10
	hidden := false
	expected := &config.Model{
		Name:     "Hiring funnel",
		Rounds:   &rounds,
		Filename: "funnel.toml",
		Stocks: []*config.Stock{
			{Name: "Candidates", Infinite: true},
			{Name: "Phone Screen"},
			{Name: "Onsites", Initial: config.Number(0), Maximum: config.Number(40)},
			{Name: "Pool", Maximum: config.Number(math.Inf(1)), Show: &hidden},
		},
		Flows: []*config.Flow{
			{Kind: "rate", From: "Candidates", To: "Phone Screen", Rate: config.Number(2)},
			{Kind: "conversion", From: "Phone Screen", To: "Onsites", Rate: config.Number(0.5)},
			{Kind: "leak", From: "Onsites", To: "Pool", Rate: config.Expr(`"Phone Screen" / 100`)},
		},
	}
	if diff := cmp.Diff(expected, models[0]); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBytesErrors(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		errSubstr string
	}{
		{name: "syntax error", src: "[[model]\n", errSubstr: "failed to parse TOML file"},
		{name: "unknown key", src: "[[model]]\nname = \"m\"\ncolour = \"red\"\n", errSubstr: "unknown keys: model.colour"},
		{name: "boolean rate", src: "[[model]]\nname = \"m\"\n[[model.flow]]\nkind = \"rate\"\nfrom = \"a\"\nto = \"b\"\nrate = true\n", errSubstr: "must be a number or a formula string"},
		{name: "infinite with initial", src: "[[model]]\nname = \"m\"\n[[model.stock]]\nname = \"a\"\ninfinite = true\ninitial = 1\n", errSubstr: "cannot be combined"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().LoadBytes(context.Background(), []byte(tc.src), "bad.toml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errSubstr)
		})
	}
}

func TestLoadFiles(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"funnel.toml": funnelTOML,
		"other.hcl":   `model "x" {}`,
	})
	path := filepath.Join(dir, "funnel.toml")

	models, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, path, models[0].Filename)
}
