package hcl

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stockflow/internal/config"
	"github.com/vk/stockflow/internal/testutil"
)

const funnelHCL = `
model "Hiring funnel" {
  rounds = 10

  stock "Candidates" {
    infinite = true
  }
  stock "Phone Screen" {}
  stock "Onsites" {
    maximum = 40
  }
  stock "Lost" {
    show = false
  }

  flow "rate" {
    from = "Candidates"
    to   = "Phone Screen"
    rate = 2
  }
  flow "conversion" {
    from = "Phone Screen"
    to   = "Onsites"
    rate = "0.5"
  }
  flow "leak" {
    from = "Onsites"
    to   = "Lost"
    rate = Onsites / 100 + 0.1
  }
}
`

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestLoadBytes(t *testing.T) {
	models, err := NewLoader().LoadBytes(context.Background(), []byte(funnelHCL), "funnel.hcl")
	require.NoError(t, err)
	require.Len(t, models, 1)

	expected := &config.Model{
		Name:     "Hiring funnel",
		Rounds:   intPtr(10),
		Filename: "funnel.hcl",
		Stocks: []*config.Stock{
			{Name: "Candidates", Infinite: true},
			{Name: "Phone Screen"},
			{Name: "Onsites", Maximum: config.Number(40)},
			{Name: "Lost", Show: boolPtr(false)},
		},
		Flows: []*config.Flow{
			{Kind: "rate", From: "Candidates", To: "Phone Screen", Rate: config.Number(2)},
			{Kind: "conversion", From: "Phone Screen", To: "Onsites", Rate: config.Number(0.5)},
			{Kind: "leak", From: "Onsites", To: "Lost", Rate: config.Expr("Onsites / 100 + 0.1")},
		},
	}
	if diff := cmp.Diff(expected, models[0]); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBytesFormulaForms(t *testing.T) {
	testCases := []struct {
		name     string
		rate     string
		expected config.Formula
	}{
		{name: "integer", rate: `3`, expected: config.Number(3)},
		{name: "negative number", rate: `-1.5`, expected: config.Number(-1.5)},
		{name: "numeric string", rate: `"0.25"`, expected: config.Number(0.25)},
		{name: "infinity string", rate: `"inf"`, expected: config.Number(posInf)},
		{name: "formula string", rate: `"a * 2"`, expected: config.Expr("a * 2")},
		{name: "bare reference", rate: `a`, expected: config.Expr("a")},
		{name: "bare expression keeps source", rate: `2 + 3 * a`, expected: config.Expr("2 + 3 * a")},
		{name: "quoted name in expression", rate: `"Phone Screen" * 0.5`, expected: config.Expr(`"Phone Screen" * 0.5`)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := `model "m" {
  flow "rate" {
    from = "a"
    to   = "b"
    rate = ` + tc.rate + `
  }
}`
			models, err := NewLoader().LoadBytes(context.Background(), []byte(src), "m.hcl")
			require.NoError(t, err)
			require.Len(t, models, 1)
			require.Len(t, models[0].Flows, 1)
			if diff := cmp.Diff(tc.expected, models[0].Flows[0].Rate); diff != "" {
				t.Errorf("formula mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadBytesErrors(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		errSubstr string
	}{
		{name: "syntax error", src: `model "m" {`, errSubstr: "failed to parse HCL file"},
		{name: "unknown attribute", src: `model "m" { colour = "red" }`, errSubstr: "failed to decode HCL file"},
		{name: "unknown block", src: `grid "m" {}`, errSubstr: "failed to decode HCL file"},
		{name: "missing label", src: `model { }`, errSubstr: "failed to decode HCL file"},
		{name: "missing rate", src: `model "m" {
  flow "rate" {
    from = "a"
    to   = "b"
  }
}`, errSubstr: "failed to decode HCL file"},
		{name: "boolean rate", src: `model "m" {
  flow "rate" {
    from = "a"
    to   = "b"
    rate = true
  }
}`, errSubstr: "must be a number or a formula string"},
		{name: "infinite with initial", src: `model "m" {
  stock "a" {
    infinite = true
    initial  = 3
  }
}`, errSubstr: "cannot be combined"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().LoadBytes(context.Background(), []byte(tc.src), "bad.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errSubstr)
		})
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a.hcl":        "model \"first\" {}\nmodel \"second\" {}\n",
		"sub/b.hcl":    `model "third" {}`,
		"ignored.toml": `[[model]]`,
	})

	models, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	var names []string
	for _, m := range models {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"first", "second", "third"}, names)
	assert.Equal(t, filepath.Join(dir, "sub", "b.hcl"), models[2].Filename)
}
