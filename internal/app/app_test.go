package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stockflow/internal/engine"
	"github.com/vk/stockflow/internal/examples"
	"github.com/vk/stockflow/internal/formula"
	"github.com/vk/stockflow/internal/render"
	"github.com/vk/stockflow/internal/style"
	"github.com/vk/stockflow/internal/testutil"
)

const hiringFunnelText = "\tPhone Screen\tOnsites\tOffers\tHires\n" +
	"0\t0           \t0      \t0     \t0    \n" +
	"1\t2           \t0      \t0     \t0    \n" +
	"2\t2           \t1      \t0     \t0    \n" +
	"3\t2           \t2      \t0     \t0    \n" +
	"4\t2           \t1      \t1     \t0    \n" +
	"5\t2           \t2      \t1     \t0    \n" +
	"6\t2           \t1      \t2     \t0    \n" +
	"7\t2           \t2      \t0     \t1    \n" +
	"8\t2           \t1      \t1     \t1    \n" +
	"9\t2           \t2      \t1     \t1    \n" +
	"10\t2           \t1      \t2     \t1    \n"

func intPtr(n int) *int {
	return &n
}

func TestRunHiringFunnelExample(t *testing.T) {
	app, out, _ := SetupAppTest(t, Config{Pad: true})

	models, err := app.LoadExample(context.Background(), examples.Default)
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background(), models))

	assert.Equal(t, hiringFunnelText, out.String())
}

func TestRunInventoryExample(t *testing.T) {
	app, out, logs := SetupAppTest(t, Config{Rounds: intPtr(3), Format: render.FormatCSV})

	models, err := app.LoadExample(context.Background(), "inventory")
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background(), models))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, ",Warehouse,Shipped,Spoiled", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,20,0,0"), lines[1])
	assert.NotContains(t, logs.String(), "level=WARN")
}

func TestLoadMixedDirectory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.hcl", `model "from hcl" {
  stock "a" { initial = 1 }
}`)
	testutil.WriteFile(t, dir, "nested/b.toml", `[[model]]
name = "from toml"
[[model.stock]]
name = "b"
`)
	testutil.WriteFile(t, dir, "README.md", "not a model")

	app, _, _ := SetupAppTest(t, Config{ModelPaths: []string{dir}})
	models, err := app.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "from hcl", models[0].Name)
	assert.Equal(t, "from toml", models[1].Name)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	unsupported := testutil.WriteFile(t, dir, "model.yaml", "model: x")
	empty := testutil.WriteFile(t, t.TempDir(), "empty.hcl", "")

	testCases := []struct {
		name      string
		paths     []string
		errSubstr string
	}{
		{name: "no paths", errSubstr: "no model paths"},
		{name: "missing path", paths: []string{filepath.Join(dir, "nope.hcl")}, errSubstr: "error accessing path"},
		{name: "unsupported extension", paths: []string{unsupported}, errSubstr: "unsupported model file extension"},
		{name: "no models", paths: []string{empty}, errSubstr: "no models found"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app, _, _ := SetupAppTest(t, Config{ModelPaths: tc.paths})
			_, err := app.Load(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errSubstr)
		})
	}
}

func TestRunKeepsInputOrderAcrossWorkers(t *testing.T) {
	dir := t.TempDir()
	var src strings.Builder
	names := []string{"m1", "m2", "m3", "m4", "m5", "m6"}
	for _, name := range names {
		src.WriteString(`model "` + name + `" {
  stock "source" { infinite = true }
  stock "` + name + `-level" {}
  flow "rate" {
    from = "source"
    to   = "` + name + `-level"
    rate = 1
  }
}
`)
	}
	path := testutil.WriteFile(t, dir, "many.hcl", src.String())

	app, out, _ := SetupAppTest(t, Config{ModelPaths: []string{path}, Rounds: intPtr(2), WorkerCount: 4})
	models, err := app.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background(), models))

	blocks := strings.Split(strings.TrimSpace(out.String()), "\n\n")
	require.Len(t, blocks, len(names))
	for i, name := range names {
		assert.True(t, strings.HasPrefix(blocks[i], "\t"+name+"-level\n"), blocks[i])
		assert.True(t, strings.HasSuffix(blocks[i], "2\t2"), blocks[i])
	}
}

func TestRunLogsOrderingWarnings(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "order.hcl", `model "downstream first" {
  rounds = 1
  stock "a" { initial = 10 }
  stock "b" { maximum = 4 }
  stock "c" {}
  flow "rate" {
    from = "b"
    to   = "c"
    rate = 2
  }
  flow "rate" {
    from = "a"
    to   = "b"
    rate = 3
  }
}`)

	app, _, logs := SetupAppTest(t, Config{ModelPaths: []string{path}})
	models, err := app.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background(), models))

	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "drained_by=")

	validateApp, out, _ := SetupAppTest(t, Config{ModelPaths: []string{path}, Color: style.ColorNever})
	require.NoError(t, validateApp.Validate(context.Background(), models))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  warning: Flow(Stock(a) to Stock(b) at Rate(F(3))) reads the headroom of Stock(b) "+
		"before Flow(Stock(b) to Stock(c) at Rate(F(2))) drains it; declare it before the draining flow", lines[1])
}

func TestRunFailsOnBrokenModel(t *testing.T) {
	testCases := []struct {
		name   string
		src    string
		target error
	}{
		{
			name: "conversion from infinite source",
			src: `model "m" {
  stock "a" { infinite = true }
  stock "b" {}
  flow "conversion" {
    from = "a"
    to   = "b"
    rate = 0.5
  }
}`,
			target: engine.ErrIllegalSourceStock,
		},
		{
			name: "initial formula with references",
			src: `model "m" {
  stock "a" { initial = 1 }
  stock "b" { initial = a * 2 }
}`,
			target: engine.ErrReferencesInInitialFormula,
		},
		{
			name: "division by zero in rate",
			src: `model "m" {
  stock "a" { initial = 1 }
  stock "b" {}
  flow "leak" {
    from = "a"
    to   = "b"
    rate = "a / 0"
  }
}`,
			target: formula.ErrDivisionByZero,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), "broken.hcl", tc.src)
			app, out, _ := SetupAppTest(t, Config{ModelPaths: []string{path}, Rounds: intPtr(3)})
			models, err := app.Load(context.Background())
			require.NoError(t, err)

			err = app.Run(context.Background(), models)
			require.Error(t, err)
			if tc.target != nil {
				require.ErrorIs(t, err, tc.target)
			}
			assert.Empty(t, out.String())
		})
	}
}

func TestRunRejectsHugeRoundCountFromModelFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "long.hcl", `model "long" {
  rounds = 2000000
  stock "a" { initial = 1 }
}`)
	app, out, _ := SetupAppTest(t, Config{ModelPaths: []string{path}})
	models, err := app.Load(context.Background())
	require.NoError(t, err)

	err = app.Run(context.Background(), models)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not exceed")
	assert.Empty(t, out.String())
}

func TestValidateAndConvert(t *testing.T) {
	app, out, _ := SetupAppTest(t, Config{})
	models, err := app.LoadExample(context.Background(), "inventory.toml")
	require.NoError(t, err)

	require.NoError(t, app.Validate(context.Background(), models))
	assert.Equal(t, "inventory.toml: model \"Inventory\" is valid (4 stocks, 3 flows)\n", out.String())

	convertApp, converted, _ := SetupAppTest(t, Config{})
	require.NoError(t, convertApp.Convert(context.Background(), models))
	assert.Contains(t, converted.String(), `model "Inventory" {`)
	assert.Contains(t, converted.String(), `rate = "Warehouse / 4 + 2"`)

	roundTrip, err := convertApp.loaders[".hcl"].LoadBytes(context.Background(), []byte(converted.String()), "converted.hcl")
	require.NoError(t, err)
	require.Len(t, roundTrip, 1)
	assert.Equal(t, models[0].Flows, roundTrip[0].Flows)
}

func TestLoadExampleUnknown(t *testing.T) {
	app, _, _ := SetupAppTest(t, Config{})
	_, err := app.LoadExample(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hiring_funnel.hcl")
}
