package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dashbored/internal/chart"
	"github.com/JonMunkholm/dashbored/internal/core"
)

const salesCSV = "date,region,sales\n2024-01-01,north,10\n2024-01-02,south,20\n2024-01-03,north,31\n"

func dataRoot(t *testing.T) string {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "example"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "example", core.ExampleDataset), []byte(salesCSV), 0o644))
	return root
}

func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--data-root", root}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	root := dataRoot(t)

	out, err := run(t, root, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "example_sales.csv")
	assert.Contains(t, out, "Example: Example Sales Data")
}

func TestList_Empty(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")

	out, err := run(t, t.TempDir(), "list")
	require.NoError(t, err)
	assert.Equal(t, "(no datasets)\n", out)
}

func TestColumns(t *testing.T) {
	root := dataRoot(t)

	out, err := run(t, root, "--format", "csv", "columns", core.ExampleDataset)
	require.NoError(t, err)
	assert.Contains(t, out, "date,text,")
	assert.Contains(t, out, "region,text,")
	assert.Contains(t, out, "sales,numeric,x/y")
}

func TestShow_Table(t *testing.T) {
	root := dataRoot(t)

	out, err := run(t, root, "show", core.ExampleDataset)
	require.NoError(t, err)
	assert.Contains(t, out, "north")
	assert.Contains(t, out, "31")
	assert.Contains(t, out, "│")
}

func TestShow_Summary(t *testing.T) {
	root := dataRoot(t)

	out, err := run(t, root, "--format", "csv", "show", core.ExampleDataset, "--mode", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Rows,3")
	assert.Contains(t, out, "Columns,3")
	assert.Contains(t, out, "mean,20.33")
	assert.Contains(t, out, "min,10")
	assert.Contains(t, out, "max,31")
}

func TestShow_ChartHTML(t *testing.T) {
	root := dataRoot(t)
	path := filepath.Join(t.TempDir(), "sales.html")

	_, err := run(t, root, "show", core.ExampleDataset,
		"--mode", "chart", "--chart", "bar", "--x", "region", "--y", "sales", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "echarts")
	assert.Contains(t, string(data), "Bar chart of sales by region")
}

func TestShow_ChartPNG(t *testing.T) {
	root := dataRoot(t)
	path := filepath.Join(t.TempDir(), "sales.png")

	_, err := run(t, root, "show", core.ExampleDataset,
		"--mode", "chart", "--chart", "line", "--x", "sales", "--png", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "png signature")
}

func TestShow_BoxPNGUnsupported(t *testing.T) {
	root := dataRoot(t)

	_, err := run(t, root, "show", core.ExampleDataset,
		"--mode", "chart", "--chart", "box", "--x", "sales", "--png", "-o", filepath.Join(t.TempDir(), "b.png"))
	assert.ErrorIs(t, err, chart.ErrUnsupportedFormat)
}

func TestShow_ChartWriteErrors(t *testing.T) {
	root := dataRoot(t)

	_, err := run(t, root, "show", core.ExampleDataset,
		"--mode", "chart", "--x", "sales", "--out", filepath.Join(t.TempDir(), "missing", "c.html"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create ")

	if _, statErr := os.Stat("/dev/full"); statErr != nil {
		t.Skip("no /dev/full")
	}
	_, err = run(t, root, "show", core.ExampleDataset,
		"--mode", "chart", "--x", "sales", "--out", "/dev/full")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render chart")
}

func TestShow_ChartWriteReportsFile(t *testing.T) {
	root := dataRoot(t)
	path := filepath.Join(t.TempDir(), "h.html")

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--data-root", root, "show", core.ExampleDataset, "--mode", "chart", "--x", "sales", "--out", path})
	require.NoError(t, cmd.Execute())

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "wrote "+path+" (Histogram of sales)")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestShow_Messages(t *testing.T) {
	root := dataRoot(t)

	out, err := run(t, root, "show", core.ExampleDataset, "--mode", "chart", "--chart", "bar", "--x", "region", "--y", "missing")
	require.NoError(t, err)
	assert.Equal(t, core.InvalidColumnsMessage+"\n", out)

	out, err = run(t, root, "show", "uploads/nothing.csv")
	require.NoError(t, err)
	assert.Equal(t, core.NoDataMessage+"\n", out)
}

func TestShow_ParseError(t *testing.T) {
	root := dataRoot(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "uploads"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "uploads", "bad.csv"), []byte("a,b\n1,2,3\n"), 0o644))

	_, err := run(t, root, "show", "uploads/bad.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrParse))
	assert.Contains(t, describe(err), "(Code: FILE002)")
}

func TestUpload(t *testing.T) {
	root := dataRoot(t)
	src := filepath.Join(t.TempDir(), "q3 sales.csv")
	require.NoError(t, os.WriteFile(src, []byte("a,b\n1,2\n"), 0o644))

	out, err := run(t, root, "upload", src)
	require.NoError(t, err)
	assert.Equal(t, "uploads/q3_sales.csv\n", out)

	out, err = run(t, root, "upload", src, "--name", "renamed.csv")
	require.NoError(t, err)
	assert.Equal(t, "uploads/renamed.csv\n", out)

	out, err = run(t, root, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Uploaded: q3_sales.csv")
	assert.Contains(t, out, "Uploaded: renamed.csv")
}

func TestRecent(t *testing.T) {
	root := dataRoot(t)

	out, err := run(t, root, "recent")
	require.NoError(t, err)
	assert.Equal(t, "(no uploads)\n", out)

	_, err = run(t, root, "recent", "--limit", "0")
	assert.Error(t, err)
}

func TestBadFormat(t *testing.T) {
	root := dataRoot(t)

	_, err := run(t, root, "--format", "yaml", "list")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown format"))
}
