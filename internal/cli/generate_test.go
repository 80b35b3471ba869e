package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStackElement(t *testing.T, stackDir, name, values string) {
	t.Helper()
	dir := filepath.Join(stackDir, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "values.yaml"), []byte(values), 0o644))
}

func elementValues(component string) string {
	return `stack:
  ` + component + `:
    enable: true
    policies:
      - name: ` + component + `-policy
        enabled: true
`
}

func testConfig(t *testing.T, stackDir string) (*Config, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
	cfg := &Config{
		StackDir:  stackDir,
		OutputDir: filepath.Join(t.TempDir(), "docs"),
		Now:       func() time.Time { return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC) },
		Out:       out,
		Err:       errBuf,
	}
	return cfg, out, errBuf
}

func TestRunGenerateWritesDocsAndIndex(t *testing.T) {
	stackDir := t.TempDir()
	writeStackElement(t, stackDir, "alpha", elementValues("alpha"))
	writeStackElement(t, stackDir, "beta", elementValues("beta"))

	cfg, out, _ := testConfig(t, stackDir)
	require.NoError(t, RunGenerate(cfg))

	for _, name := range []string{"alpha.md", "beta.md", "README.md"} {
		_, err := os.Stat(filepath.Join(cfg.OutputDir, name))
		assert.NoError(t, err, name)
	}

	index, err := os.ReadFile(filepath.Join(cfg.OutputDir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "- [alpha](./alpha.md)")
	assert.Contains(t, string(index), "- [beta](./beta.md)")
	assert.Contains(t, string(index), "## Comment Notation Guide")

	assert.Contains(t, out.String(), "Processing element: alpha")
	assert.Contains(t, out.String(), "Generated 2 documentation file(s)")
}

// Two runs over unchanged input must produce identical output except for the
// timestamp line.
func TestRunGenerateIdempotentModuloTimestamp(t *testing.T) {
	stackDir := t.TempDir()
	writeStackElement(t, stackDir, "alpha", elementValues("alpha"))

	cfg, _, _ := testConfig(t, stackDir)
	require.NoError(t, RunGenerate(cfg))
	first, err := os.ReadFile(filepath.Join(cfg.OutputDir, "alpha.md"))
	require.NoError(t, err)

	cfg.Now = func() time.Time { return time.Date(2027, 1, 2, 3, 4, 5, 0, time.UTC) }
	require.NoError(t, RunGenerate(cfg))
	second, err := os.ReadFile(filepath.Join(cfg.OutputDir, "alpha.md"))
	require.NoError(t, err)

	assert.NotEqual(t, string(first), string(second), "timestamp must differ")
	assert.Equal(t, normalizeTimestamp(string(first)), normalizeTimestamp(string(second)))
}

func TestRunGenerateSingleElement(t *testing.T) {
	stackDir := t.TempDir()
	writeStackElement(t, stackDir, "alpha", elementValues("alpha"))
	writeStackElement(t, stackDir, "beta", elementValues("beta"))

	cfg, _, _ := testConfig(t, stackDir)
	cfg.Element = "alpha"
	require.NoError(t, RunGenerate(cfg))

	_, err := os.Stat(filepath.Join(cfg.OutputDir, "alpha.md"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "beta.md"))
	assert.True(t, os.IsNotExist(err), "beta must not be generated")
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "README.md"))
	assert.True(t, os.IsNotExist(err), "single-element runs must not touch the index")
}

func TestRunGenerateUnknownElement(t *testing.T) {
	stackDir := t.TempDir()
	writeStackElement(t, stackDir, "alpha", elementValues("alpha"))

	cfg, _, _ := testConfig(t, stackDir)
	cfg.Element = "missing"
	err := RunGenerate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element missing not found")
}

// A structurally broken values document skips that element but must not stop
// the rest of the batch; the run still exits non-zero.
func TestRunGenerateParseFailureContinues(t *testing.T) {
	stackDir := t.TempDir()
	writeStackElement(t, stackDir, "broken", "key: [unclosed\n")
	writeStackElement(t, stackDir, "good", elementValues("good"))

	cfg, _, errBuf := testConfig(t, stackDir)
	err := RunGenerate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	_, statErr := os.Stat(filepath.Join(cfg.OutputDir, "good.md"))
	assert.NoError(t, statErr, "healthy elements still get documented")
	assert.Contains(t, errBuf.String(), "error: element broken")

	index, readErr := os.ReadFile(filepath.Join(cfg.OutputDir, "README.md"))
	require.NoError(t, readErr)
	assert.NotContains(t, string(index), "broken.md")
}

func TestRunGenerateSkipsElementWithoutComponent(t *testing.T) {
	stackDir := t.TempDir()
	writeStackElement(t, stackDir, "empty", "unrelated: true\n")
	writeStackElement(t, stackDir, "good", elementValues("good"))

	cfg, out, _ := testConfig(t, stackDir)
	require.NoError(t, RunGenerate(cfg))

	_, err := os.Stat(filepath.Join(cfg.OutputDir, "empty.md"))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, out.String(), "no configuration found for empty")
}

func TestRunGenerateEmptyStackDir(t *testing.T) {
	cfg, _, _ := testConfig(t, t.TempDir())
	err := RunGenerate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no elements discovered")
}
