package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "converters"), 0o755))

	files := map[string]string{
		"Chart.yaml": "name: template-element\ndescription: Replace me\nversion: 0.1.0\n",
		"values.yaml": `stack:
  templateElement:
    enable: false
    policies:
      - name: template-element-policy
        enabled: false
`,
		filepath.Join("converters", "template-element-config.yaml"): "kind: ConfigMap\nmetadata:\n  name: template-element\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestInstantiate(t *testing.T) {
	templateDir := t.TempDir()
	stackDir := t.TempDir()
	writeTemplate(t, templateDir)

	require.NoError(t, Instantiate(templateDir, stackDir, "network-security"))

	dest := filepath.Join(stackDir, "network-security")

	chart, err := os.ReadFile(filepath.Join(dest, "Chart.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(chart), "name: network-security")

	values, err := os.ReadFile(filepath.Join(dest, "values.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(values), "networkSecurity:")
	assert.Contains(t, string(values), "name: network-security-policy")
	assert.NotContains(t, string(values), "templateElement")

	// File names are substituted too.
	converter, err := os.ReadFile(filepath.Join(dest, "converters", "network-security-config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(converter), "name: network-security")
}

func TestInstantiateRefusesExistingElement(t *testing.T) {
	templateDir := t.TempDir()
	stackDir := t.TempDir()
	writeTemplate(t, templateDir)
	require.NoError(t, os.MkdirAll(filepath.Join(stackDir, "taken"), 0o755))

	err := Instantiate(templateDir, stackDir, "taken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInstantiateMissingTemplateDir(t *testing.T) {
	err := Instantiate(filepath.Join(t.TempDir(), "nope"), t.TempDir(), "fresh")
	assert.Error(t, err)
}
