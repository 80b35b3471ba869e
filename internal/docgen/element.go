package docgen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/policystack/stackdoc/internal/naming"
	"github.com/policystack/stackdoc/internal/yamldoc"
)

// Manifest is the element metadata read from the accompanying Chart.yaml.
type Manifest struct {
	Name        string `yaml:"name" validate:"required"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

// Element is one configuration unit: the loaded values document plus its
// manifest metadata. It lives for a single generation pass.
type Element struct {
	Dir  string
	Name string
	Meta Manifest
	Doc  *yamldoc.Document
}

// ComponentName is the camelCase key under which the element's configuration
// lives inside the values document's stack mapping.
func (e *Element) ComponentName() string {
	return naming.ToCamel(e.Meta.Name)
}

var validate = validator.New()

// DiscoverElements lists the element directories under root in lexicographic
// order. Hidden directories are skipped.
func DiscoverElements(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read stack directory %s: %w", root, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadElement reads one element directory: values.yaml through the
// comment-aware loader, Chart.yaml for metadata. A missing or invalid
// manifest falls back to the directory name and an empty description; only a
// structurally invalid values document is an error.
func LoadElement(dir string) (*Element, error) {
	doc, err := yamldoc.LoadFile(filepath.Join(dir, "values.yaml"))
	if err != nil {
		return nil, err
	}

	el := &Element{
		Dir:  dir,
		Name: filepath.Base(dir),
		Doc:  doc,
	}
	el.Meta = loadManifest(filepath.Join(dir, "Chart.yaml"), el.Name)
	return el, nil
}

func loadManifest(path, fallbackName string) Manifest {
	m := Manifest{Name: fallbackName}
	data, err := os.ReadFile(path)
	if err != nil {
		return m
	}
	var parsed Manifest
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return m
	}
	if err := validate.Struct(parsed); err != nil {
		// Keep whatever fields survived; only the name is required.
		parsed.Name = fallbackName
	}
	return parsed
}
