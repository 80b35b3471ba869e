// Package scaffold instantiates a new element directory from a source
// template: a recursive copy with the placeholder names substituted. It has
// no knowledge of the documentation pipeline beyond sharing the naming
// conversion.
package scaffold

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/policystack/stackdoc/internal/naming"
)

// Placeholder tokens replaced during instantiation. The hyphenated form
// appears in file names and chart metadata, the camelCase form inside values
// documents.
const (
	tokenKebab = "template-element"
	tokenCamel = "templateElement"
)

// Instantiate copies templateDir to stackDir/name, replacing the placeholder
// tokens in file names and file contents with the new element's hyphenated
// and camelCase names. The destination must not already exist.
func Instantiate(templateDir, stackDir, name string) error {
	dest := filepath.Join(stackDir, name)
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("element %s already exists at %s", name, dest)
	}

	camel := naming.ToCamel(name)
	substitute := func(s string) string {
		s = strings.ReplaceAll(s, tokenKebab, name)
		return strings.ReplaceAll(s, tokenCamel, camel)
	}

	return filepath.WalkDir(templateDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(templateDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, substitute(rel))

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read template file %s: %w", path, err)
		}
		if err := os.WriteFile(target, []byte(substitute(string(data))), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		return nil
	})
}
