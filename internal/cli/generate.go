package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/policystack/stackdoc/internal/docgen"
)

// Config holds the shared generation settings. Defaults mirror the layout of
// a PolicyStack repository: elements under stack/, documentation under docs/.
type Config struct {
	StackDir  string
	OutputDir string
	Element   string

	Now func() time.Time
	Out io.Writer
	Err io.Writer
}

func (c *Config) setDefaults() {
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Err == nil {
		c.Err = os.Stderr
	}
}

func newGenerateCommand() *cobra.Command {
	var cfg Config

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate documentation for all stack elements",
		RunE: func(_ *cobra.Command, _ []string) error {
			return RunGenerate(&cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.StackDir, "stack-dir", "stack", "Directory containing stack elements")
	cmd.Flags().StringVar(&cfg.OutputDir, "output-dir", "docs", "Output directory for documentation")
	cmd.Flags().StringVar(&cfg.Element, "element", "", "Generate documentation for a single element only")
	return cmd
}

// RunGenerate runs the full pipeline: discover elements, load each values
// document through the comment-aware loader, run the engine, write one
// markdown file per element and the index. A structural parse failure skips
// that element and makes the run exit non-zero; every other condition is a
// warning or rendered content.
func RunGenerate(cfg *Config) error {
	cfg.setDefaults()

	files, generated, failed, err := renderAll(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(cfg.OutputDir, name)
		if err := os.WriteFile(path, []byte(files[name]), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	fmt.Fprintf(cfg.Out, "Generated %d documentation file(s) in %s\n", len(generated), cfg.OutputDir)
	if len(failed) > 0 {
		return fmt.Errorf("%d element(s) failed to load: %v", len(failed), failed)
	}
	return nil
}

// renderAll produces every output document in memory: one entry per element
// that has a component configuration, plus the README.md index. It returns
// the names of elements that failed to parse; those are skipped, not fatal
// to the rest of the batch.
func renderAll(cfg *Config) (files map[string]string, generated, failed []string, err error) {
	elements, err := docgen.DiscoverElements(cfg.StackDir)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.Element != "" {
		if !contains(elements, cfg.Element) {
			return nil, nil, nil, fmt.Errorf("element %s not found in %s", cfg.Element, cfg.StackDir)
		}
		elements = []string{cfg.Element}
	}
	if len(elements) == 0 {
		return nil, nil, nil, fmt.Errorf("no elements discovered in %s", cfg.StackDir)
	}

	now := cfg.Now()
	files = map[string]string{}

	for _, name := range elements {
		fmt.Fprintf(cfg.Out, "Processing element: %s\n", name)

		el, loadErr := docgen.LoadElement(filepath.Join(cfg.StackDir, name))
		if loadErr != nil {
			fmt.Fprintf(cfg.Err, "error: element %s: %v\n", name, loadErr)
			failed = append(failed, name)
			continue
		}

		result, genErr := docgen.Generate(el, now)
		if genErr != nil {
			fmt.Fprintf(cfg.Err, "error: %v\n", genErr)
			failed = append(failed, name)
			continue
		}
		if result == nil {
			fmt.Fprintf(cfg.Out, "  no configuration found for %s, skipping\n", name)
			continue
		}

		for _, w := range result.Warnings {
			if w.Line > 0 {
				fmt.Fprintf(cfg.Err, "warning: %s: line %d: %s\n", name, w.Line, w.Message)
			} else {
				fmt.Fprintf(cfg.Err, "warning: %s: %s\n", name, w.Message)
			}
		}

		files[name+".md"] = result.Markdown
		generated = append(generated, name)
	}

	// Single-element runs leave the index alone; it spans all elements.
	if cfg.Element == "" {
		files["README.md"] = docgen.RenderIndex(generated, now)
	}
	return files, generated, failed, nil
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
