package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	var cfg Config

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify that the generated documentation is up to date",
		Long: `check regenerates every document in memory and compares it with the
files on disk, ignoring the timestamp line. Intended for CI: exits non-zero
when any file is missing or stale.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return RunCheck(&cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.StackDir, "stack-dir", "stack", "Directory containing stack elements")
	cmd.Flags().StringVar(&cfg.OutputDir, "output-dir", "docs", "Directory holding the generated documentation")
	return cmd
}

// timestampLineRe matches the single generation-timestamp line so comparisons
// can exclude exactly that line and nothing else.
var timestampLineRe = regexp.MustCompile(`\*Generated: \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\*`)

func normalizeTimestamp(content string) string {
	return timestampLineRe.ReplaceAllString(content, "*Generated: TIMESTAMP*")
}

// RunCheck regenerates all documentation in memory and reports any file that
// is missing or differs from what generation would produce, timestamp aside.
func RunCheck(cfg *Config) error {
	cfg.setDefaults()

	files, _, failed, err := renderAll(cfg)
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d element(s) failed to load: %v", len(failed), failed)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var stale []string
	for _, name := range names {
		path := filepath.Join(cfg.OutputDir, name)
		existing, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			fmt.Fprintf(cfg.Out, "missing: %s\n", path)
			stale = append(stale, name)
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		want := normalizeTimestamp(files[name])
		got := normalizeTimestamp(string(existing))
		if got == want {
			fmt.Fprintf(cfg.Out, "current: %s\n", path)
			continue
		}

		fmt.Fprintf(cfg.Out, "outdated: %s\n", path)
		diff, diffErr := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(got),
			B:        difflib.SplitLines(want),
			FromFile: path,
			ToFile:   path + " (regenerated)",
			Context:  2,
		})
		if diffErr == nil && strings.TrimSpace(diff) != "" {
			fmt.Fprint(cfg.Out, diff)
		}
		stale = append(stale, name)
	}

	if len(stale) > 0 {
		return fmt.Errorf("documentation out of date: %v (run 'stackdoc generate')", stale)
	}
	fmt.Fprintln(cfg.Out, "documentation is up to date")
	return nil
}
