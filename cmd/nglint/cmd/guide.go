package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/nglint/internal/domain/guide"
)

var guideCmd = &cobra.Command{
	Use:   "guide <file.md> [file.md...]",
	Short: "Check a style guide document's structure",
	Long:  "Verifies that table-of-contents links resolve, numbered sections carry Do/Avoid guidance, and code fences are closed.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGuide,
}

func runGuide(cmd *cobra.Command, args []string) error {
	useColor := resolveColor(colorFlag, noColorFlag)
	c := func(code string) string {
		if useColor {
			return code
		}
		return ""
	}

	total := 0
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		findings := guide.CheckDocument(content)
		if len(findings) == 0 {
			continue
		}
		total += len(findings)

		fmt.Printf("%s%s%s\n", c(colorCyan), path, c(colorReset))
		for _, f := range findings {
			sevColor := colorYellow
			if f.Severity == "error" {
				sevColor = colorRed
			}
			fmt.Printf("  %4d %s%-7s%s %-22s %s\n",
				f.Line, c(sevColor), f.Severity, c(colorReset), f.RuleID, f.Label)
		}
	}

	if total > 0 {
		fmt.Printf("%s⚡ %d guide findings%s\n", c(colorBold), total, c(colorReset))
		return lintExit{code: 1}
	}
	fmt.Println("⚡ Guide structure clean")
	return nil
}
