package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/nglint/internal/app"
	"github.com/corey/nglint/internal/domain/rules"
	catalog "github.com/corey/nglint/rules"
)

var rulesCategory string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the active rule catalog",
	Long:  "Prints every rule after project config overrides, grouped by category.",
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesCategory, "category", "", "Show only one category (streams, state, components, templates, quality, structure)")
}

func runRules(cmd *cobra.Command, args []string) error {
	root := projectRoot()

	cfg, err := app.LoadConfig(root)
	if err != nil {
		return err
	}

	all, err := rules.LoadFromFS(catalog.FS, ".")
	if err != nil {
		return fmt.Errorf("load rule catalog: %w", err)
	}
	active, err := rules.ApplyOverrides(all, cfg.Rules)
	if err != nil {
		return err
	}

	fmt.Print(formatRules(active, rulesCategory, resolveColor(colorFlag, noColorFlag)))
	return nil
}

// formatRules renders the catalog grouped by category, one line per rule
// with id, severity, kind, and label.
func formatRules(active []rules.Rule, onlyCategory string, useColor bool) string {
	c := func(code string) string {
		if useColor {
			return code
		}
		return ""
	}

	byCategory := make(map[string][]rules.Rule)
	for _, r := range active {
		name := rules.CategoryName(r.Category)
		byCategory[name] = append(byCategory[name], r)
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var sb strings.Builder
	for _, cat := range categories {
		if onlyCategory != "" && cat != onlyCategory {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s%s%s\n", c(colorBold), strings.ToUpper(cat), c(colorReset)))
		for _, r := range byCategory[cat] {
			sb.WriteString(fmt.Sprintf("  %-26s %-7s %-10s %s\n",
				r.ID, rules.SeverityName(r.Severity), rules.RuleKindName(r.Kind), r.Label))
			if r.Guide != "" {
				sb.WriteString(fmt.Sprintf("  %s%26s %s%s\n", c(colorGray), "", r.Guide, c(colorReset)))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
