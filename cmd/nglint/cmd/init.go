package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corey/nglint/internal/app"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the project for linting",
	Long:  "Creates the .nglint/ cache directory and writes a starter .nglint.yml config, then primes the cache with a first run.",
	RunE:  runInit,
}

// defaultConfigYAML is the starter config written by init. Everything here
// restates a default, so deleting lines is always safe.
const defaultConfigYAML = `# nglint project configuration.
include:
  - "**/*"
exclude:
  - "**/*.spec.ts"

component_prefix: app
max_method_lines: 75

# Fail the run at this severity or above: info, warning, error.
fail_on: warning

# Output format: text, json, github.
format: text

# Per-rule severity overrides; "off" disables a rule.
rules: {}
`

func runInit(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := app.NewPaths(root)

	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("create .nglint dirs: %w", err)
	}

	cfgPath := filepath.Join(root, app.ConfigFileName)
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := os.WriteFile(cfgPath, []byte(defaultConfigYAML), 0644); err != nil {
			return fmt.Errorf("write %s: %w", app.ConfigFileName, err)
		}
		fmt.Printf("⚡ Wrote %s\n", app.ConfigFileName)
	} else {
		fmt.Printf("⚡ Keeping existing %s\n", app.ConfigFileName)
	}

	cfg, err := app.LoadConfig(root)
	if err != nil {
		return err
	}

	runner, store, err := newRunner(root, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Println("⚡ Priming cache...")
	res, err := runner.Run()
	if err != nil {
		return err
	}
	fmt.Printf("⚡ nglint examined %d files, %d findings (%dms)\n",
		res.FileCount, res.TotalFindings(), res.Elapsed.Milliseconds())
	return nil
}
