package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/nglint/internal/adapters/bbolt"
	"github.com/corey/nglint/internal/app"
	"github.com/corey/nglint/internal/domain/rules"
	"github.com/corey/nglint/internal/ports"
	catalog "github.com/corey/nglint/rules"
)

var (
	checkFormat  string
	checkFailOn  string
	checkRules   []string
	checkNoCache bool
	colorFlag    string
	noColorFlag  bool
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Lint the project against the rule catalog",
	Long:  "Discovers source files, evaluates every applicable rule, and reports findings. Unchanged files are served from the cache.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "", "Output format: text, json, or github (default from config)")
	checkCmd.Flags().StringVar(&checkFailOn, "fail-on", "", "Fail at this severity or above: info, warning, error (default from config)")
	checkCmd.Flags().StringSliceVar(&checkRules, "rules", nil, "Per-rule overrides, e.g. any-type=error,todo-marker=off")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "Re-lint every file, ignoring cached results")
	checkCmd.Flags().StringVar(&colorFlag, "color", "auto", "Colorize output: auto, always, never")
	checkCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := app.LoadConfig(root)
	if err != nil {
		return err
	}
	if err := applyCheckFlags(&cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runner, store, err := newRunner(root, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
	if checkNoCache {
		runner.DisableCache()
	}

	res, err := runner.Run()
	if err != nil {
		return err
	}

	out, err := formatResult(res, cfg.Format, resolveColor(colorFlag, noColorFlag))
	if err != nil {
		return err
	}
	fmt.Print(out)

	if res.FailsAt(rules.SeverityFromName(cfg.FailOn)) {
		return lintExit{code: 1}
	}
	return nil
}

// applyCheckFlags overlays command-line flags onto the loaded config.
func applyCheckFlags(cfg *app.Config) error {
	if checkFormat != "" {
		cfg.Format = checkFormat
	}
	if checkFailOn != "" {
		cfg.FailOn = checkFailOn
	}
	for _, spec := range checkRules {
		id, sev, ok := strings.Cut(spec, "=")
		if !ok || id == "" || sev == "" {
			return fmt.Errorf("invalid --rules entry %q (want id=severity or id=off)", spec)
		}
		if cfg.Rules == nil {
			cfg.Rules = make(map[string]string)
		}
		cfg.Rules[id] = sev
	}
	return nil
}

// newRunner loads the embedded catalog and wires storage when the project is
// initialized. Uninitialized projects lint without a cache.
func newRunner(root string, cfg app.Config) (*app.Runner, *bbolt.Store, error) {
	all, err := rules.LoadFromFS(catalog.FS, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("load rule catalog: %w", err)
	}

	paths := app.NewPaths(root)
	var store *bbolt.Store
	if paths.Exists() {
		store, err = bbolt.NewStore(paths.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
	}

	// Avoid the typed-nil interface trap: only assign a live store.
	var storage ports.Storage
	if store != nil {
		storage = store
	}
	runner, err := app.NewRunner(root, cfg, all, storage)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, nil, err
	}
	return runner, store, nil
}
