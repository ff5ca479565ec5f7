// Package rules embeds the default YAML rule catalog. It is a standalone
// package (usually imported as "catalog") so both the CLI and tests can
// load the same rule set through internal/domain/rules.LoadFromFS.
package rules

import "embed"

//go:embed *.yaml
var FS embed.FS
