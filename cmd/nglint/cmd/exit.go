package cmd

import "fmt"

// lintExit is returned by check/watch/guide to signal a specific exit code.
// Convention: 0=clean, 1=findings at or above the fail threshold, 2=error.
type lintExit struct{ code int }

func (e lintExit) Error() string {
	switch e.code {
	case 0:
		return ""
	case 1:
		return "findings reported"
	default:
		return fmt.Sprintf("lint error (exit %d)", e.code)
	}
}

// LintExitCode extracts the exit code from a lintExit error.
// Returns -1 if the error is not a lintExit.
func LintExitCode(err error) int {
	if le, ok := err.(lintExit); ok {
		return le.code
	}
	return -1
}
