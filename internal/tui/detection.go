package tui

import (
	"github.com/spf13/cobra"

	"github.com/trovelib/trovectl/internal/util"
)

// ShouldUseTUI reports whether the command should run its interactive form:
// stdout must be a TTY (not piped or redirected) and --no-interactive must
// not be set.
func ShouldUseTUI(cmd *cobra.Command) bool {
	if !util.IsTTY() {
		return false
	}
	noInteractive, _ := cmd.Flags().GetBool("no-interactive")
	return !noInteractive
}
