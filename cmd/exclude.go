package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var excludeCmd = &cobra.Command{
	Use:   "exclude",
	Short: "generate an initial exclude-rpm file",
	RunE:  exclude,
}

const defaultExcludeRPM = `# List of packages to ignore (use regular expressions)

# Note that exclude takes precedence over include.  So if a
# package matches both constraints, it will be excluded.

# Exclude irrelevant sub-packages
.*-debuginfo$
.*-debugsource$
.*-devel$
.*-devel-.*
# Exclude docs packages (but do not exclude docker)
.*-doc$
.*-docs$
.*-doc-.*
.*-test

# Python base breaks the venv
python-base
python3-base

# Exclude all Python 3 packages
python3.*

# Exclude rpmlint related packages
rpmlint.*
`

func exclude(cmd *cobra.Command, _ []string) error {
	_, err := fmt.Fprint(cmd.OutOrStdout(), defaultExcludeRPM)
	return err
}
