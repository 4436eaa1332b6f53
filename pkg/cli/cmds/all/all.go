// Package all registers all shell commands.
package all

import (
	_ "github.com/robotalks/hif.go/pkg/cli/cmds/kws"
)
