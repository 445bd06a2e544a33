package main

import (
	"github.com/spf13/cobra"

	"github.com/go-go-golems/remotehand/cmd/remotehand/cmds"
)

var version = "dev"

func main() {
	cobra.CheckErr(cmds.NewRootCmd(version).Execute())
}
