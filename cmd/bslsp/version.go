package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the bslsp version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		name := color.New(color.FgGreen, color.Bold)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s %s/%s)\n",
			name.Sprint("bslsp"), version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
