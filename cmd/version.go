package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd prints the build version set via SetVersion.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of xero",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "xero version %s\n", rootCmd.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
