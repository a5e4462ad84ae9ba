package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	ifexplore "github.com/patrick-brian-mooney/IF-utils"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ifexplore",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ifexplore version %s\n", strings.TrimSpace(ifexplore.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
