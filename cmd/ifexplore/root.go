package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ifexplore",
	Short: "ifexplore exhaustively explores text-adventure games",
	Long: `ifexplore drives an interactive-fiction interpreter through every
reachable command sequence a game profile allows, rewinding through save
files, and records each winning path it finds. Progress survives crashes
and restarts, so week-long explorations can be picked up where they left
off.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Working directory for the run (saves, solutions, logs, progress)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Raise the chatter level (repeatable)")
}
