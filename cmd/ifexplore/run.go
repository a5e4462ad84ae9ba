package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patrick-brian-mooney/IF-utils/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <profile.yaml>",
	Short: "Explore a game until every allowed path is exhausted",
	Long: `Spawns the profile's interpreter and walks every command sequence the
profile allows, recording winning paths under the solutions directory and
checkpointing progress so an interrupted run resumes where it stopped.

Signals steer a running exploration: SIGINT or SIGTERM stops it cleanly
after the current node (a second one aborts), SIGUSR1 prints a status line
and raises verbosity, SIGUSR2 schedules an extra progress save.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := collectRunOptions(cmd, args)
		if err := cli.Execute(cmd.Context(), opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func collectRunOptions(cmd *cobra.Command, args []string) cli.RunOptions {
	workDir, _ := cmd.Flags().GetString("dir")
	verbose, _ := cmd.Flags().GetCount("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	verbosity := 1 + verbose
	if quiet {
		verbosity = 0
	}

	progress, _ := cmd.Flags().GetString("progress")
	redisAddr, _ := cmd.Flags().GetString("redis")
	redisDB, _ := cmd.Flags().GetInt("redis-db")
	ephemeral, _ := cmd.Flags().GetBool("ephemeral")
	listen, _ := cmd.Flags().GetString("listen")
	reset, _ := cmd.Flags().GetBool("reset")
	bundles, _ := cmd.Flags().GetBool("bundles")
	savesDir, _ := cmd.Flags().GetString("saves-dir")
	solutionsDir, _ := cmd.Flags().GetString("solutions-dir")
	logsDir, _ := cmd.Flags().GetString("logs-dir")

	return cli.RunOptions{
		ProfilePath:   args[0],
		WorkDir:       workDir,
		SavesDir:      savesDir,
		SolutionsDir:  solutionsDir,
		LogsDir:       logsDir,
		ProgressPath:  progress,
		RedisAddr:     redisAddr,
		RedisPassword: os.Getenv("IFEXPLORE_REDIS_PASSWORD"),
		RedisDB:       redisDB,
		Ephemeral:     ephemeral,
		Listen:        listen,
		Reset:         reset,
		Bundles:       bundles,
		Verbosity:     verbosity,
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("progress", "", "Progress file path (default <dir>/progress.json)")
	runCmd.Flags().String("redis", "", "Redis address for shared progress (password via IFEXPLORE_REDIS_PASSWORD)")
	runCmd.Flags().Int("redis-db", 0, "Redis database number")
	runCmd.Flags().Bool("ephemeral", false, "Keep progress in memory only; nothing survives the run")
	runCmd.Flags().String("listen", "", "Serve the status API and metrics on this address (e.g. :8080)")
	runCmd.Flags().Bool("reset", false, "Wipe stored progress before exploring")
	runCmd.Flags().Bool("bundles", false, "Archive checkpoint files alongside each solution")
	runCmd.Flags().String("saves-dir", "", "Checkpoint directory (default <dir>/saves)")
	runCmd.Flags().String("solutions-dir", "", "Solutions directory (default <dir>/solutions)")
	runCmd.Flags().String("logs-dir", "", "Problem report directory (default <dir>/logs)")
	runCmd.Flags().Bool("quiet", false, "Suppress banner and progress chatter")
}
