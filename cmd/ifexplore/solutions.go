package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	ifexplore "github.com/patrick-brian-mooney/IF-utils"
	"github.com/patrick-brian-mooney/IF-utils/internal/presentation/tui"
	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
)

var solutionsCmd = &cobra.Command{
	Use:   "solutions",
	Short: "List, inspect and replay recorded winning paths",
}

var solutionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded solutions",
	Run: func(cmd *cobra.Command, args []string) {
		dir := solutionsDir(cmd)
		sols, err := ifexplore.ListSolutions(dir)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if len(sols) == 0 {
			fmt.Printf("No solutions in %s yet.\n", dir)
			return
		}
		for i, sf := range sols {
			sol := sf.Solution
			fmt.Printf("%3d  %s  %3d moves  %s\n",
				i+1, sol.Found.Format("2006-01-02 15:04"), len(sol.Strand()), sol.Walkthrough())
		}
	},
}

var solutionsShowCmd = &cobra.Command{
	Use:   "show <n|file>",
	Short: "Print one solution as a readable walkthrough and transcript",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sf, err := pickSolution(solutionsDir(cmd), args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		md := tui.SolutionMarkdown(sf.Solution)
		out, err := tui.NewRenderer()(md)
		if err != nil {
			out = md
		}
		fmt.Print(out)
	},
}

var solutionsReplayCmd = &cobra.Command{
	Use:   "replay <n|file>",
	Short: "Play a solution back move by move",
	Long: `Feeds a recorded walkthrough through a fresh interpreter and shows what
the game says this time, flagging any divergence from the recorded path.
With --offline the recorded transcript is printed instead and no
interpreter is involved.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sf, err := pickSolution(solutionsDir(cmd), args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		offline, _ := cmd.Flags().GetBool("offline")
		delay, _ := cmd.Flags().GetDuration("delay")
		replayer := &ifexplore.Replayer{
			Output:  os.Stdout,
			Delay:   delay,
			Offline: offline,
		}

		var profile *game.Profile
		if !offline {
			profilePath, _ := cmd.Flags().GetString("profile")
			if profilePath == "" {
				fmt.Println("Error: live replay needs --profile (or use --offline)")
				os.Exit(1)
			}
			profile, err = game.Load(profilePath)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
		}

		if err := replayer.Replay(cmd.Context(), profile, sf.Solution); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// solutionsDir resolves where solutions live, preferring the explicit flag.
func solutionsDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("solutions-dir"); dir != "" {
		return dir
	}
	workDir, _ := cmd.Flags().GetString("dir")
	return filepath.Join(workDir, "solutions")
}

// pickSolution accepts either a 1-based index from 'solutions list' or a
// path to a solution artifact.
func pickSolution(dir, arg string) (ifexplore.SolutionFile, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		sols, err := ifexplore.ListSolutions(dir)
		if err != nil {
			return ifexplore.SolutionFile{}, err
		}
		if n < 1 || n > len(sols) {
			return ifexplore.SolutionFile{}, fmt.Errorf("no solution %d, %d recorded (try 'solutions list')", n, len(sols))
		}
		return sols[n-1], nil
	}
	sol, err := ifexplore.LoadSolution(arg)
	if err != nil {
		return ifexplore.SolutionFile{}, err
	}
	return ifexplore.SolutionFile{Path: arg, Solution: sol}, nil
}

func init() {
	rootCmd.AddCommand(solutionsCmd)
	solutionsCmd.AddCommand(solutionsListCmd)
	solutionsCmd.AddCommand(solutionsShowCmd)
	solutionsCmd.AddCommand(solutionsReplayCmd)

	solutionsCmd.PersistentFlags().String("solutions-dir", "", "Solutions directory (default <dir>/solutions)")
	solutionsReplayCmd.Flags().String("profile", "", "Game profile for live replay")
	solutionsReplayCmd.Flags().Bool("offline", false, "Print the recorded transcript instead of replaying live")
	solutionsReplayCmd.Flags().Duration("delay", 400*time.Millisecond, "Pause between moves in live replay")
}
