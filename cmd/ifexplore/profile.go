package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patrick-brian-mooney/IF-utils/internal/validator"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Create and check game profiles",
}

var profileValidateCmd = &cobra.Command{
	Use:   "validate <profile.yaml>",
	Short: "Check a profile for structural and referential problems",
	Long: `Parses the profile and reports everything wrong with it at once:
malformed commands, predicates that reference unknown rooms or commands,
and so on. With --env it also checks that the interpreter binary and the
story file actually exist on this machine.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, err := validator.CheckProfile(args[0])
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		if env, _ := cmd.Flags().GetBool("env"); env {
			if err := validator.CheckEnvironment(p); err != nil {
				fmt.Printf("Environment check failed: %v\n", err)
				os.Exit(1)
			}
		}
		fmt.Println("Profile is valid! ✅")
	},
}

var profileInitCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Write a starter profile document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		path := name + ".yaml"
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Error: %s already exists\n", path)
			os.Exit(1)
		}
		doc := fmt.Sprintf(starterProfile, name)
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s. Point it at your interpreter and story file, then list the commands to try.\n", path)
	},
}

const starterProfile = `name: %s
interpreter: dfrotz
interpreter_args: ["-m"]
story_file: game.z5

# Rooms the explorer should recognize in the game's output, lower case.
rooms: []

# Commands the explorer may try. Predicates restrict where they apply:
# no-repeat, max-uses, max-depth, in-room, not-in-room, has, lacks, after.
commands:
  - text: look under rug
  - text: open trapdoor
    when:
      - name: after
        command: look under rug

# Phrase tables merge over the built-in Z-machine defaults; list extra
# game-specific endings here.
phrases:
  success: []
  failure: []

# tuning:
#   track_width: 12
#   prune_floor: 4
#   save_interval: 4h
`

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileValidateCmd)
	profileCmd.AddCommand(profileInitCmd)

	profileValidateCmd.Flags().Bool("env", false, "Also check the interpreter and story file exist")
}
