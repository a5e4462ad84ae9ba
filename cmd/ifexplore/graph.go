package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/patrick-brian-mooney/IF-utils/internal/presentation/graph"
	"github.com/patrick-brian-mooney/IF-utils/pkg/adapters/file"
	"github.com/patrick-brian-mooney/IF-utils/pkg/adapters/redis"
	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the explored tree as a Mermaid diagram",
	Long: `Reads the progress table and prints a Mermaid diagram (graph TD) of every
recorded strand, suitable for pasting into a Markdown document.`,
	Run: func(cmd *cobra.Command, args []string) {
		store, cleanup := openStore(cmd)
		defer cleanup()

		table, err := store.Load(cmd.Context())
		if errors.Is(err, domain.ErrNoProgress) {
			fmt.Println("No progress recorded yet.")
			return
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(graph.GenerateMermaid(table))
	},
}

// openStore picks the progress backend the same way the run command does,
// minus the in-memory option, which has nothing to graph.
func openStore(cmd *cobra.Command) (ports.ProgressStore, func()) {
	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		db, _ := cmd.Flags().GetInt("redis-db")
		store := redis.New(addr, os.Getenv("IFEXPLORE_REDIS_PASSWORD"), db)
		return store, func() { _ = store.Close() }
	}

	path, _ := cmd.Flags().GetString("progress")
	if path == "" {
		workDir, _ := cmd.Flags().GetString("dir")
		path = filepath.Join(workDir, file.DefaultPath)
	}
	return file.New(path), func() {}
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().String("progress", "", "Progress file path (default <dir>/progress.json)")
	graphCmd.Flags().String("redis", "", "Redis address holding the progress table")
	graphCmd.Flags().Int("redis-db", 0, "Redis database number")
}
