package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	ifexplore "github.com/patrick-brian-mooney/IF-utils"
)

// watchSignals translates POSIX signals into engine control:
//
//	SIGINT, SIGTERM   finish the current node, save, and exit; a second
//	                  signal abandons the node and exits immediately
//	SIGUSR1           print a status line and raise the chatter level
//	SIGUSR2           record a checkpoint strand at the next opportunity
//
// The returned stop function detaches the handler.
func watchSignals(ctx context.Context, control *ifexplore.Control, abort context.CancelFunc) (stop func()) {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)

	go func() {
		var interrupted bool
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-ch:
				switch sig {
				case syscall.SIGUSR1:
					printStatus(os.Stderr, control.StatusSnapshot())
					control.MoreVerbose()
				case syscall.SIGUSR2:
					control.SaveSoon()
					printSystemMessage("progress save scheduled")
				default:
					if interrupted {
						printSystemMessage("aborting")
						abort()
						return
					}
					interrupted = true
					control.Stop()
					printSystemMessage("stopping after the current node; interrupt again to abort")
				}
			}
		}
	}()

	return func() { signal.Stop(ch) }
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

func printStatus(w io.Writer, st ifexplore.Status) {
	fmt.Fprintf(w, ">>> %d paths (%d wins, %d dead ends, %d pruned), %d moves, depth %d",
		st.Paths, st.Successes, st.DeadEnds, st.Pruned, st.TotalMoves, st.Depth)
	if st.Room != "" {
		fmt.Fprintf(w, " in %q", st.Room)
	}
	fmt.Fprintf(w, ", %.0fs elapsed\n", st.ElapsedSeconds)
}
