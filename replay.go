package ifexplore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/patrick-brian-mooney/IF-utils/pkg/adapters/process"
	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
)

// ContentRenderer transforms a block of text before it is written, so a TUI
// can colorize output without coupling this package to a renderer.
type ContentRenderer func(string) (string, error)

// Replayer plays a recorded solution back for a human. Offline replay
// prints the frames the original run recorded; live replay feeds the
// walkthrough through a fresh interpreter and shows what the game says this
// time, flagging any divergence from the recorded outcome.
type Replayer struct {
	// Output receives the replay. Required.
	Output io.Writer
	// Renderer optionally post-processes each block before writing; a
	// renderer error falls back to the raw text.
	Renderer ContentRenderer
	// Delay paces live replay, one pause per move.
	Delay time.Duration
	// Offline replays from the artifact alone, never touching the game.
	Offline bool
	// Interpreter overrides the spawned process in live replay. Tests use
	// this; the CLI leaves it nil.
	Interpreter ports.Interpreter
}

// Replay plays sol. A profile is required for live replay, since it names
// the interpreter and classifies its output; offline replay works from the
// artifact alone. Live replay returns an error when the game stops matching
// the recorded path, which usually means a different story file version.
func (r *Replayer) Replay(ctx context.Context, profile *game.Profile, sol domain.Solution) error {
	if r.Output == nil {
		return errors.New("output writer must be set (use os.Stdout)")
	}
	if r.Offline {
		return r.print(sol.Transcript())
	}
	if profile == nil {
		return errors.New("a profile is required for live replay")
	}
	if !profile.Resolved() {
		if err := profile.Resolve(nil); err != nil {
			return err
		}
	}

	terp := r.Interpreter
	if terp == nil {
		t := profile.Tuning
		driver, err := process.New(profile.Interpreter, profile.InterpreterArgs, profile.StoryFile,
			process.WithBackoff(t.RetryBase.Std(), t.RetryGrowth, t.RetryAttempts),
		)
		if err != nil {
			return fmt.Errorf("start interpreter: %w", err)
		}
		terp = driver
	}
	defer func() { _ = terp.Shutdown(ctx) }()

	opening, err := terp.Opening(ctx)
	if err != nil {
		return fmt.Errorf("read opening: %w", err)
	}
	if err := r.print(opening); err != nil {
		return err
	}

	eval := game.NewEvaluator(profile)
	strand := sol.Strand()
	for i, command := range strand {
		if r.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.Delay):
			}
		}

		output, err := terp.ProcessCommand(ctx, command, true)
		if err != nil {
			return fmt.Errorf("replay %q: %w", command, err)
		}
		if err := r.print("> " + strings.ToUpper(command) + "\n\n" + output); err != nil {
			return err
		}

		frame, _ := eval.Evaluate(command, output, i+1)
		if last := i == len(strand)-1; last {
			if frame.Outcome != domain.OutcomeSuccess {
				return fmt.Errorf("replay diverged: final move %q ended as %s, not a win", command, frame.Outcome)
			}
		} else if frame.Outcome.Terminal() {
			return fmt.Errorf("replay diverged: move %d %q ended the game early (%s)", i+1, command, frame.Outcome)
		}
	}
	return nil
}

func (r *Replayer) print(text string) error {
	out := strings.TrimSpace(text)
	if r.Renderer != nil {
		if rendered, err := r.Renderer(out); err == nil {
			out = rendered
		}
	}
	_, err := fmt.Fprintln(r.Output, out)
	return err
}
