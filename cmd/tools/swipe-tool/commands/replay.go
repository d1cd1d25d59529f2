package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/banshee-data/inky2048/internal/board"
	"github.com/banshee-data/inky2048/internal/game"
	"github.com/banshee-data/inky2048/internal/gesture"
	"github.com/banshee-data/inky2048/internal/monitoring"
	"github.com/banshee-data/inky2048/internal/touch"
)

func replayCmd() *cobra.Command {
	var (
		trigger string
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Run a touch line recording through the swipe tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tuning, err := loadTuning()
			if err != nil {
				return err
			}
			specs, err := replaySpecs(trigger)
			if err != nil {
				return err
			}
			monitoring.Debugf("replay: reporting %v", specs.Specs())
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var b *board.Board
			if seed != 0 {
				b = board.New(seed)
			}

			out := cmd.OutOrStdout()
			tracker := gesture.NewTracker(gesture.ConfigFromTuning(tuning))
			samples := make(chan gesture.Sample, 64)
			src := &touch.ReplaySource{Reader: f}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			srcErr := make(chan error, 1)
			go func() {
				srcErr <- src.Run(ctx, samples)
				close(samples)
			}()

			err = tracker.Run(ctx, samples, specs, func(sw gesture.Swipe) {
				fmt.Fprintln(out, sw)
				if b == nil || sw.Trigger != gesture.Completed {
					return
				}
				if _, err := b.Move(game.Commands[sw.Direction]); err != nil {
					fmt.Fprintf(out, "move: %v\n", err)
				}
			})
			if err != nil {
				return err
			}
			if err := <-srcErr; err != nil {
				return err
			}

			st := tracker.Stats()
			fmt.Fprintf(out, "samples=%d swipes=%d dropped=%d evicted=%d\n", st.Samples, st.Emitted, st.Dropped, st.Evicted)
			if b != nil {
				fmt.Fprintf(out, "score=%d max=%d\n%s", b.Score(), b.MaxTile(), b.Grid())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&trigger, "trigger", "completed", "swipes to report: completed, in_progress or all")
	cmd.Flags().Int64Var(&seed, "seed", 0, "apply completed swipes to a board seeded with this value")
	return cmd
}

func replaySpecs(trigger string) (*gesture.SpecSet, error) {
	if trigger == "all" {
		return gesture.NewSpecSet(append(
			gesture.AllDirections(gesture.InProgress),
			gesture.AllDirections(gesture.Completed)...,
		)...)
	}
	t, err := gesture.ParseTrigger(trigger)
	if err != nil {
		return nil, err
	}
	return gesture.NewSpecSet(gesture.AllDirections(t)...)
}
