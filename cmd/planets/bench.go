package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	benchWidth  = 1400
	benchHeight = 800
)

func newBenchCmd(a *app) *cobra.Command {
	var (
		frames        int
		width, height float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Advance the field headless and report frame timing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames <= 0 {
				return errors.Errorf("frames must be positive, got %d", frames)
			}
			return runBench(cmd, a, frames, width, height)
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 600, "number of frames to advance")
	cmd.Flags().Float64Var(&width, "width", benchWidth, "field width")
	cmd.Flags().Float64Var(&height, "height", benchHeight, "field height")
	return cmd
}

func runBench(cmd *cobra.Command, a *app, frames int, width, height float64) error {
	if a.cfg.Display.FieldWidth > 0 {
		width = a.cfg.Display.FieldWidth
	}
	if a.cfg.Display.FieldHeight > 0 {
		height = a.cfg.Display.FieldHeight
	}

	eng, err := newSimulation(a.cfg, width, height, a.logger, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		eng.AdvanceFrame(width, height)
	}
	elapsed := time.Since(start)
	stats := eng.Stats()

	perFrame := elapsed / time.Duration(frames)
	a.logger.Info("Bench finished",
		zap.Int("frames", frames),
		zap.Duration("elapsed", elapsed),
		zap.Duration("per_frame", perFrame))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frames:    %d\n", stats.Frame)
	fmt.Fprintf(out, "bodies:    %d alive / %d total\n", stats.Alive, stats.Total)
	fmt.Fprintf(out, "elapsed:   %s\n", elapsed)
	fmt.Fprintf(out, "per frame: %s\n", perFrame)
	return nil
}
